package grpc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/dmitrijs2005/nutrigate/internal/common"
	"github.com/dmitrijs2005/nutrigate/internal/rpc"
	"github.com/dmitrijs2005/nutrigate/internal/server/models"
	"github.com/dmitrijs2005/nutrigate/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func asUser(id string) context.Context {
	return context.WithValue(context.Background(), userIDKey, id)
}

func TestToStatus(t *testing.T) {
	s, _ := newTestServer()
	cases := []struct {
		err  error
		code codes.Code
		msg  string
	}{
		{common.ErrInvalidCredentials, codes.Unauthenticated, "invalid login credentials"},
		{common.ErrTokenExpired, codes.Unauthenticated, "token expired"},
		{fmt.Errorf("%w: bad sig", common.ErrInvalidToken), codes.Unauthenticated, "invalid token: bad sig"},
		{common.ErrRefreshTokenExpired, codes.Unauthenticated, "refresh token expired"},
		{fmt.Errorf("%w: dup", common.ErrorAlreadyExists), codes.AlreadyExists, duplicateAccountMessage},
		{fmt.Errorf("%w: email is required", common.ErrInvalidArgument), codes.InvalidArgument, "email is required"},
		{common.ErrIncompleteProfile, codes.InvalidArgument, common.ErrIncompleteProfile.Error()},
		{common.ErrResetCodeInvalid, codes.InvalidArgument, common.ErrResetCodeInvalid.Error()},
		{common.ErrorNotFound, codes.NotFound, "not found"},
		{common.ErrorForbidden, codes.PermissionDenied, "access to another user's data is not allowed"},
		{context.Canceled, codes.Canceled, context.Canceled.Error()},
		{context.DeadlineExceeded, codes.DeadlineExceeded, context.DeadlineExceeded.Error()},
		{fmt.Errorf("db error: %w", &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}), codes.Unavailable, unavailableMessage},
		{errors.New("db down"), codes.Internal, "internal error"},
	}
	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			st := status.Convert(s.toStatus(context.Background(), tc.err))
			assert.Equal(t, tc.code, st.Code())
			assert.Equal(t, tc.msg, st.Message())
		})
	}
}

func TestWhoAmI_Handler_StoreOutageIsUnavailable(t *testing.T) {
	s, f := newTestServer()
	f.identity.err = fmt.Errorf("db error: %w", &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")})

	_, err := s.WhoAmI(asUser("u1"), &rpc.Empty{})
	assert.Equal(t, codes.Unavailable, status.Code(err))
}

func TestSignUp_Handler(t *testing.T) {
	s, d := newTestServer()
	d.identity.user = &models.User{ID: "u1", Email: "ann@example.com", DisplayName: "Ann"}
	d.identity.pair = &services.TokenPair{AccessToken: "a", RefreshToken: "r"}

	resp, err := s.SignUp(context.Background(), &rpc.SignUpRequest{Email: "ann@example.com", Password: "secret1", DisplayName: "Ann"})
	require.NoError(t, err)
	assert.Equal(t, &rpc.AuthResponse{
		AccessToken: "a", RefreshToken: "r",
		Session: rpc.Session{UserID: "u1", Email: "ann@example.com", DisplayName: "Ann"},
	}, resp)
	assert.Equal(t, []string{"ann@example.com", "secret1", "Ann"}, d.identity.signUpArgs)
}

func TestSignIn_Handler_BadCredentials(t *testing.T) {
	s, d := newTestServer()
	d.identity.user = &models.User{ID: "u1", Email: "ann@example.com"}

	_, err := s.SignIn(context.Background(), &rpc.SignInRequest{Email: "ann@example.com", Password: "nope"})
	st := status.Convert(err)
	assert.Equal(t, codes.Unauthenticated, st.Code())
	assert.Equal(t, "invalid login credentials", st.Message())
}

func TestWhoAmI_Handler(t *testing.T) {
	s, d := newTestServer()
	d.identity.user = &models.User{ID: "u1", Email: "ann@example.com"}

	got, err := s.WhoAmI(asUser("u1"), &rpc.Empty{})
	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserID)
	assert.Equal(t, "u1", d.identity.whoAmIArg)

	_, err = s.WhoAmI(context.Background(), &rpc.Empty{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestSignOutRefreshAndReset_Handlers(t *testing.T) {
	s, d := newTestServer()
	d.identity.pair = &services.TokenPair{AccessToken: "a2", RefreshToken: "r2"}

	_, err := s.SignOut(context.Background(), &rpc.SignOutRequest{RefreshToken: "r1"})
	require.NoError(t, err)
	assert.Equal(t, "r1", d.identity.signOutArg)

	pair, err := s.RefreshToken(context.Background(), &rpc.RefreshTokenRequest{RefreshToken: "r1"})
	require.NoError(t, err)
	assert.Equal(t, &rpc.TokenPair{AccessToken: "a2", RefreshToken: "r2"}, pair)

	_, err = s.SendPasswordReset(context.Background(), &rpc.SendPasswordResetRequest{Email: "ann@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", d.identity.resetEmail)

	_, err = s.ResetPassword(context.Background(), &rpc.ResetPasswordRequest{Code: "c", NewPassword: "newpass"})
	require.NoError(t, err)
	assert.Equal(t, "c", d.identity.resetCode)
	assert.Equal(t, "newpass", d.identity.newPassword)

	d.identity.err = common.ErrResetCodeInvalid
	_, err = s.ResetPassword(context.Background(), &rpc.ResetPasswordRequest{Code: "c", NewPassword: "newpass"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestProfile_Handlers(t *testing.T) {
	s, _ := newTestServer()
	ctx := asUser("u1")

	_, err := s.GetProfile(ctx, &rpc.GetProfileRequest{UserID: "u1"})
	assert.Equal(t, codes.NotFound, status.Code(err))

	_, err = s.UpsertProfile(ctx, &rpc.Profile{FullName: "Ann", OnboardingCompleted: true})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	saved, err := s.UpsertProfile(ctx, &rpc.Profile{
		FullName: "Ann", Age: 30, HeightCm: 170, WeightKg: 60, Allergies: "none", OnboardingCompleted: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "u1", saved.UserID)

	got, err := s.GetProfile(ctx, &rpc.GetProfileRequest{UserID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, int32(30), got.Age)
	assert.True(t, got.OnboardingCompleted)

	_, err = s.GetProfile(ctx, &rpc.GetProfileRequest{UserID: "u2"})
	assert.Equal(t, codes.PermissionDenied, status.Code(err))
}

func TestGetUploadURL_Handler(t *testing.T) {
	s, d := newTestServer()

	resp, err := s.GetUploadURL(asUser("u1"), &rpc.GetUploadURLRequest{ContentType: "image/png"})
	require.NoError(t, err)
	assert.Equal(t, "https://s3/put", resp.URL)
	assert.Equal(t, "users/u1/uploads/k", resp.Key)
	assert.Equal(t, "image/png", d.media.contentType)

	d.media.err = fmt.Errorf("%w: only images can be uploaded", common.ErrInvalidArgument)
	_, err = s.GetUploadURL(asUser("u1"), &rpc.GetUploadURLRequest{ContentType: "text/plain"})
	st := status.Convert(err)
	assert.Equal(t, codes.InvalidArgument, st.Code())
	assert.Equal(t, "only images can be uploaded", st.Message())
}
