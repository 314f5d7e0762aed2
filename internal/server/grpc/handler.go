package grpc

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/nutrigate/internal/common"
	"github.com/dmitrijs2005/nutrigate/internal/dbx"
	"github.com/dmitrijs2005/nutrigate/internal/rpc"
	"github.com/dmitrijs2005/nutrigate/internal/server/models"
	"github.com/dmitrijs2005/nutrigate/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	duplicateAccountMessage = "An account with this email already exists."
	unavailableMessage      = "service temporarily unavailable"
)

// toStatus maps service errors onto gRPC codes. Messages for client-facing
// codes are shown to the user as is.
func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, common.ErrInvalidCredentials),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrRefreshTokenExpired):
		return status.Error(codes.Unauthenticated, err.Error())
	case errors.Is(err, common.ErrorAlreadyExists):
		return status.Error(codes.AlreadyExists, duplicateAccountMessage)
	case errors.Is(err, common.ErrInvalidArgument):
		return status.Error(codes.InvalidArgument, strings.TrimPrefix(err.Error(), common.ErrInvalidArgument.Error()+": "))
	case errors.Is(err, common.ErrIncompleteProfile),
		errors.Is(err, common.ErrResetCodeInvalid):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, common.ErrorForbidden):
		return status.Error(codes.PermissionDenied, "access to another user's data is not allowed")
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case dbx.IsUnavailable(err):
		// clients retry Unavailable instead of dropping the session
		s.logger.Warn(ctx, "backing store unavailable", "error", err, "request_id", requestIDFromContext(ctx))
		return status.Error(codes.Unavailable, unavailableMessage)
	default:
		s.logger.Error(ctx, "request failed", "error", err, "request_id", requestIDFromContext(ctx))
		return status.Error(codes.Internal, "internal error")
	}
}

func (s *GRPCServer) callerID(ctx context.Context) (string, error) {
	id, ok := userIDFromContext(ctx)
	if !ok {
		return "", status.Error(codes.Unauthenticated, "missing token")
	}
	return id, nil
}

func toSession(u *models.User) rpc.Session {
	return rpc.Session{UserID: u.ID, Email: u.Email, DisplayName: u.DisplayName}
}

func toAuthResponse(u *models.User, pair *services.TokenPair) *rpc.AuthResponse {
	return &rpc.AuthResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		Session:      toSession(u),
	}
}

func toRPCProfile(p *models.Profile) *rpc.Profile {
	return &rpc.Profile{
		UserID:              p.UserID,
		FullName:            p.FullName,
		Age:                 int32(p.Age),
		HeightCm:            p.HeightCm,
		WeightKg:            p.WeightKg,
		Allergies:           p.Allergies,
		OnboardingCompleted: p.OnboardingCompleted,
		UpdatedAt:           p.UpdatedAt,
	}
}

func fromRPCProfile(p *rpc.Profile) *models.Profile {
	return &models.Profile{
		UserID:              p.UserID,
		FullName:            p.FullName,
		Age:                 int(p.Age),
		HeightCm:            p.HeightCm,
		WeightKg:            p.WeightKg,
		Allergies:           p.Allergies,
		OnboardingCompleted: p.OnboardingCompleted,
	}
}

func (s *GRPCServer) SignUp(ctx context.Context, req *rpc.SignUpRequest) (*rpc.AuthResponse, error) {
	user, pair, err := s.identity.SignUp(ctx, req.Email, req.Password, req.DisplayName)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return toAuthResponse(user, pair), nil
}

func (s *GRPCServer) SignIn(ctx context.Context, req *rpc.SignInRequest) (*rpc.AuthResponse, error) {
	user, pair, err := s.identity.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return toAuthResponse(user, pair), nil
}

func (s *GRPCServer) SignOut(ctx context.Context, req *rpc.SignOutRequest) (*rpc.Empty, error) {
	if err := s.identity.SignOut(ctx, req.RefreshToken); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.Empty{}, nil
}

func (s *GRPCServer) WhoAmI(ctx context.Context, _ *rpc.Empty) (*rpc.Session, error) {
	userID, err := s.callerID(ctx)
	if err != nil {
		return nil, err
	}
	user, err := s.identity.WhoAmI(ctx, userID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	session := toSession(user)
	return &session, nil
}

func (s *GRPCServer) RefreshToken(ctx context.Context, req *rpc.RefreshTokenRequest) (*rpc.TokenPair, error) {
	pair, err := s.identity.RefreshToken(ctx, req.RefreshToken)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.TokenPair{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}, nil
}

func (s *GRPCServer) SendPasswordReset(ctx context.Context, req *rpc.SendPasswordResetRequest) (*rpc.Empty, error) {
	if err := s.identity.SendPasswordReset(ctx, req.Email); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.Empty{}, nil
}

func (s *GRPCServer) ResetPassword(ctx context.Context, req *rpc.ResetPasswordRequest) (*rpc.Empty, error) {
	if err := s.identity.ResetPassword(ctx, req.Code, req.NewPassword); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.Empty{}, nil
}

func (s *GRPCServer) GetProfile(ctx context.Context, req *rpc.GetProfileRequest) (*rpc.Profile, error) {
	userID, err := s.callerID(ctx)
	if err != nil {
		return nil, err
	}
	p, err := s.profiles.Get(ctx, userID, req.UserID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return toRPCProfile(p), nil
}

func (s *GRPCServer) UpsertProfile(ctx context.Context, req *rpc.Profile) (*rpc.Profile, error) {
	userID, err := s.callerID(ctx)
	if err != nil {
		return nil, err
	}
	p, err := s.profiles.Upsert(ctx, userID, fromRPCProfile(req))
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return toRPCProfile(p), nil
}

func (s *GRPCServer) GetUploadURL(ctx context.Context, req *rpc.GetUploadURLRequest) (*rpc.GetUploadURLResponse, error) {
	userID, err := s.callerID(ctx)
	if err != nil {
		return nil, err
	}
	key, url, err := s.media.GetUploadURL(ctx, userID, req.ContentType)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.GetUploadURLResponse{Key: key, URL: url}, nil
}
