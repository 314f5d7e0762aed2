package rpc

import (
	"context"

	"google.golang.org/grpc"
)

// NutrigateClient mirrors NutrigateServer for callers.
type NutrigateClient interface {
	SignUp(ctx context.Context, in *SignUpRequest, opts ...grpc.CallOption) (*AuthResponse, error)
	SignIn(ctx context.Context, in *SignInRequest, opts ...grpc.CallOption) (*AuthResponse, error)
	SignOut(ctx context.Context, in *SignOutRequest, opts ...grpc.CallOption) (*Empty, error)
	WhoAmI(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*Session, error)
	RefreshToken(ctx context.Context, in *RefreshTokenRequest, opts ...grpc.CallOption) (*TokenPair, error)
	SendPasswordReset(ctx context.Context, in *SendPasswordResetRequest, opts ...grpc.CallOption) (*Empty, error)
	ResetPassword(ctx context.Context, in *ResetPasswordRequest, opts ...grpc.CallOption) (*Empty, error)
	GetProfile(ctx context.Context, in *GetProfileRequest, opts ...grpc.CallOption) (*Profile, error)
	UpsertProfile(ctx context.Context, in *Profile, opts ...grpc.CallOption) (*Profile, error)
	GetUploadURL(ctx context.Context, in *GetUploadURLRequest, opts ...grpc.CallOption) (*GetUploadURLResponse, error)
}

type nutrigateClient struct {
	cc grpc.ClientConnInterface
}

func NewNutrigateClient(cc grpc.ClientConnInterface) NutrigateClient {
	return &nutrigateClient{cc: cc}
}

func invoke[Req, Resp any](ctx context.Context, cc grpc.ClientConnInterface, name string, in *Req, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{CallOption()}, opts...)
	if err := cc.Invoke(ctx, FullMethod(name), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *nutrigateClient) SignUp(ctx context.Context, in *SignUpRequest, opts ...grpc.CallOption) (*AuthResponse, error) {
	return invoke[SignUpRequest, AuthResponse](ctx, c.cc, MethodSignUp, in, opts)
}

func (c *nutrigateClient) SignIn(ctx context.Context, in *SignInRequest, opts ...grpc.CallOption) (*AuthResponse, error) {
	return invoke[SignInRequest, AuthResponse](ctx, c.cc, MethodSignIn, in, opts)
}

func (c *nutrigateClient) SignOut(ctx context.Context, in *SignOutRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[SignOutRequest, Empty](ctx, c.cc, MethodSignOut, in, opts)
}

func (c *nutrigateClient) WhoAmI(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*Session, error) {
	return invoke[Empty, Session](ctx, c.cc, MethodWhoAmI, in, opts)
}

func (c *nutrigateClient) RefreshToken(ctx context.Context, in *RefreshTokenRequest, opts ...grpc.CallOption) (*TokenPair, error) {
	return invoke[RefreshTokenRequest, TokenPair](ctx, c.cc, MethodRefreshToken, in, opts)
}

func (c *nutrigateClient) SendPasswordReset(ctx context.Context, in *SendPasswordResetRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[SendPasswordResetRequest, Empty](ctx, c.cc, MethodSendPasswordReset, in, opts)
}

func (c *nutrigateClient) ResetPassword(ctx context.Context, in *ResetPasswordRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[ResetPasswordRequest, Empty](ctx, c.cc, MethodResetPassword, in, opts)
}

func (c *nutrigateClient) GetProfile(ctx context.Context, in *GetProfileRequest, opts ...grpc.CallOption) (*Profile, error) {
	return invoke[GetProfileRequest, Profile](ctx, c.cc, MethodGetProfile, in, opts)
}

func (c *nutrigateClient) UpsertProfile(ctx context.Context, in *Profile, opts ...grpc.CallOption) (*Profile, error) {
	return invoke[Profile, Profile](ctx, c.cc, MethodUpsertProfile, in, opts)
}

func (c *nutrigateClient) GetUploadURL(ctx context.Context, in *GetUploadURLRequest, opts ...grpc.CallOption) (*GetUploadURLResponse, error) {
	return invoke[GetUploadURLRequest, GetUploadURLResponse](ctx, c.cc, MethodGetUploadURL, in, opts)
}
