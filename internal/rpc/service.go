package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "nutrigate.v1.Nutrigate"

const (
	MethodSignUp            = "SignUp"
	MethodSignIn            = "SignIn"
	MethodSignOut           = "SignOut"
	MethodWhoAmI            = "WhoAmI"
	MethodRefreshToken      = "RefreshToken"
	MethodSendPasswordReset = "SendPasswordReset"
	MethodResetPassword     = "ResetPassword"
	MethodGetProfile        = "GetProfile"
	MethodUpsertProfile     = "UpsertProfile"
	MethodGetUploadURL      = "GetUploadURL"
)

// FullMethod returns "/nutrigate.v1.Nutrigate/<name>" as seen by interceptors.
func FullMethod(name string) string {
	return "/" + ServiceName + "/" + name
}

// NutrigateServer is implemented by the backend.
type NutrigateServer interface {
	SignUp(context.Context, *SignUpRequest) (*AuthResponse, error)
	SignIn(context.Context, *SignInRequest) (*AuthResponse, error)
	SignOut(context.Context, *SignOutRequest) (*Empty, error)
	WhoAmI(context.Context, *Empty) (*Session, error)
	RefreshToken(context.Context, *RefreshTokenRequest) (*TokenPair, error)
	SendPasswordReset(context.Context, *SendPasswordResetRequest) (*Empty, error)
	ResetPassword(context.Context, *ResetPasswordRequest) (*Empty, error)
	GetProfile(context.Context, *GetProfileRequest) (*Profile, error)
	UpsertProfile(context.Context, *Profile) (*Profile, error)
	GetUploadURL(context.Context, *GetUploadURLRequest) (*GetUploadURLResponse, error)
}

// UnimplementedNutrigateServer can be embedded to satisfy NutrigateServer
// while only overriding some methods.
type UnimplementedNutrigateServer struct{}

func unimplemented(name string) error {
	return status.Errorf(codes.Unimplemented, "method %s not implemented", name)
}

func (UnimplementedNutrigateServer) SignUp(context.Context, *SignUpRequest) (*AuthResponse, error) {
	return nil, unimplemented(MethodSignUp)
}
func (UnimplementedNutrigateServer) SignIn(context.Context, *SignInRequest) (*AuthResponse, error) {
	return nil, unimplemented(MethodSignIn)
}
func (UnimplementedNutrigateServer) SignOut(context.Context, *SignOutRequest) (*Empty, error) {
	return nil, unimplemented(MethodSignOut)
}
func (UnimplementedNutrigateServer) WhoAmI(context.Context, *Empty) (*Session, error) {
	return nil, unimplemented(MethodWhoAmI)
}
func (UnimplementedNutrigateServer) RefreshToken(context.Context, *RefreshTokenRequest) (*TokenPair, error) {
	return nil, unimplemented(MethodRefreshToken)
}
func (UnimplementedNutrigateServer) SendPasswordReset(context.Context, *SendPasswordResetRequest) (*Empty, error) {
	return nil, unimplemented(MethodSendPasswordReset)
}
func (UnimplementedNutrigateServer) ResetPassword(context.Context, *ResetPasswordRequest) (*Empty, error) {
	return nil, unimplemented(MethodResetPassword)
}
func (UnimplementedNutrigateServer) GetProfile(context.Context, *GetProfileRequest) (*Profile, error) {
	return nil, unimplemented(MethodGetProfile)
}
func (UnimplementedNutrigateServer) UpsertProfile(context.Context, *Profile) (*Profile, error) {
	return nil, unimplemented(MethodUpsertProfile)
}
func (UnimplementedNutrigateServer) GetUploadURL(context.Context, *GetUploadURLRequest) (*GetUploadURLResponse, error) {
	return nil, unimplemented(MethodGetUploadURL)
}

// unary builds a MethodDesc that decodes Req, runs the server interceptor
// chain and dispatches to call.
func unary[Req, Resp any](name string, call func(NutrigateServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(NutrigateServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(name)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(NutrigateServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*NutrigateServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(MethodSignUp, NutrigateServer.SignUp),
		unary(MethodSignIn, NutrigateServer.SignIn),
		unary(MethodSignOut, NutrigateServer.SignOut),
		unary(MethodWhoAmI, NutrigateServer.WhoAmI),
		unary(MethodRefreshToken, NutrigateServer.RefreshToken),
		unary(MethodSendPasswordReset, NutrigateServer.SendPasswordReset),
		unary(MethodResetPassword, NutrigateServer.ResetPassword),
		unary(MethodGetProfile, NutrigateServer.GetProfile),
		unary(MethodUpsertProfile, NutrigateServer.UpsertProfile),
		unary(MethodGetUploadURL, NutrigateServer.GetUploadURL),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "nutrigate/v1/nutrigate.json",
}

func RegisterNutrigateServer(s grpc.ServiceRegistrar, srv NutrigateServer) {
	s.RegisterService(&ServiceDesc, srv)
}
