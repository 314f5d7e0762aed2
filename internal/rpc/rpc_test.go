package rpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

type fakeServer struct {
	UnimplementedNutrigateServer
	lastSignIn *SignInRequest
}

func (f *fakeServer) SignIn(_ context.Context, in *SignInRequest) (*AuthResponse, error) {
	f.lastSignIn = in
	if in.Password != "secret1" {
		return nil, status.Error(codes.Unauthenticated, "invalid login credentials")
	}
	return &AuthResponse{
		AccessToken:  "A1",
		RefreshToken: "R1",
		Session:      Session{UserID: "u1", Email: in.Email, DisplayName: "Ann"},
	}, nil
}

func (f *fakeServer) GetProfile(_ context.Context, in *GetProfileRequest) (*Profile, error) {
	if in.UserID != "u1" {
		return nil, status.Error(codes.NotFound, "profile not found")
	}
	return &Profile{
		UserID: "u1", FullName: "Ann", Age: 31, HeightCm: 170.5, WeightKg: 61.2,
		Allergies: "None", OnboardingCompleted: true,
		UpdatedAt: time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC),
	}, nil
}

func startServer(t *testing.T, srv NutrigateServer, opts ...grpc.ServerOption) (NutrigateClient, *grpc.ClientConn) {
	t.Helper()
	lis := bufconn.Listen(1 << 20)

	s := grpc.NewServer(opts...)
	RegisterNutrigateServer(s, srv)
	healthpb.RegisterHealthServer(s, health.NewServer())
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return NewNutrigateClient(conn), conn
}

func TestRoundTrip_SignIn(t *testing.T) {
	fs := &fakeServer{}
	c, _ := startServer(t, fs)

	resp, err := c.SignIn(context.Background(), &SignInRequest{Email: "ann@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "A1", resp.AccessToken)
	assert.Equal(t, "R1", resp.RefreshToken)
	assert.Equal(t, Session{UserID: "u1", Email: "ann@example.com", DisplayName: "Ann"}, resp.Session)
	assert.Equal(t, "ann@example.com", fs.lastSignIn.Email)
}

func TestRoundTrip_StatusPassesThrough(t *testing.T) {
	c, _ := startServer(t, &fakeServer{})

	_, err := c.SignIn(context.Background(), &SignInRequest{Email: "ann@example.com", Password: "nope"})
	st, ok := status.FromError(err)
	require.True(t, ok)
	assert.Equal(t, codes.Unauthenticated, st.Code())
	assert.Equal(t, "invalid login credentials", st.Message())

	_, err = c.GetProfile(context.Background(), &GetProfileRequest{UserID: "u2"})
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestRoundTrip_ProfileFields(t *testing.T) {
	c, _ := startServer(t, &fakeServer{})

	p, err := c.GetProfile(context.Background(), &GetProfileRequest{UserID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, int32(31), p.Age)
	assert.InDelta(t, 170.5, p.HeightCm, 1e-9)
	assert.InDelta(t, 61.2, p.WeightKg, 1e-9)
	assert.Equal(t, "None", p.Allergies)
	assert.True(t, p.OnboardingCompleted)
	assert.True(t, p.UpdatedAt.Equal(time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)))
}

func TestUnimplemented(t *testing.T) {
	c, _ := startServer(t, &fakeServer{})

	_, err := c.GetUploadURL(context.Background(), &GetUploadURLRequest{ContentType: "image/png"})
	assert.Equal(t, codes.Unimplemented, status.Code(err))
}

func TestInterceptorSeesFullMethod(t *testing.T) {
	var seen []string
	icpt := func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		seen = append(seen, info.FullMethod)
		return handler(ctx, req)
	}
	c, _ := startServer(t, &fakeServer{}, grpc.ChainUnaryInterceptor(icpt))

	_, err := c.SignIn(context.Background(), &SignInRequest{Email: "a@b.c", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"/nutrigate.v1.Nutrigate/SignIn"}, seen)
}

func TestHealthUsesProtoOnSameConn(t *testing.T) {
	_, conn := startServer(t, &fakeServer{})

	resp, err := healthpb.NewHealthClient(conn).Check(context.Background(), &healthpb.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
}

func TestJSONCodec(t *testing.T) {
	c := jsonCodec{}
	assert.Equal(t, "json", c.Name())

	b, err := c.Marshal(&SignUpRequest{Email: "a@b.c", Password: "p", DisplayName: "A"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"email":"a@b.c","password":"p","display_name":"A"}`, string(b))

	var out Empty
	require.NoError(t, c.Unmarshal(nil, &out))

	var s Session
	require.Error(t, c.Unmarshal([]byte("{"), &s))

	_, err = c.Marshal(func() {})
	require.Error(t, err)
}
