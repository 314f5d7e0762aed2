// Package grpc exposes the nutrigate services over gRPC with the JSON codec
// from internal/rpc, plus the standard health service.
package grpc

import (
	"context"
	"errors"
	"net"

	"github.com/dmitrijs2005/nutrigate/internal/logging"
	"github.com/dmitrijs2005/nutrigate/internal/rpc"
	"github.com/dmitrijs2005/nutrigate/internal/server/models"
	"github.com/dmitrijs2005/nutrigate/internal/server/services"
	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type IdentityService interface {
	SignUp(ctx context.Context, email, password, displayName string) (*models.User, *services.TokenPair, error)
	SignIn(ctx context.Context, email, password string) (*models.User, *services.TokenPair, error)
	SignOut(ctx context.Context, refreshToken string) error
	WhoAmI(ctx context.Context, userID string) (*models.User, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	SendPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, code, newPassword string) error
}

type ProfileService interface {
	Get(ctx context.Context, callerID, userID string) (*models.Profile, error)
	Upsert(ctx context.Context, callerID string, p *models.Profile) (*models.Profile, error)
}

type MediaService interface {
	GetUploadURL(ctx context.Context, userID, contentType string) (string, string, error)
}

type GRPCServer struct {
	rpc.UnimplementedNutrigateServer
	address   string
	identity  IdentityService
	profiles  ProfileService
	media     MediaService
	logger    logging.Logger
	metrics   *Metrics
	jwtSecret []byte
}

func NewGRPCServer(a string, l logging.Logger, reg prometheus.Registerer,
	ids IdentityService, ps ProfileService, ms MediaService, secretKey string) *GRPCServer {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		metrics:   NewMetrics(reg),
		identity:  ids,
		profiles:  ps,
		media:     ms,
		jwtSecret: []byte(secretKey),
	}
}

func (s *GRPCServer) newServer() (*grpc.Server, *health.Server) {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(
		s.requestIDInterceptor,
		s.observeInterceptor,
		s.accessTokenInterceptor,
	))

	rpc.RegisterNutrigateServer(srv, s)

	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(rpc.ServiceName, healthpb.HealthCheckResponse_SERVING)

	return srv, hs
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is done, then stops gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv, hs := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		hs.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}

	return nil
}
