// Package ops serves liveness, readiness and Prometheus metrics over HTTP,
// next to the gRPC endpoint.
package ops

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/nutrigate/internal/logging"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

const readinessTimeout = 3 * time.Second

// Pinger is one dependency checked by the readiness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

// NewRouter builds the echo instance. deps are checked by /health/ready in
// name order; reg backs both the HTTP metrics middleware and /metrics.
func NewRouter(deps map[string]Pinger, reg *prometheus.Registry) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "nutrigate",
		Subsystem:  "ops",
		Registerer: reg,
	}))

	e.GET("/health", liveness)
	e.GET("/health/ready", readiness(deps))
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: reg}))

	return e
}

func liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func readiness(deps map[string]Pinger) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), readinessTimeout)
		defer cancel()

		result := make(map[string]dependencyStatus, len(deps))
		healthy := true
		for name, dep := range deps {
			if err := dep.Ping(ctx); err != nil {
				result[name] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
				healthy = false
				continue
			}
			result[name] = dependencyStatus{Status: "ok"}
		}

		if !healthy {
			return c.JSON(http.StatusServiceUnavailable, readinessResponse{Status: "degraded", Dependencies: result})
		}
		return c.JSON(http.StatusOK, readinessResponse{Status: "ok", Dependencies: result})
	}
}

// Server runs the router until its context is cancelled.
type Server struct {
	address string
	router  *echo.Echo
	logger  logging.Logger
}

func NewServer(address string, router *echo.Echo, logger logging.Logger) *Server {
	return &Server{address: address, router: router, logger: logger.With("module", "ops_server")}
}

func (s *Server) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info(ctx, "Stopping ops server...")
		_ = s.router.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting ops server", "address", s.address)
	if err := s.router.Start(s.address); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
