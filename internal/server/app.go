// Package server wires the nutrigate backend together: PostgreSQL with goose
// migrations, Redis for reset codes, the services, and the gRPC and ops
// servers running side by side until a shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/nutrigate/internal/logging"
	"github.com/dmitrijs2005/nutrigate/internal/server/config"
	"github.com/dmitrijs2005/nutrigate/internal/server/ops"
	"github.com/dmitrijs2005/nutrigate/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/nutrigate/internal/server/resets"
	"github.com/dmitrijs2005/nutrigate/internal/server/services"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	gs "github.com/dmitrijs2005/nutrigate/internal/server/grpc"
)

// runner is a long-lived server stopped by cancelling its context.
type runner interface {
	Run(ctx context.Context) error
}

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	redis   *redis.Client
	servers []runner
}

var (
	openDB = func(ctx context.Context, dsn string) (*sql.DB, error) {
		db, err := sql.Open("pgx", dsn)
		if err != nil {
			return nil, err
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
		return db, nil
	}

	connectRedis = resets.Connect

	newRepositoryManager = repomanager.NewPostgresRepositoryManager
)

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	db, err := openDB(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := newRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	rdb, err := connectRedis(ctx, resets.RedisConfig{Addr: c.RedisAddr, DB: c.RedisDB})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("redis init error: %w", err)
	}

	var mailer resets.Mailer = resets.NewLogMailer(logger)
	if c.MailSender != "" {
		if mailer, err = resets.NewSESMailer(ctx, c.SESRegion, c.MailSender); err != nil {
			_ = db.Close()
			_ = rdb.Close()
			return nil, fmt.Errorf("mailer init error: %w", err)
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	identity := services.NewIdentityService(db, rm, resets.NewRedisStore(rdb), mailer, logger, c)
	profiles := services.NewProfileService(db, rm)
	media := services.NewMediaService(c)

	grpcServer := gs.NewGRPCServer(c.EndpointAddrGRPC, logger, reg, identity, profiles, media, c.SecretKey)

	router := ops.NewRouter(map[string]ops.Pinger{
		"postgres": ops.PingFunc(db.PingContext),
		"redis":    ops.PingFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() }),
	}, reg)
	opsServer := ops.NewServer(c.OpsAddr, router, logger)

	return &App{
		config:  c,
		logger:  logger,
		db:      db,
		redis:   rdb,
		servers: []runner{grpcServer, opsServer},
	}, nil
}

// Run serves until SIGINT, SIGTERM or SIGQUIT, or until one server fails,
// then stops the others and releases connections.
func (app *App) Run(ctx context.Context) error {

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	app.logger.Info(ctx, "Starting app...")

	g, gctx := errgroup.WithContext(ctx)
	for _, s := range app.servers {
		g.Go(func() error { return s.Run(gctx) })
	}

	err := g.Wait()
	if err != nil {
		app.logger.Error(ctx, "server stopped with error", "error", err)
	}

	app.close()
	app.logger.Info(context.Background(), "App stopped")
	return err
}

func (app *App) close() {
	if app.redis != nil {
		_ = app.redis.Close()
	}
	if app.db != nil {
		_ = app.db.Close()
	}
}
