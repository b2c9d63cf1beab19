package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/evenzaa/events-api/internal/api"
	"github.com/evenzaa/events-api/internal/core/security"
	"github.com/evenzaa/events-api/internal/core/service"
	mongodb "github.com/evenzaa/events-api/internal/infrastructure/db/mongo"
	redisdb "github.com/evenzaa/events-api/internal/infrastructure/db/redis"
	httpserver "github.com/evenzaa/events-api/internal/infrastructure/http"
	"github.com/evenzaa/events-api/internal/infrastructure/http/handlers"
	"github.com/evenzaa/events-api/internal/infrastructure/queue"
	"github.com/evenzaa/events-api/pkg/logger"
)

var (
	// Server flags (override config/env)
	serverPort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the HTTP server and begin accepting API requests.

The server will:
- Load configuration from environment variables
- Connect to MongoDB and Redis and ensure indexes
- Start the auth audit workers
- Handle graceful shutdown on SIGINT/SIGTERM

Examples:
  # Start with default configuration (from env vars)
  evenzaa serve

  # Start on a specific port with debug logging
  evenzaa serve --port 9090 --log-level debug`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return runServer(ctx)
	},
}

func init() {
	serveCmd.Flags().IntVar(&serverPort, "port", 0, "server port (default: PORT or 3000)")
}

func runServer(ctx context.Context) error {
	cfg, err := bootstrap(ctx)
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logger.Get()
	if serverPort != 0 {
		cfg.Port = strconv.Itoa(serverPort)
	}
	log.Info().Str("version", Version).Msg("starting evenzaa api")

	// --- Storage ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		Timeout:  cfg.Mongo.Timeout,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := mongodb.Disconnect(mongoClient, cfg.ShutdownTimeout); err != nil {
			log.Error().Err(err).Msg("mongo disconnect")
		} else {
			log.Info().Msg("mongo disconnected")
		}
	}()
	log.Info().Str("database", cfg.Mongo.Database).Msg("mongo connected")

	if err := ensureIndexes(ctx, db); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		Timeout:  cfg.Redis.Timeout,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("redis close")
		}
	}()
	log.Info().Str("addr", cfg.Redis.Addr).Msg("redis connected")

	// --- Audit workers ---
	auditCtx, stopAudit := context.WithCancel(context.WithoutCancel(ctx))
	dispatcher := queue.NewDispatcher(cfg.Audit.Workers, cfg.Audit.Buffer, mongodb.NewAuditRepository(db), log)
	dispatcher.Start(auditCtx)
	defer func() {
		stopAudit()
		dispatcher.Wait()
		log.Info().Msg("audit workers stopped")
	}()

	// --- Services ---
	hasher, err := security.NewPasswordHasher(cfg.Auth.PasswordHasher, cfg.Auth.BcryptCost)
	if err != nil {
		return err
	}
	authService := service.NewAuthService(
		mongodb.NewCredentialRepository(db),
		mongodb.NewProfileRepository(db),
		hasher,
		redisdb.NewProfileCache(rdb, cfg.Redis.ProfileCacheTTL),
		dispatcher,
		log,
	)
	eventService := service.NewEventService(mongodb.NewEventRepository(db), log)

	router := api.NewRouter(api.Deps{
		Auth:   authService,
		Events: eventService,
		Checks: map[string]handlers.Check{
			"mongodb": func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) },
			"redis":   func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		},
		Logger:         log,
		Version:        Version,
		RequestTimeout: cfg.RequestTimeout,
		CORSOrigins:    cfg.CORSOrigins,
	})

	// Blocks until SIGINT/SIGTERM; deferred steps then stop the audit
	// workers, close Redis and disconnect Mongo in that order.
	return httpserver.NewServer(router, cfg.Port, cfg.ShutdownTimeout, log).Run(ctx)
}

func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	return mongodb.EnsureIndexes(ctx,
		mongodb.NewCredentialRepository(db),
		mongodb.NewProfileRepository(db),
		mongodb.NewEventRepository(db),
		mongodb.NewAuditRepository(db),
	)
}
