// cmd/api/main.go

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/nats-io/nats.go"
	"github.com/phuslu/log"

	"geofeed/internal/adapter/events"
	"geofeed/internal/adapter/storage"
	"geofeed/internal/config"
	"geofeed/internal/domain/content"
	"geofeed/internal/logging"
	"geofeed/internal/server"
	"geofeed/internal/service/discovery"
	"geofeed/internal/service/feed"
	"geofeed/internal/service/geo"
	"geofeed/internal/service/warmer"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)

	if err := run(cfg, logger); err != nil {
		logger.Error().Err(err).Msg("exiting")
		os.Exit(1)
	}
}

// run wires the service and blocks until a signal or a server failure.
// Every resource opened here is released before it returns.
func run(cfg config.Config, logger *log.Logger) error {
	// Setup context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	// Initialize storage
	store, err := initStore(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("initialize %s store: %w", cfg.Database.Driver, err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn().Err(err).Msg("store close error")
		}
	}()

	if err := store.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}

	// NATS is optional: without it the service runs with no ingestion or live push
	natsConn, err := initNATS(cfg.NATS, logger)
	if err != nil {
		logger.Warn().Err(err).Str("url", cfg.NATS.URL).Msg("running without event bus")
	} else {
		defer func() {
			if err := natsConn.Drain(); err != nil {
				logger.Warn().Err(err).Msg("NATS drain error")
			}
		}()
	}

	clock := content.SystemClock{}
	venues := geo.NewVenueDetector(cfg.Geo.Venues)

	// Initialize services
	engine := discovery.NewEngine(
		store,
		store,
		discovery.NewCache(cfg.Discovery.CacheTTL, clock),
		clock,
		discovery.EngineConfig{
			CandidateCap:         cfg.Discovery.CandidateCap,
			DefaultLimit:         cfg.Discovery.DefaultLimit,
			DefaultRadiusMeters:  cfg.Discovery.DefaultRadiusMeters,
			MaxConcurrentFetches: cfg.Discovery.MaxConcurrentFetches,
			AuthorBatchSize:      cfg.Discovery.AuthorBatchSize,
		},
		logger,
	)

	feedService := feed.NewService(store, venues, clock, cfg.Discovery.CandidateCap, logger)

	var (
		announcer      warmer.Announcer
		refreshSubject string
	)
	if natsConn != nil {
		publisher := events.NewPublisher(natsConn, cfg.NATS.EventsTopic, logger)
		announcer = publisher
		refreshSubject = publisher.RefreshedSubject()

		if cfg.NATS.IngestEnabled {
			consumer := events.NewConsumer(natsConn, store, logger)
			if err := consumer.Start(); err != nil {
				return fmt.Errorf("start event consumer: %w", err)
			}
			defer consumer.Stop()
		}
	}

	// Cache warmer
	trendingWarmer, err := warmer.New(engine, announcer, cfg.Discovery.WarmTimeframes, cfg.Discovery.DefaultLimit, clock, logger)
	if err != nil {
		return fmt.Errorf("create cache warmer: %w", err)
	}

	scheduler := warmer.NewScheduler(cfg.Discovery.CacheTTL, logger)
	if err := trendingWarmer.Schedule(scheduler, cfg.Discovery.WarmSchedule); err != nil {
		return fmt.Errorf("schedule cache warmer: %w", err)
	}
	scheduler.Start()
	defer func() {
		// Wait for a running warm job, bounded by the shutdown timeout
		select {
		case <-scheduler.Stop().Done():
		case <-time.After(cfg.Server.ShutdownTimeout):
			logger.Warn().Msg("cache warmer did not stop in time")
		}
	}()

	// Initialize HTTP server
	httpServer := server.NewServer(cfg.Server, server.Dependencies{
		Engine:         engine,
		Feed:           feedService,
		Venues:         venues,
		NATSConn:       natsConn,
		RefreshSubject: refreshSubject,
	}, logger)

	// Start HTTP server
	serverErr := make(chan error, 1)
	go func() {
		logger.Info().Str("host", cfg.Server.Host).Int("port", cfg.Server.Port).Str("driver", cfg.Database.Driver).Int("venues", len(cfg.Geo.Venues)).Msg("starting HTTP server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	// Wait for shutdown signal or a server failure
	var runErr error
	select {
	case <-shutdown:
		logger.Info().Msg("shutdown signal received")
	case err := <-serverErr:
		runErr = fmt.Errorf("HTTP server: %w", err)
	}

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	// Shutdown HTTP server
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("HTTP server shutdown error")
	}

	logger.Info().Msg("shutting down services")
	return runErr
}

// initStore opens the configured backend
func initStore(ctx context.Context, cfg config.DatabaseConfig) (storage.Store, error) {
	switch cfg.Driver {
	case "postgres":
		db, err := initDatabase(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return storage.NewPostgresStore(db), nil
	case "sqlite":
		return storage.NewSQLiteStore(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// Initialize database connection
func initDatabase(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("unable to parse connection string: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxOpenConns)
	poolConfig.MinConns = int32(cfg.MaxIdleConns)
	poolConfig.MaxConnLifetime = cfg.MaxLifetime

	db, err := pgxpool.ConnectConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	// Test connection
	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return db, nil
}

// Initialize NATS connection
func initNATS(cfg config.NATSConfig, logger *log.Logger) (*nats.Conn, error) {
	options := []nats.Option{
		nats.Name("geofeed"),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.Timeout(cfg.ConnectTimeout),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			logger.Warn().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info().Msg("NATS connection closed")
		}),
	}

	nc, err := nats.Connect(cfg.URL, options...)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to NATS: %w", err)
	}

	return nc, nil
}
