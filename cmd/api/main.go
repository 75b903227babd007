// Package main provides the entrypoint for the AidLink API server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/aidlink/aidlink/internal/api"
	"github.com/aidlink/aidlink/internal/api/handler"
	"github.com/aidlink/aidlink/internal/api/middleware"
	"github.com/aidlink/aidlink/internal/application"
	"github.com/aidlink/aidlink/internal/auth"
	"github.com/aidlink/aidlink/internal/config"
	"github.com/aidlink/aidlink/internal/database"
	"github.com/aidlink/aidlink/internal/events"
	"github.com/aidlink/aidlink/internal/featureflags"
	"github.com/aidlink/aidlink/internal/feed"
	"github.com/aidlink/aidlink/internal/heatmap"
	"github.com/aidlink/aidlink/internal/location"
	"github.com/aidlink/aidlink/internal/logging"
	"github.com/aidlink/aidlink/internal/metrics"
	"github.com/aidlink/aidlink/internal/resilience"
	"github.com/aidlink/aidlink/internal/telemetry"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "aidlink-api"

	cfg, err := config.Load()
	if err != nil {
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("invalid configuration")
	}

	log, logCloser := logging.New(logging.Config{
		Service: serviceName,
		Version: Version,
		Level:   cfg.LogLevel,
		File:    cfg.LogFile,
		Pretty:  cfg.LogPretty,
	})
	defer logCloser.Close() //nolint:errcheck // best-effort flush on exit

	log.Info().
		Str("build_time", BuildTime).
		Str("env", cfg.Env).
		Str("storage", cfg.Storage).
		Msg("starting AidLink API")

	ctx := context.Background()

	shutdownTelemetry, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    cfg.Env,
		OTLPEndpoint:   cfg.Telemetry.OTLPEndpoint,
		Enabled:        cfg.Telemetry.Enabled,
		SampleRatio:    cfg.Telemetry.SampleRatio,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := shutdownTelemetry(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	httpMetrics, err := middleware.NewMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize HTTP metrics")
	}

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	domainMetrics := metrics.New(promRegistry)

	dependencies := resilience.NewRegistry()
	var readiness []handler.ReadinessCheck

	stores, err := openStores(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open storage")
	}
	if stores.pool != nil {
		defer stores.pool.Close()
		readiness = append(readiness, handler.ReadinessCheck{Name: "postgres", Check: stores.pool.Ping})
	}

	ffService := featureflags.NewService(featureflags.ServiceConfig{
		Repository: stores.flags,
		Logger:     log,
	})

	publisher, closePublisher := newPublisher(ctx, cfg, log, dependencies)
	defer closePublisher()
	gated := events.Gate{Next: publisher, Enabled: ffService.IsEventPublishingEnabled}

	registry := location.NewRegistry(location.RegistryConfig{
		Repository: stores.locations,
		Logger:     log,
		Publisher:  gated,
		Metrics:    domainMetrics,
	})

	var ledger application.TransitionLedger
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close() //nolint:errcheck // closed on exit

		guardCfg := resilience.DefaultGuardConfig("redis")
		guardCfg.Registry = dependencies
		guardCfg.Logger = log
		// In-memory applications are reseeded on every boot, so their ids
		// must not match claims left by a previous process.
		var namespace string
		if cfg.Storage == config.StorageMemory {
			namespace = "boot-" + uuid.NewString()
		}
		ledger = application.NewRedisTransitionLedger(client,
			application.WithTTL(cfg.Redis.KeyTTL),
			application.WithGuard(resilience.NewGuard(guardCfg)),
			application.WithNamespace(namespace),
		)
		readiness = append(readiness, handler.ReadinessCheck{
			Name:  "redis",
			Check: func(ctx context.Context) error { return client.Ping(ctx).Err() },
		})
		log.Info().Str("addr", cfg.Redis.Addr).Str("namespace", namespace).Msg("redis transition ledger enabled")
	}

	workflow := application.NewWorkflow(application.WorkflowConfig{
		Repository: stores.applications,
		Supply:     registry,
		Logger:     log,
		Ledger:     ledger,
		Policy:     application.FlagPolicy{Flags: ffService},
		Publisher:  gated,
		Metrics:    domainMetrics,
	})

	feedRepo := feed.NewInMemoryRepository()
	if cfg.Seed {
		feedRepo = feed.NewInMemoryRepositoryWith(feed.SeedPosts(time.Now()))
	}
	feedService := feed.NewService(feed.ServiceConfig{
		Repository: feedRepo,
		Logger:     log,
		Posting:    ffService,
		Publisher:  gated,
		Metrics:    domainMetrics,
	})

	authService := auth.NewService(auth.ServiceConfig{
		JWTService: auth.NewJWTService(auth.JWTConfig{
			SigningKey: cfg.Auth.SigningKey,
			Issuer:     cfg.Auth.Issuer,
			Audience:   cfg.Auth.Audience,
		}),
		Logger: log,
	})
	if cfg.Auth.SigningKey == config.DefaultSigningKey {
		log.Warn().Msg("using default JWT signing key - not secure for production")
	}

	router := api.NewRouter(api.RouterConfig{
		Version:            Version,
		BuildTime:          BuildTime,
		Logger:             log,
		ServiceName:        serviceName,
		RequireTLS:         cfg.RequireTLS,
		Metrics:            httpMetrics,
		MetricsHandler:     metrics.Handler(promRegistry),
		ReadinessChecks:    readiness,
		Dependencies:       dependencies,
		AuthService:        authService,
		LocationRegistry:   registry,
		HeatmapService:     heatmap.NewService(registry),
		Workflow:           workflow,
		FeedService:        feedService,
		FeatureFlagService: ffService,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

type stores struct {
	pool         *pgxpool.Pool
	locations    location.Repository
	applications application.Repository
	flags        featureflags.Repository
}

func openStores(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*stores, error) {
	if cfg.Storage == config.StorageMemory {
		s := &stores{
			locations:    location.NewInMemoryRepository(),
			applications: application.NewInMemoryRepository(),
			flags:        featureflags.NewInMemoryRepository(),
		}
		if cfg.Seed {
			s.locations = location.NewInMemoryRepositoryWith(location.SeedLocations())
			s.applications = application.NewInMemoryRepositoryWith(application.SeedApplications())
		}
		log.Info().Bool("seeded", cfg.Seed).Msg("using in-memory storage")
		return s, nil
	}

	pool, err := database.Connect(ctx, cfg.Database, log)
	if err != nil {
		return nil, err
	}
	if err := database.EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	locations := location.NewPostgresRepository(pool)
	applications := application.NewPostgresRepository(pool)
	flags := featureflags.NewPostgresRepository(pool)

	if err := flags.EnsureDefaults(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	if cfg.Seed {
		if err := locations.Seed(ctx, location.SeedLocations()); err != nil {
			pool.Close()
			return nil, err
		}
		if err := applications.Seed(ctx, application.SeedApplications()); err != nil {
			pool.Close()
			return nil, err
		}
	}

	log.Info().
		Str("host", cfg.Database.Host).
		Int("port", cfg.Database.Port).
		Str("database", cfg.Database.Database).
		Bool("seeded", cfg.Seed).
		Msg("database connected")

	return &stores{pool: pool, locations: locations, applications: applications, flags: flags}, nil
}

// newPublisher returns the Pub/Sub publisher when a project is configured,
// or a log publisher otherwise.
func newPublisher(ctx context.Context, cfg *config.Config, log zerolog.Logger, deps *resilience.Registry) (events.Publisher, func()) {
	if cfg.PubSub.ProjectID == "" {
		return events.NewLogPublisher(log), func() {}
	}

	guardCfg := resilience.DefaultGuardConfig("pubsub")
	guardCfg.Registry = deps
	guardCfg.Logger = log
	pub, err := events.NewPubSubPublisher(ctx, events.PubSubPublisherConfig{
		ProjectID: cfg.PubSub.ProjectID,
		Topic:     cfg.PubSub.EventsTopic,
		Guard:     resilience.NewGuard(guardCfg),
	})
	if err != nil {
		log.Error().Err(err).Msg("pubsub unavailable, logging events instead")
		return events.NewLogPublisher(log), func() {}
	}

	log.Info().
		Str("project", cfg.PubSub.ProjectID).
		Str("topic", cfg.PubSub.EventsTopic).
		Msg("publishing events to pubsub")
	return pub, func() {
		if err := pub.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close pubsub publisher")
		}
	}
}
