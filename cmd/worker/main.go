// Package main provides the entrypoint for the AidLink background worker.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/aidlink/aidlink/internal/config"
	"github.com/aidlink/aidlink/internal/database"
	"github.com/aidlink/aidlink/internal/events"
	"github.com/aidlink/aidlink/internal/location"
	"github.com/aidlink/aidlink/internal/logging"
	"github.com/aidlink/aidlink/internal/metrics"
	"github.com/aidlink/aidlink/internal/telemetry"
	"github.com/aidlink/aidlink/internal/worker"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "aidlink-worker"

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
		Str("storage", cfg.Storage).
		Msg("starting AidLink worker")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

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
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTelemetry(flushCtx); err != nil {
			log.Error().Err(err).Msg("failed to shutdown telemetry")
		}
	}()

	var repo location.Repository
	if cfg.Storage == config.StoragePostgres {
		pool, err := database.Connect(ctx, cfg.Database, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer pool.Close()
		if err := database.EnsureSchema(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("failed to ensure schema")
		}
		repo = location.NewPostgresRepository(pool)
	} else {
		// A memory-backed worker audits its own seeded copy.
		log.Warn().Msg("in-memory storage is not shared with the API")
		repo = location.NewInMemoryRepositoryWith(location.SeedLocations())
	}

	promRegistry := prometheus.NewRegistry()
	domainMetrics := metrics.New(promRegistry)

	registry := location.NewRegistry(location.RegistryConfig{
		Repository: repo,
		Logger:     log,
		Publisher:  events.NewLogPublisher(log),
		Metrics:    domainMetrics,
	})

	auditCfg := worker.DefaultAuditConfig()
	auditCfg.Repair = cfg.Worker.AuditRepair
	audit := worker.NewAuditJob(worker.AuditJobConfig{
		Config:    auditCfg,
		Locations: registry,
		Logger:    log,
		Metrics:   domainMetrics,
	})

	g, gctx := errgroup.WithContext(ctx)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      healthRouter(audit, promRegistry),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}
	g.Go(func() error {
		log.Info().Str("addr", server.Addr).Msg("health server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if cfg.PubSub.ProjectID != "" {
		handler, err := worker.NewPubSubHandler(ctx, worker.PubSubConfig{
			ProjectID:        cfg.PubSub.ProjectID,
			SubscriptionName: cfg.PubSub.Subscription,
			Dispatcher:       worker.NewDispatcher(audit, log),
			Logger:           log,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create pubsub handler")
		}
		defer handler.Close() //nolint:errcheck // closed on exit
		g.Go(func() error { return handler.Start(gctx) })
	} else {
		log.Info().Msg("pubsub not configured, job messages disabled")
	}

	if cfg.Worker.AuditSchedule != "" {
		scheduler, err := worker.NewScheduler(worker.SchedulerConfig{
			Spec:   cfg.Worker.AuditSchedule,
			Job:    audit,
			Logger: log,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("invalid audit schedule")
		}
		g.Go(func() error { return scheduler.Start(gctx) })
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("worker stopped with error")
		return
	}
	log.Info().Msg("worker stopped")
}

func healthRouter(audit *worker.AuditJob, gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":  "OK",
			"version": Version,
			"audit":   audit.MetricsSnapshot(),
		})
	})
	r.Handle("/metrics", metrics.Handler(gatherer))
	return r
}
