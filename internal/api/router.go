// Package api provides the HTTP API for AidLink.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/aidlink/aidlink/internal/api/handler"
	"github.com/aidlink/aidlink/internal/api/middleware"
	"github.com/aidlink/aidlink/internal/application"
	"github.com/aidlink/aidlink/internal/auth"
	"github.com/aidlink/aidlink/internal/featureflags"
	"github.com/aidlink/aidlink/internal/feed"
	"github.com/aidlink/aidlink/internal/heatmap"
	"github.com/aidlink/aidlink/internal/location"
	"github.com/aidlink/aidlink/internal/resilience"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version     string
	BuildTime   string
	Logger      zerolog.Logger
	ServiceName string

	// RequireTLS rejects plain-HTTP requests forwarded by a proxy.
	RequireTLS bool

	// Metrics records OTel HTTP metrics. Optional.
	Metrics *middleware.Metrics

	// MetricsHandler serves /metrics. Optional.
	MetricsHandler http.Handler

	ReadinessChecks []handler.ReadinessCheck
	Dependencies    *resilience.Registry

	AuthService        *auth.Service
	LocationRegistry   *location.Registry
	HeatmapService     *heatmap.Service
	Workflow           *application.Workflow
	FeedService        *feed.Service
	FeatureFlagService *featureflags.Service
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "aidlink-api"
	}

	// RequestID runs first so tracing, logs and problems share the id.
	r.Use(middleware.RequestID)
	r.Use(middleware.Tracing(serviceName))
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware())
	}
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.RequireTLS(cfg.RequireTLS))
	r.Use(middleware.ContentTypeJSON)
	r.Use(middleware.RequireJSON)

	opsHandler := handler.NewOpsHandler(handler.OpsConfig{
		Version:      cfg.Version,
		BuildTime:    cfg.BuildTime,
		Checks:       cfg.ReadinessChecks,
		Dependencies: cfg.Dependencies,
	})
	authHandler := handler.NewAuthHandler(cfg.AuthService)
	locationHandler := handler.NewLocationHandler(cfg.LocationRegistry)
	heatmapHandler := handler.NewHeatmapHandler(cfg.HeatmapService)
	applicationHandler := handler.NewApplicationHandler(cfg.Workflow)
	feedHandler := handler.NewFeedHandler(cfg.FeedService)
	featureFlagsHandler := handler.NewFeatureFlagsHandler(cfg.FeatureFlagService)

	authMiddleware := middleware.Auth(cfg.AuthService)
	optionalAuth := middleware.OptionalAuth(cfg.AuthService)
	adminOnly := middleware.RequireRole(auth.RoleAdmin)
	anyRole := middleware.RequireRole(auth.RoleNGO, auth.RoleAdmin)

	authRateLimit := middleware.RateLimitByIP(middleware.AuthRateLimit)           // 10 req/min
	expensiveRateLimit := middleware.RateLimitByIP(middleware.ExpensiveRateLimit) // 30 req/min
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit)   // 100 req/min
	userRateLimit := middleware.RateLimitByUser(middleware.StandardRateLimit)     // 100 req/min per subject

	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/v1", func(r chi.Router) {
		// Auth endpoints (public) - strict rate limiting
		r.Route("/auth", func(r chi.Router) {
			r.Use(authRateLimit)
			r.Post("/login", authHandler.Login)
		})

		// Ops endpoints (public)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
			r.Get("/status", opsHandler.SystemStatus)
		})

		r.Route("/locations", func(r chi.Router) {
			r.With(standardRateLimit).Get("/", locationHandler.ListLocations)
			r.With(standardRateLimit).Get("/{locationId}", locationHandler.GetLocation)

			r.Group(func(r chi.Router) {
				r.Use(authMiddleware, adminOnly, userRateLimit)
				r.Post("/", locationHandler.CreateLocation)
				r.Patch("/{locationId}", locationHandler.UpdateLocation)
				r.Delete("/{locationId}", locationHandler.DeleteLocation)
				r.Post("/{locationId}/supply", locationHandler.ApplySupplyDelta)
			})
		})

		// Heatmap projections walk every location
		r.Route("/heatmap", func(r chi.Router) {
			r.Use(expensiveRateLimit)
			r.Get("/markers", heatmapHandler.Markers)
			r.Get("/geojson", heatmapHandler.GeoJSON)
			r.Get("/summary", heatmapHandler.Summary)
		})

		r.Route("/applications", func(r chi.Router) {
			r.With(standardRateLimit).Get("/", applicationHandler.ListApplications)
			r.With(standardRateLimit).Get("/{applicationId}", applicationHandler.GetApplication)
			r.With(authMiddleware, anyRole, userRateLimit).Post("/", applicationHandler.SubmitApplication)

			r.Group(func(r chi.Router) {
				r.Use(authMiddleware, adminOnly, userRateLimit)
				r.Put("/{applicationId}/status", applicationHandler.SetStatus)
				r.Delete("/{applicationId}", applicationHandler.DeleteApplication)
			})
		})

		r.Route("/feed/posts", func(r chi.Router) {
			r.With(optionalAuth, standardRateLimit).Get("/", feedHandler.ListPosts)

			r.Group(func(r chi.Router) {
				r.Use(authMiddleware, userRateLimit)
				r.Post("/", feedHandler.CreatePost)
				r.Post("/{postId}/replies", feedHandler.CreateReply)
				r.Post("/{postId}/like", feedHandler.ToggleLike)
			})

			r.Group(func(r chi.Router) {
				r.Use(authMiddleware, adminOnly, userRateLimit)
				r.Post("/{postId}/verify", feedHandler.VerifyPost)
				r.Post("/{postId}/flag", feedHandler.FlagPost)
				r.Delete("/{postId}", feedHandler.DeletePost)
			})
		})

		// Admin endpoints
		r.Route("/admin", func(r chi.Router) {
			r.Use(authMiddleware, adminOnly, standardRateLimit)

			r.Route("/feature-flags", func(r chi.Router) {
				r.Get("/", featureFlagsHandler.ListFeatureFlags)
				r.Put("/", featureFlagsHandler.UpsertFeatureFlags)
				r.Post("/invalidate", featureFlagsHandler.InvalidateCache)
			})
		})
	})

	return r
}
