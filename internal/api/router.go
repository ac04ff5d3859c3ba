// Package api provides the HTTP API for CommuteWise.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/commutewise/commutewise/internal/api/handler"
	"github.com/commutewise/commutewise/internal/api/middleware"
	"github.com/commutewise/commutewise/internal/briefing"
	"github.com/commutewise/commutewise/internal/provider/resilience"
	"github.com/commutewise/commutewise/internal/trip"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version          string
	BuildTime        string
	Logger           zerolog.Logger
	ServiceName      string
	Metrics          *middleware.Metrics
	BriefingService  *briefing.Service
	TripService      *trip.Service
	Database         *pgxpool.Pool
	ProviderRegistry *resilience.Registry
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Set default service name if not provided
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "commutewise-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))   // Structured logging
	r.Use(middleware.Recovery(cfg.Logger)) // Panic recovery
	r.Use(chimiddleware.RealIP)            // Real IP extraction
	r.Use(middleware.SecurityHeaders)      // Security headers (HSTS, CSP, etc.)
	r.Use(middleware.RequireTLS)           // TLS enforcement (enabled via REQUIRE_TLS=true)
	r.Use(middleware.ContentTypeJSON)      // JSON content type

	// Initialize handlers
	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.Database, cfg.ProviderRegistry)
	adviceHandler := handler.NewAdviceHandler(cfg.BriefingService, cfg.TripService)
	tripHandler := handler.NewTripHandler(cfg.TripService)

	// Create rate limit middleware for different endpoint categories
	expensiveRateLimit := middleware.RateLimitByClient(middleware.ExpensiveRateLimit) // 30 req/min
	standardRateLimit := middleware.RateLimitByClient(middleware.StandardRateLimit)   // 100 req/min

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		// Ops endpoints (public)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
			r.Get("/status", opsHandler.SystemStatus)
		})

		// Advice endpoint - fans out to external providers, strict rate limiting.
		// Client ID is required so tripId references can be resolved.
		r.With(middleware.RequireClientID, expensiveRateLimit).Post("/advice:compute", adviceHandler.Compute)

		// Saved trips (scoped by client ID)
		r.Route("/trips", func(r chi.Router) {
			r.Use(middleware.RequireClientID)
			r.Use(standardRateLimit)
			r.Get("/", tripHandler.List)
			r.Post("/", tripHandler.Create)
			r.Route("/{tripId}", func(r chi.Router) {
				r.Get("/", tripHandler.Get)
				r.Patch("/", tripHandler.Update)
				r.Delete("/", tripHandler.Delete)
			})
		})
	})

	return r
}
