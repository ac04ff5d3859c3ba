// Package main provides the entrypoint for the CommuteWise API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/commutewise/commutewise/internal/advisor"
	"github.com/commutewise/commutewise/internal/airquality"
	"github.com/commutewise/commutewise/internal/airquality/waqi"
	"github.com/commutewise/commutewise/internal/api"
	"github.com/commutewise/commutewise/internal/api/middleware"
	"github.com/commutewise/commutewise/internal/briefing"
	"github.com/commutewise/commutewise/internal/database"
	"github.com/commutewise/commutewise/internal/provider/resilience"
	"github.com/commutewise/commutewise/internal/routing"
	"github.com/commutewise/commutewise/internal/routing/googlemaps"
	"github.com/commutewise/commutewise/internal/telemetry"
	"github.com/commutewise/commutewise/internal/trip"
	"github.com/commutewise/commutewise/internal/weather"
	"github.com/commutewise/commutewise/internal/weather/openweathermap"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "commutewise-api"

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting CommuteWise API")

	// Get configuration from environment
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	otlpEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otlpEndpoint == "" {
		otlpEndpoint = "localhost:4317"
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	// Initialize OpenTelemetry
	ctx := context.Background()
	telemetryEnabled := os.Getenv("OTEL_ENABLED") == "true"

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    env,
		OTLPEndpoint:   otlpEndpoint,
		Enabled:        telemetryEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if telemetryEnabled {
		log.Info().
			Str("otlp_endpoint", otlpEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	providerMetrics, err := telemetry.NewProviderMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize provider metrics")
		os.Exit(1)
	}

	// Build the decision engine. Bad cutoffs are a deployment error.
	engine, err := advisor.New(advisor.ConfigFromEnv())
	if err != nil {
		log.Fatal().Err(err).Msg("invalid advisor configuration")
	}

	// Connect to database when one is configured; saved trips fall back to
	// in-memory storage otherwise.
	var pool *pgxpool.Pool
	if os.Getenv("DB_HOST") != "" {
		dbConfig := database.ConfigFromEnv()
		pool, err = database.Connect(ctx, dbConfig)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer pool.Close()
		log.Info().
			Str("host", dbConfig.Host).
			Int("port", dbConfig.Port).
			Str("database", dbConfig.Database).
			Msg("database connected")
	} else {
		log.Warn().Msg("no database configured - trips are stored in memory")
	}

	// Initialize trip repository and service
	var tripRepo trip.Repository
	if pool != nil {
		tripRepo = trip.NewPostgresRepository(pool)
	} else {
		tripRepo = trip.NewInMemoryRepository()
	}
	tripService := trip.NewService(tripRepo)
	log.Info().Msg("trip service initialized")

	// Initialize provider clients. Each is optional; a missing key leaves that
	// category absent from every briefing.
	registry := resilience.GlobalRegistry

	briefingCfg := briefing.ServiceConfig{
		Engine:      engine,
		Logger:      log,
		Metrics:     providerMetrics,
		SamplePoint: briefing.SamplePoint(os.Getenv("BRIEFING_SAMPLE_POINT")),
	}

	if apiKey := os.Getenv("GOOGLE_MAPS_API_KEY"); apiKey != "" {
		httpClient := resilience.NewClient(resilience.DefaultClientConfig(googlemaps.ProviderName))
		registry.Register(googlemaps.ProviderName, httpClient)

		briefingCfg.Routing = routing.NewService(routing.ServiceConfig{
			Provider: googlemaps.NewClient(googlemaps.ClientConfig{
				APIKey:     apiKey,
				HTTPClient: httpClient,
				Logger:     log,
			}),
			Logger: log,
		})
		log.Info().Msg("routing provider initialized")
	} else {
		log.Warn().Msg("GOOGLE_MAPS_API_KEY not set - routes unavailable")
	}

	if token := os.Getenv("WAQI_API_TOKEN"); token != "" {
		httpClient := resilience.NewClient(resilience.DefaultClientConfig(waqi.ProviderName))
		registry.Register(waqi.ProviderName, httpClient)

		briefingCfg.AirQuality = airquality.NewService(airquality.ServiceConfig{
			Provider: waqi.NewClient(waqi.ClientConfig{
				Token:      token,
				HTTPClient: httpClient,
				Logger:     log,
			}),
			Logger: log,
		})
		log.Info().Msg("air quality provider initialized")
	} else {
		log.Warn().Msg("WAQI_API_TOKEN not set - air quality unavailable")
	}

	if apiKey := os.Getenv("OPENWEATHER_API_KEY"); apiKey != "" {
		httpClient := resilience.NewClient(resilience.DefaultClientConfig(openweathermap.ProviderName))
		registry.Register(openweathermap.ProviderName, httpClient)

		owmClient := openweathermap.NewClient(openweathermap.ClientConfig{
			APIKey:     apiKey,
			HTTPClient: httpClient,
			Logger:     log,
		})
		briefingCfg.Weather = weather.NewService(weather.ServiceConfig{
			Provider: owmClient,
			Logger:   log,
		})
		briefingCfg.Geocoder = owmClient
		log.Info().Msg("weather and geocoding provider initialized")
	} else {
		log.Warn().Msg("OPENWEATHER_API_KEY not set - weather and geocoding unavailable")
	}

	briefingService := briefing.NewService(briefingCfg)
	log.Info().Msg("briefing service initialized")

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:          Version,
		BuildTime:        BuildTime,
		Logger:           log,
		ServiceName:      serviceName,
		Metrics:          metrics,
		BriefingService:  briefingService,
		TripService:      tripService,
		Database:         pool,
		ProviderRegistry: registry,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}
