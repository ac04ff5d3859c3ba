// Package main provides the entrypoint for the CommuteWise background worker.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/commutewise/commutewise/internal/advisor"
	"github.com/commutewise/commutewise/internal/airquality"
	"github.com/commutewise/commutewise/internal/airquality/waqi"
	"github.com/commutewise/commutewise/internal/briefing"
	"github.com/commutewise/commutewise/internal/provider/resilience"
	"github.com/commutewise/commutewise/internal/routing"
	"github.com/commutewise/commutewise/internal/routing/googlemaps"
	"github.com/commutewise/commutewise/internal/telemetry"
	"github.com/commutewise/commutewise/internal/weather"
	"github.com/commutewise/commutewise/internal/weather/openweathermap"
	"github.com/commutewise/commutewise/internal/worker"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "commutewise-worker"

	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting CommuteWise worker")

	// Worker also exposes a health endpoint for the container platform.
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

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
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	providerMetrics, err := telemetry.NewProviderMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize provider metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	engine, err := advisor.New(advisor.ConfigFromEnv())
	if err != nil {
		log.Fatal().Err(err).Msg("invalid advisor configuration")
	}

	briefingService := buildBriefingService(engine, providerMetrics, log)

	probeJob := worker.NewProbeJob(worker.ProbeJobConfig{
		Config:    worker.DefaultProbeConfig(),
		Logger:    log,
		Briefings: briefingService,
	})

	// Health check server
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"healthy","version":"%s"}`, Version)
	})

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("health server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("health server error")
		}
	}()

	// Prefer Pub/Sub when configured; fall back to a local interval schedule.
	projectID := os.Getenv("PUBSUB_PROJECT_ID")
	subscription := os.Getenv("PUBSUB_SUBSCRIPTION")

	if projectID != "" && subscription != "" {
		handler, err := worker.NewPubSubHandler(ctx, worker.PubSubConfig{
			ProjectID:        projectID,
			SubscriptionName: subscription,
			ProbeJob:         probeJob,
			Logger:           log,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create pubsub handler")
		}
		defer handler.Close()

		go func() {
			if err := handler.Start(ctx); err != nil && ctx.Err() == nil {
				log.Error().Err(err).Msg("pubsub handler stopped")
			}
		}()
	} else {
		interval := 15 * time.Minute
		if v := os.Getenv("PROBE_INTERVAL"); v != "" {
			if parsed, parseErr := time.ParseDuration(v); parseErr == nil {
				interval = parsed
			}
		}

		log.Info().
			Dur("interval", interval).
			Msg("pubsub not configured - probing corridors on a local schedule")

		go func() {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			probeJob.Run(ctx)
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					probeJob.Run(ctx)
				}
			}
		}()
	}

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down worker")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("health server forced to shutdown")
	}

	log.Info().Msg("worker stopped")
}

// buildBriefingService wires the provider chain from environment variables.
// Missing keys degrade the corresponding category instead of failing startup.
func buildBriefingService(engine *advisor.Engine, metrics *telemetry.ProviderMetrics, log zerolog.Logger) *briefing.Service {
	cfg := briefing.ServiceConfig{
		Engine:      engine,
		Logger:      log,
		Metrics:     metrics,
		SamplePoint: briefing.SamplePoint(os.Getenv("BRIEFING_SAMPLE_POINT")),
	}

	registry := resilience.GlobalRegistry

	if apiKey := os.Getenv("GOOGLE_MAPS_API_KEY"); apiKey != "" {
		httpClient := resilience.NewClient(resilience.DefaultClientConfig(googlemaps.ProviderName))
		registry.Register(googlemaps.ProviderName, httpClient)

		cfg.Routing = routing.NewService(routing.ServiceConfig{
			Provider: googlemaps.NewClient(googlemaps.ClientConfig{
				APIKey:     apiKey,
				HTTPClient: httpClient,
				Logger:     log,
			}),
			Logger: log,
		})
	} else {
		log.Warn().Msg("GOOGLE_MAPS_API_KEY not set - routes unavailable")
	}

	if token := os.Getenv("WAQI_API_TOKEN"); token != "" {
		httpClient := resilience.NewClient(resilience.DefaultClientConfig(waqi.ProviderName))
		registry.Register(waqi.ProviderName, httpClient)

		cfg.AirQuality = airquality.NewService(airquality.ServiceConfig{
			Provider: waqi.NewClient(waqi.ClientConfig{
				Token:      token,
				HTTPClient: httpClient,
				Logger:     log,
			}),
			Logger: log,
		})
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
		cfg.Weather = weather.NewService(weather.ServiceConfig{
			Provider: owmClient,
			Logger:   log,
		})
		cfg.Geocoder = owmClient
	} else {
		log.Warn().Msg("OPENWEATHER_API_KEY not set - weather and geocoding unavailable")
	}

	return briefing.NewService(cfg)
}
