package briefing

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/commutewise/commutewise/internal/advisor"
	"github.com/commutewise/commutewise/internal/geocode"
	"github.com/commutewise/commutewise/internal/routing"
	"github.com/commutewise/commutewise/internal/telemetry"
	"github.com/commutewise/commutewise/pkg/polyline"
)

// ServiceConfig holds configuration for the briefing service.
type ServiceConfig struct {
	// Engine is the decision engine (required, already validated).
	Engine *advisor.Engine

	// Routing, AirQuality, and Weather are the provider-facing services.
	// Any of them may be nil, in which case that category is always absent.
	Routing    RoutingService
	AirQuality AirQualityService
	Weather    WeatherService

	// Geocoder resolves free-text endpoints for environmental sampling.
	// Optional; without it, text-only requests get no air/weather data.
	Geocoder geocode.Provider

	// Logger for service operations.
	Logger zerolog.Logger

	// Metrics records per-provider request outcomes. Optional.
	Metrics *telemetry.ProviderMetrics

	// SamplePoint selects where environmental readings are taken
	// (default: origin).
	SamplePoint SamplePoint

	// FetchTimeout bounds each individual provider fetch (default: 10s).
	FetchTimeout time.Duration
}

// Service computes briefings. Each request's fetches and evaluation are
// scoped to that request; the service holds no per-request state, so
// concurrent invocations are independent.
type Service struct {
	engine       *advisor.Engine
	routing      RoutingService
	airQuality   AirQualityService
	weather      WeatherService
	geocoder     geocode.Provider
	logger       zerolog.Logger
	metrics      *telemetry.ProviderMetrics
	samplePoint  SamplePoint
	fetchTimeout time.Duration
}

// NewService creates a new briefing service.
func NewService(cfg ServiceConfig) *Service {
	samplePoint := cfg.SamplePoint
	if samplePoint == "" {
		samplePoint = SampleOrigin
	}

	fetchTimeout := cfg.FetchTimeout
	if fetchTimeout == 0 {
		fetchTimeout = 10 * time.Second
	}

	return &Service{
		engine:       cfg.Engine,
		routing:      cfg.Routing,
		airQuality:   cfg.AirQuality,
		weather:      cfg.Weather,
		geocoder:     cfg.Geocoder,
		logger:       cfg.Logger,
		metrics:      cfg.Metrics,
		samplePoint:  samplePoint,
		fetchTimeout: fetchTimeout,
	}
}

// fetched collects the settled results of one request's provider calls.
// Absent fields stay nil; no field is shared with any other request.
type fetched struct {
	driving *routing.Route
	transit *routing.Route

	air     *advisor.AirQualityReading
	weather *advisor.WeatherSnapshot
}

// Compute runs one advice request end to end. It waits for every provider
// attempt to settle, then evaluates whatever subset arrived. The only error
// it returns is a request that names no endpoints; provider failures degrade
// the briefing instead of failing it.
func (s *Service) Compute(ctx context.Context, req Request) (*Briefing, error) {
	if req.Origin.IsZero() || req.Destination.IsZero() {
		return nil, ErrInvalidRequest
	}

	var results fetched

	// Routes for both modes are independent; fetch them concurrently.
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		results.driving = s.fetchRoute(ctx, req, routing.ModeDriving)
	}()
	go func() {
		defer wg.Done()
		results.transit = s.fetchRoute(ctx, req, routing.ModeTransit)
	}()
	wg.Wait()

	// Environmental sampling needs a coordinate; the route-midpoint policy
	// additionally needs the driving geometry, which is why routes settle
	// first.
	if coord := s.samplingCoordinate(ctx, req, results.driving); coord != nil {
		wg.Add(2)
		go func() {
			defer wg.Done()
			results.air = s.fetchAirQuality(ctx, coord.Lat, coord.Lon)
		}()
		go func() {
			defer wg.Done()
			results.weather = s.fetchWeather(ctx, coord.Lat, coord.Lon)
		}()
		wg.Wait()
	}

	route := assembleRouteComparison(results.driving, results.transit)
	recommendation, report := s.engine.Evaluate(route, results.air, results.weather)

	briefing := &Briefing{
		ID:             "brf_" + uuid.New().String()[:22],
		GeneratedAt:    time.Now().UTC(),
		Recommendation: recommendation,
		Report:         report,
		Sources: SourceAvailability{
			Routing:    report.Travel != nil,
			AirQuality: report.AirQuality != nil,
			Weather:    report.Weather != nil,
		},
	}

	s.logger.Info().
		Str("briefing_id", briefing.ID).
		Str("mode", string(recommendation.Mode)).
		Bool("routing_available", briefing.Sources.Routing).
		Bool("air_available", briefing.Sources.AirQuality).
		Bool("weather_available", briefing.Sources.Weather).
		Msg("briefing computed")

	return briefing, nil
}

// fetchRoute fetches a single-mode route, collapsing any failure to absence.
func (s *Service) fetchRoute(ctx context.Context, req Request, mode routing.TravelMode) *routing.Route {
	if s.routing == nil {
		return nil
	}

	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	start := time.Now()
	route, err := s.routing.GetRoute(fetchCtx, routing.DirectionsRequest{
		Origin:      req.Origin.waypoint(),
		Destination: req.Destination.waypoint(),
		Mode:        mode,
		DepartNow:   mode == routing.ModeDriving,
	})
	s.metrics.RecordRequest(s.routing.ProviderName(), "directions."+string(mode), time.Since(start), err)
	if err != nil {
		s.logger.Warn().Err(err).
			Str("mode", string(mode)).
			Msg("route unavailable for briefing")
		return nil
	}
	return route
}

// fetchAirQuality fetches the nearest reading, collapsing failure to absence.
func (s *Service) fetchAirQuality(ctx context.Context, lat, lon float64) *advisor.AirQualityReading {
	if s.airQuality == nil {
		return nil
	}

	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	start := time.Now()
	reading, err := s.airQuality.GetNearestReading(fetchCtx, lat, lon)
	s.metrics.RecordRequest(s.airQuality.ProviderName(), "nearest-reading", time.Since(start), err)
	if err != nil {
		s.logger.Warn().Err(err).Msg("air quality unavailable for briefing")
		return nil
	}

	return &advisor.AirQualityReading{
		AQI:               reading.AQI,
		DominantPollutant: reading.DominantPollutant,
	}
}

// fetchWeather fetches current conditions and the hourly forecast. The two
// calls fail independently; either alone still yields a partial snapshot.
func (s *Service) fetchWeather(ctx context.Context, lat, lon float64) *advisor.WeatherSnapshot {
	if s.weather == nil {
		return nil
	}

	snapshot := &advisor.WeatherSnapshot{}

	currentCtx, cancelCurrent := context.WithTimeout(ctx, s.fetchTimeout)
	start := time.Now()
	obs, err := s.weather.GetCurrentWeather(currentCtx, lat, lon)
	cancelCurrent()
	s.metrics.RecordRequest(s.weather.ProviderName(), "current-weather", time.Since(start), err)
	if err != nil {
		s.logger.Warn().Err(err).Msg("current weather unavailable for briefing")
	} else {
		temperature := obs.Temperature
		snapshot.TemperatureCelsius = &temperature
		if obs.Description != "" {
			summary := obs.Description
			snapshot.Summary = &summary
		}
	}

	forecastCtx, cancelForecast := context.WithTimeout(ctx, s.fetchTimeout)
	start = time.Now()
	forecast, err := s.weather.GetForecast(forecastCtx, lat, lon)
	cancelForecast()
	s.metrics.RecordRequest(s.weather.ProviderName(), "forecast", time.Since(start), err)
	if err != nil {
		s.logger.Warn().Err(err).Msg("forecast unavailable for briefing")
	} else {
		for _, h := range forecast.Hourly {
			snapshot.Hourly = append(snapshot.Hourly, advisor.HourlyConditions{
				Time:               h.Time,
				TemperatureCelsius: h.Temperature,
				RainProbability:    h.PrecipProb,
			})
		}
	}

	if snapshot.TemperatureCelsius == nil && snapshot.Summary == nil && len(snapshot.Hourly) == 0 {
		return nil
	}
	return snapshot
}

// samplingCoordinate resolves where environmental readings are taken.
// Returns nil when no coordinate can be determined, which renders the
// air and weather categories absent for this request.
func (s *Service) samplingCoordinate(ctx context.Context, req Request, driving *routing.Route) *routing.Coordinate {
	if s.samplePoint == SampleRouteMidpoint && driving != nil && driving.GeometryPolyline != "" {
		if coords := polyline.Decode(driving.GeometryPolyline); len(coords) > 0 {
			mid := coords[len(coords)/2]
			return &routing.Coordinate{Lat: mid.Lat, Lon: mid.Lon}
		}
	}

	endpoint := req.Origin
	if s.samplePoint == SampleDestination {
		endpoint = req.Destination
	}

	if endpoint.Point != nil {
		return endpoint.Point
	}

	if s.geocoder == nil || endpoint.Query == "" {
		return nil
	}

	geocodeCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	start := time.Now()
	location, err := s.geocoder.Geocode(geocodeCtx, endpoint.Query)
	s.metrics.RecordRequest(s.geocoder.Name(), "geocode", time.Since(start), err)
	if err != nil {
		// An unresolvable location is treated the same as a provider
		// failure: the environmental categories become absent.
		s.logger.Warn().Err(err).
			Str("query", endpoint.Query).
			Msg("could not geocode sampling point")
		return nil
	}

	return &routing.Coordinate{Lat: location.Lat, Lon: location.Lon}
}

// assembleRouteComparison merges the two mode fetches into the engine input.
// Returns nil when neither mode produced a route.
func assembleRouteComparison(driving, transit *routing.Route) *advisor.RouteComparison {
	if driving == nil && transit == nil {
		return nil
	}

	comparison := &advisor.RouteComparison{}

	if driving != nil {
		baseline := driving.DurationSeconds
		comparison.DrivingSeconds = &baseline
		if driving.DurationInTrafficSeconds != nil {
			inTraffic := *driving.DurationInTrafficSeconds
			comparison.DrivingInTrafficSeconds = &inTraffic
		}
	}

	if transit != nil {
		duration := transit.DurationSeconds
		comparison.TransitSeconds = &duration
	}

	return comparison
}
