package weather

import (
	"context"

	"github.com/rs/zerolog"
)

// ServiceConfig holds configuration for the weather service.
type ServiceConfig struct {
	// Provider is the weather data provider.
	Provider Provider

	// Logger for service operations.
	Logger zerolog.Logger

	// ForecastHorizonHours bounds how far ahead the hourly forecast is
	// reported (default: 24).
	ForecastHorizonHours int
}

// Service validates lookups, delegates to the provider, and trims forecasts
// to the configured horizon.
type Service struct {
	provider     Provider
	logger       zerolog.Logger
	horizonHours int
}

// NewService creates a new weather service.
func NewService(cfg ServiceConfig) *Service {
	horizon := cfg.ForecastHorizonHours
	if horizon == 0 {
		horizon = 24
	}

	return &Service{
		provider:     cfg.Provider,
		logger:       cfg.Logger,
		horizonHours: horizon,
	}
}

// GetCurrentWeather returns current weather for a location.
func (s *Service) GetCurrentWeather(ctx context.Context, lat, lon float64) (*Observation, error) {
	if err := validateCoordinates(lat, lon); err != nil {
		return nil, err
	}

	s.logger.Debug().
		Float64("lat", lat).
		Float64("lon", lon).
		Str("provider", s.provider.Name()).
		Msg("fetching current weather")

	obs, err := s.provider.GetCurrentWeather(ctx, lat, lon)
	if err != nil {
		s.logger.Warn().Err(err).
			Float64("lat", lat).
			Float64("lon", lon).
			Msg("failed to fetch current weather")
		return nil, err
	}

	return obs, nil
}

// GetForecast returns the hourly forecast for a location, trimmed to the
// configured horizon.
func (s *Service) GetForecast(ctx context.Context, lat, lon float64) (*Forecast, error) {
	if err := validateCoordinates(lat, lon); err != nil {
		return nil, err
	}

	s.logger.Debug().
		Float64("lat", lat).
		Float64("lon", lon).
		Str("provider", s.provider.Name()).
		Msg("fetching forecast")

	forecast, err := s.provider.GetForecast(ctx, lat, lon)
	if err != nil {
		s.logger.Warn().Err(err).
			Float64("lat", lat).
			Float64("lon", lon).
			Msg("failed to fetch forecast")
		return nil, err
	}

	if len(forecast.Hourly) > s.horizonHours {
		forecast.Hourly = forecast.Hourly[:s.horizonHours]
	}

	return forecast, nil
}

// ProviderName returns the name of the underlying provider.
func (s *Service) ProviderName() string {
	return s.provider.Name()
}

// validateCoordinates checks if coordinates are valid.
func validateCoordinates(lat, lon float64) error {
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return ErrInvalidCoordinates
	}
	return nil
}
