package airquality

import (
	"context"

	"github.com/rs/zerolog"
)

// ServiceConfig holds configuration for the air-quality service.
type ServiceConfig struct {
	// Provider is the air-quality data provider.
	Provider Provider

	// Logger for service operations.
	Logger zerolog.Logger
}

// Service validates lookups and delegates to the provider.
type Service struct {
	provider Provider
	logger   zerolog.Logger
}

// NewService creates a new air-quality service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		provider: cfg.Provider,
		logger:   cfg.Logger,
	}
}

// GetNearestReading returns the latest reading near a point.
func (s *Service) GetNearestReading(ctx context.Context, lat, lon float64) (*Reading, error) {
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return nil, ErrInvalidCoordinates
	}

	s.logger.Debug().
		Float64("lat", lat).
		Float64("lon", lon).
		Str("provider", s.provider.Name()).
		Msg("fetching air quality reading")

	reading, err := s.provider.GetNearestReading(ctx, lat, lon)
	if err != nil {
		s.logger.Warn().Err(err).
			Float64("lat", lat).
			Float64("lon", lon).
			Msg("failed to fetch air quality reading")
		return nil, err
	}

	return reading, nil
}

// ProviderName returns the name of the underlying provider.
func (s *Service) ProviderName() string {
	return s.provider.Name()
}
