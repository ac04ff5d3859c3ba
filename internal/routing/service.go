package routing

import (
	"context"

	"github.com/rs/zerolog"
)

// ServiceConfig holds configuration for the routing service.
type ServiceConfig struct {
	// Provider is the routing data provider.
	Provider Provider

	// Logger for service operations.
	Logger zerolog.Logger
}

// Service validates route requests and delegates to the provider. Every
// invocation goes to the provider: commute advice is computed against live
// traffic, so results are not cached between requests.
type Service struct {
	provider Provider
	logger   zerolog.Logger
}

// NewService creates a new routing service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		provider: cfg.Provider,
		logger:   cfg.Logger,
	}
}

// GetRoute returns the best route for the requested travel mode.
func (s *Service) GetRoute(ctx context.Context, req DirectionsRequest) (*Route, error) {
	if req.Origin.IsZero() {
		return nil, &Error{
			Provider: s.provider.Name(),
			Code:     "INVALID_ORIGIN",
			Message:  "origin is missing",
			Err:      ErrInvalidWaypoint,
		}
	}
	if req.Destination.IsZero() {
		return nil, &Error{
			Provider: s.provider.Name(),
			Code:     "INVALID_DESTINATION",
			Message:  "destination is missing",
			Err:      ErrInvalidWaypoint,
		}
	}
	if err := validateWaypoint(req.Origin); err != nil {
		return nil, &Error{
			Provider: s.provider.Name(),
			Code:     "INVALID_ORIGIN",
			Message:  "invalid origin coordinates",
			Err:      err,
		}
	}
	if err := validateWaypoint(req.Destination); err != nil {
		return nil, &Error{
			Provider: s.provider.Name(),
			Code:     "INVALID_DESTINATION",
			Message:  "invalid destination coordinates",
			Err:      err,
		}
	}

	s.logger.Debug().
		Str("origin", req.Origin.Location()).
		Str("destination", req.Destination.Location()).
		Str("mode", string(req.Mode)).
		Bool("depart_now", req.DepartNow).
		Str("provider", s.provider.Name()).
		Msg("fetching route from provider")

	route, err := s.provider.GetRoute(ctx, req)
	if err != nil {
		s.logger.Warn().Err(err).
			Str("origin", req.Origin.Location()).
			Str("destination", req.Destination.Location()).
			Str("mode", string(req.Mode)).
			Msg("failed to fetch route")
		return nil, err
	}

	return route, nil
}

// ProviderName returns the name of the underlying provider.
func (s *Service) ProviderName() string {
	return s.provider.Name()
}

// validateWaypoint checks explicit coordinates for range; free-text queries
// are left for the provider to resolve.
func validateWaypoint(w Waypoint) error {
	if w.Point == nil {
		return nil
	}
	if w.Point.Lat < -90 || w.Point.Lat > 90 || w.Point.Lon < -180 || w.Point.Lon > 180 {
		return ErrInvalidCoordinates
	}
	return nil
}
