// Package routing provides travel-time lookups for the driving and transit
// commute modes.
package routing

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for routing operations.
var (
	// ErrProviderUnavailable indicates the routing provider is down or the circuit breaker is open.
	ErrProviderUnavailable = errors.New("routing provider unavailable")
	// ErrNoRouteFound indicates no valid route exists between the given points.
	ErrNoRouteFound = errors.New("no route found between the given points")
	// ErrRateLimitExceeded indicates the API quota has been exceeded.
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
	// ErrInvalidCoordinates indicates the provided coordinates are invalid or out of range.
	ErrInvalidCoordinates = errors.New("invalid coordinates")
	// ErrInvalidWaypoint indicates a waypoint carries neither a point nor a query.
	ErrInvalidWaypoint = errors.New("waypoint needs a point or a query")
)

// Provider defines the interface for routing providers.
type Provider interface {
	// GetRoute retrieves the best route for a single travel mode.
	GetRoute(ctx context.Context, req DirectionsRequest) (*Route, error)
	// Name returns the provider identifier for logging and metrics.
	Name() string
	// SupportedModes returns the travel modes this provider supports.
	SupportedModes() []TravelMode
}

// TravelMode represents a commute mode understood by the provider.
type TravelMode string

const (
	ModeDriving TravelMode = "driving"
	ModeTransit TravelMode = "transit"
)

// Coordinate represents a geographic point.
type Coordinate struct {
	Lat float64
	Lon float64
}

// Waypoint is a route endpoint: either an explicit coordinate or a free-text
// location query the provider resolves itself.
type Waypoint struct {
	Point *Coordinate
	Query string
}

// Location renders the waypoint in the form routing providers accept.
func (w Waypoint) Location() string {
	if w.Point != nil {
		return fmt.Sprintf("%.6f,%.6f", w.Point.Lat, w.Point.Lon)
	}
	return w.Query
}

// IsZero reports whether the waypoint carries no location at all.
func (w Waypoint) IsZero() bool {
	return w.Point == nil && w.Query == ""
}

// DirectionsRequest is the request for a single-mode route lookup.
type DirectionsRequest struct {
	Origin      Waypoint
	Destination Waypoint
	Mode        TravelMode

	// DepartNow requests a departure time of "now" so driving estimates
	// include live traffic.
	DepartNow bool
}

// Route is the best route the provider returned for the requested mode.
type Route struct {
	// DurationSeconds is the baseline (free-flow) travel time.
	DurationSeconds int

	// DurationInTrafficSeconds is the traffic-aware travel time.
	// Nil for transit routes or when the provider returned no estimate.
	DurationInTrafficSeconds *int

	DistanceMeters   int
	Summary          string
	GeometryPolyline string

	Provider  string
	FetchedAt time.Time
}

// Error provides detailed error information from the routing provider.
type Error struct {
	Provider string
	Code     string
	Message  string
	Err      error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsRetryable returns true if the error is transient and the request can be retried.
func (e *Error) IsRetryable() bool {
	return errors.Is(e.Err, ErrProviderUnavailable) || errors.Is(e.Err, ErrRateLimitExceeded)
}
