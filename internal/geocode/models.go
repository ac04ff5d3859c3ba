// Package geocode defines the contract for resolving free-text locations to
// coordinates.
package geocode

import (
	"context"
	"errors"
)

// Geocoding errors.
var (
	ErrProviderUnavailable = errors.New("geocoding provider unavailable")
	ErrNotFound            = errors.New("location not found")
)

// Provider resolves a free-text location query to a coordinate.
type Provider interface {
	// Geocode returns the best match for the query.
	Geocode(ctx context.Context, query string) (*Location, error)

	// Name returns the provider name for logging.
	Name() string
}

// Location is a resolved place.
type Location struct {
	Name    string
	Country string
	Lat     float64
	Lon     float64
}
