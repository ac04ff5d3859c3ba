// Package airquality provides air-quality index readings from the monitoring
// station nearest a point.
package airquality

import (
	"context"
	"errors"
	"time"
)

// Air quality errors.
var (
	ErrProviderUnavailable = errors.New("air quality provider unavailable")
	ErrNoStationFound      = errors.New("no monitoring station found for location")
	ErrInvalidCoordinates  = errors.New("invalid coordinates")
)

// Provider defines the interface for air-quality data providers.
type Provider interface {
	// GetNearestReading fetches the latest reading from the station nearest
	// the given point.
	GetNearestReading(ctx context.Context, lat, lon float64) (*Reading, error)

	// Name returns the provider name for logging.
	Name() string
}

// Reading is the latest measurement from a monitoring station. AQI and
// dominant pollutant may each be absent even when the station responded; a
// station can report one without the other.
type Reading struct {
	AQI               *int
	DominantPollutant *string

	StationName string
	Lat         float64
	Lon         float64

	ObservedAt time.Time
	FetchedAt  time.Time
}
