// Package briefing orchestrates a single advice request: it resolves the
// origin/destination pair, fans out to the routing, air-quality, and weather
// providers, collapses every provider failure to absence, and hands whatever
// arrived to the decision engine.
package briefing

import (
	"context"
	"errors"
	"time"

	"github.com/commutewise/commutewise/internal/advisor"
	"github.com/commutewise/commutewise/internal/airquality"
	"github.com/commutewise/commutewise/internal/routing"
	"github.com/commutewise/commutewise/internal/weather"
)

// Briefing errors. Provider failures never surface here; only an unusable
// request does.
var (
	ErrInvalidRequest = errors.New("briefing request needs an origin and a destination")
)

// RoutingService is the routing capability the orchestrator consumes.
type RoutingService interface {
	GetRoute(ctx context.Context, req routing.DirectionsRequest) (*routing.Route, error)
	ProviderName() string
}

// AirQualityService is the air-quality capability the orchestrator consumes.
type AirQualityService interface {
	GetNearestReading(ctx context.Context, lat, lon float64) (*airquality.Reading, error)
	ProviderName() string
}

// WeatherService is the weather capability the orchestrator consumes.
type WeatherService interface {
	GetCurrentWeather(ctx context.Context, lat, lon float64) (*weather.Observation, error)
	GetForecast(ctx context.Context, lat, lon float64) (*weather.Forecast, error)
	ProviderName() string
}

// SamplePoint selects where environmental readings are taken.
type SamplePoint string

const (
	// SampleOrigin samples air quality and weather at the origin.
	SampleOrigin SamplePoint = "origin"
	// SampleDestination samples at the destination.
	SampleDestination SamplePoint = "destination"
	// SampleRouteMidpoint samples at the midpoint of the driving route,
	// falling back to the origin when no driving route is available.
	SampleRouteMidpoint SamplePoint = "route-midpoint"
)

// Endpoint is one end of the requested commute: an explicit coordinate or a
// free-text location query.
type Endpoint struct {
	Point *routing.Coordinate
	Query string
}

// IsZero reports whether the endpoint carries no location at all.
func (e Endpoint) IsZero() bool {
	return e.Point == nil && e.Query == ""
}

func (e Endpoint) waypoint() routing.Waypoint {
	return routing.Waypoint{Point: e.Point, Query: e.Query}
}

// Request describes a single advice computation.
type Request struct {
	Origin      Endpoint
	Destination Endpoint
}

// SourceAvailability records which provider categories produced data for a
// briefing. It mirrors the report sections and exists for logging and
// observability.
type SourceAvailability struct {
	Routing    bool
	AirQuality bool
	Weather    bool
}

// Briefing is the assembled result of one advice request. It is derived
// state: nothing is persisted and an identical request is recomputed from
// scratch.
type Briefing struct {
	ID          string
	GeneratedAt time.Time

	Recommendation advisor.Recommendation
	Report         advisor.Report
	Sources        SourceAvailability
}
