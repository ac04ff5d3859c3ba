// Package advisor implements the commute decision engine. It combines
// travel-time, air-quality, and weather readings into a drive-vs-transit
// recommendation plus a report covering whichever inputs were available.
//
// Every input field may independently be absent. Absence is a first-class
// state, not an error: the engine is a pure function and never fails per
// request.
package advisor

import "time"

// Mode is the recommended commute mode.
type Mode string

const (
	ModeDrive        Mode = "DRIVE"
	ModeTransit      Mode = "TRANSIT"
	ModeUndetermined Mode = "UNDETERMINED"
)

// DelaySeverity classifies the current traffic delay on the driving route.
type DelaySeverity string

const (
	DelayNone  DelaySeverity = "NONE"
	DelayMinor DelaySeverity = "MINOR"
	DelayMajor DelaySeverity = "MAJOR"
)

// RouteComparison holds travel-time estimates for the two commute modes
// between origin and destination at the current departure time. A nil field
// means the corresponding provider call failed or returned no route.
type RouteComparison struct {
	// DrivingSeconds is the free-flow driving duration.
	DrivingSeconds *int

	// DrivingInTrafficSeconds is the driving duration with live traffic.
	DrivingInTrafficSeconds *int

	// TransitSeconds is the public transit duration.
	TransitSeconds *int
}

// effectiveDrivingSeconds returns the traffic-aware driving duration, falling
// back to the free-flow duration when no traffic estimate is available.
func (r *RouteComparison) effectiveDrivingSeconds() *int {
	if r == nil {
		return nil
	}
	if r.DrivingInTrafficSeconds != nil {
		return r.DrivingInTrafficSeconds
	}
	return r.DrivingSeconds
}

// AirQualityReading is the most recent reading from the monitoring station
// nearest the configured sampling point.
type AirQualityReading struct {
	AQI               *int
	DominantPollutant *string
}

// WeatherSnapshot holds current conditions and a short-horizon forecast.
type WeatherSnapshot struct {
	TemperatureCelsius *float64
	Summary            *string
	Hourly             []HourlyConditions
}

// HourlyConditions is a single hour of forecast data.
type HourlyConditions struct {
	Time               time.Time
	TemperatureCelsius float64
	RainProbability    float64 // 0-1
}

// Recommendation is the synthesized advice. It is derived, never persisted,
// and recomputed on every request.
type Recommendation struct {
	Mode      Mode
	Rationale string

	// Delay is nil when the traffic delay could not be assessed.
	Delay *DelaySeverity
}

// Report contains one section per input category that actually carried data.
// A nil section means the source was absent; zero values are never presented
// as real readings.
type Report struct {
	Travel     *TravelSection
	AirQuality *AirQualitySection
	Weather    *WeatherSection
}

// TravelSection reports the travel-time metrics that could be computed.
type TravelSection struct {
	DrivingSeconds          *int
	DrivingInTrafficSeconds *int
	TransitSeconds          *int
	Delay                   *DelaySeverity
}

// AirQualitySection reports the air-quality metrics that could be computed.
type AirQualitySection struct {
	AQI               *int
	DominantPollutant *string
}

// WeatherSection reports the weather metrics that could be computed.
type WeatherSection struct {
	TemperatureCelsius *float64
	Summary            *string
	Hourly             []HourlyConditions
}
