package models

// AdviceEndpoint is one end of the requested commute. Exactly one of point or
// query must be set.
type AdviceEndpoint struct {
	Point *Point  `json:"point,omitempty"`
	Query *string `json:"query,omitempty"`
}

// AdviceComputeRequest is the request body for computing advice. Either an
// explicit origin/destination pair or a saved trip ID must be provided.
type AdviceComputeRequest struct {
	Origin      *AdviceEndpoint `json:"origin,omitempty"`
	Destination *AdviceEndpoint `json:"destination,omitempty"`
	TripID      *string         `json:"tripId,omitempty"`
}

// Recommendation is the synthesized advice.
type Recommendation struct {
	Mode      Mode           `json:"mode"`
	Rationale string         `json:"rationale"`
	Delay     *DelaySeverity `json:"delay,omitempty"`
}

// TravelReport reports the travel-time metrics that could be computed.
type TravelReport struct {
	DrivingSeconds          *int           `json:"drivingSeconds,omitempty"`
	DrivingInTrafficSeconds *int           `json:"drivingInTrafficSeconds,omitempty"`
	TransitSeconds          *int           `json:"transitSeconds,omitempty"`
	Delay                   *DelaySeverity `json:"delay,omitempty"`
}

// AirQualityReport reports the air-quality metrics that could be computed.
type AirQualityReport struct {
	AQI               *int    `json:"aqi,omitempty"`
	DominantPollutant *string `json:"dominantPollutant,omitempty"`
}

// HourlyConditions is a single hour of forecast data.
type HourlyConditions struct {
	Time               Timestamp `json:"time"`
	TemperatureCelsius float64   `json:"temperatureCelsius"`
	RainProbability    float64   `json:"rainProbability"`
}

// WeatherReport reports the weather metrics that could be computed.
type WeatherReport struct {
	TemperatureCelsius *float64           `json:"temperatureCelsius,omitempty"`
	Summary            *string            `json:"summary,omitempty"`
	Hourly             []HourlyConditions `json:"hourly,omitempty"`
}

// Report contains one section per input category that produced data. Absent
// sections are omitted rather than zero-filled.
type Report struct {
	Travel     *TravelReport     `json:"travel,omitempty"`
	AirQuality *AirQualityReport `json:"airQuality,omitempty"`
	Weather    *WeatherReport    `json:"weather,omitempty"`
}

// SourceAvailability records which provider categories produced data.
type SourceAvailability struct {
	Routing    bool `json:"routing"`
	AirQuality bool `json:"airQuality"`
	Weather    bool `json:"weather"`
}

// AdviceResponse is the response body for a computed advice request.
type AdviceResponse struct {
	ID             string             `json:"id"`
	GeneratedAt    Timestamp          `json:"generatedAt"`
	Recommendation Recommendation     `json:"recommendation"`
	Report         Report             `json:"report"`
	Sources        SourceAvailability `json:"sources"`
}
