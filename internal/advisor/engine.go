package advisor

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Engine evaluates commute inputs against a validated decision policy.
// It owns no state beyond its configuration and performs no I/O, so a single
// Engine is safe for concurrent use.
type Engine struct {
	cfg Config
}

// New creates an Engine after validating the configuration.
// A validation failure is a startup error, reported once.
func New(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg}, nil
}

// Config returns the policy the engine was built with.
func (e *Engine) Config() Config {
	return e.cfg
}

// Evaluate combines whatever subset of the three inputs is present into a
// recommendation and report. Each argument may be nil; missing data narrows
// the output rather than failing. Identical inputs always yield identical
// output.
func (e *Engine) Evaluate(route *RouteComparison, air *AirQualityReading, weather *WeatherSnapshot) (Recommendation, Report) {
	rec := Recommendation{Mode: ModeUndetermined}

	// Rationale fragments in fixed order: delay, mode comparison, air caution.
	var rationale []string

	// Step 1: delay assessment. Needs both the free-flow and in-traffic
	// durations; otherwise the delay is undetermined and stays out of the
	// rationale entirely.
	if route != nil && route.DrivingSeconds != nil && route.DrivingInTrafficSeconds != nil {
		delay := time.Duration(*route.DrivingInTrafficSeconds-*route.DrivingSeconds) * time.Second
		severity := e.classifyDelay(delay)
		rec.Delay = &severity
		rationale = append(rationale, delayStatement(severity, delay))
	}

	// Step 2: mode comparison.
	driving := route.effectiveDrivingSeconds()
	var transit *int
	if route != nil {
		transit = route.TransitSeconds
	}

	nearTie := false
	switch {
	case driving != nil && transit != nil:
		d, t := *driving, *transit
		diff := time.Duration(int(math.Abs(float64(d-t)))) * time.Second
		nearTie = diff <= e.cfg.TieMargin

		switch {
		case t < d:
			rec.Mode = ModeTransit
			rationale = append(rationale, fmt.Sprintf("Transit is faster (%s vs %s driving).", minutes(t), minutes(d)))
		case d < t:
			rec.Mode = ModeDrive
			rationale = append(rationale, fmt.Sprintf("Driving is faster (%s vs %s by transit).", minutes(d), minutes(t)))
		default:
			// Exact tie: prefer transit. Stated policy, not an accident.
			rec.Mode = ModeTransit
			rationale = append(rationale, fmt.Sprintf("Driving and transit are tied at %s; transit is preferred on a tie.", minutes(t)))
		}
	case driving != nil:
		rec.Mode = ModeDrive
		rationale = append(rationale, fmt.Sprintf("Driving is the only mode with an estimate available (%s).", minutes(*driving)))
	case transit != nil:
		rec.Mode = ModeTransit
		rationale = append(rationale, fmt.Sprintf("Transit is the only mode with an estimate available (%s).", minutes(*transit)))
	}

	// Step 3: environmental override. A soft override: it adds a caution and
	// may flip a near-tie toward transit, but never outvotes a decisive
	// travel-time winner or invents a mode when no durations exist.
	if air != nil && air.AQI != nil && *air.AQI > e.cfg.UnhealthyAQI {
		caution := fmt.Sprintf("Air quality is unhealthy (AQI %d", *air.AQI)
		if air.DominantPollutant != nil {
			caution += ", dominant pollutant " + *air.DominantPollutant
		}
		caution += ")."

		if nearTie && rec.Mode == ModeDrive {
			rec.Mode = ModeTransit
			caution += " Travel times are close, so transit is preferred to limit exposure."
		} else {
			caution += " Consider limiting outdoor exposure."
		}
		rationale = append(rationale, caution)
	}

	rec.Rationale = strings.Join(rationale, " ")

	return rec, e.assembleReport(route, air, weather, rec.Delay)
}

// classifyDelay maps a traffic delay onto the configured severity bands.
func (e *Engine) classifyDelay(delay time.Duration) DelaySeverity {
	switch {
	case delay >= e.cfg.MajorDelay:
		return DelayMajor
	case delay >= e.cfg.MinorDelay:
		return DelayMinor
	default:
		return DelayNone
	}
}

// assembleReport builds one section per input category that carried data.
// Absent categories are suppressed outright rather than rendered as zeros.
func (e *Engine) assembleReport(route *RouteComparison, air *AirQualityReading, weather *WeatherSnapshot, delay *DelaySeverity) Report {
	var report Report

	if route != nil && (route.DrivingSeconds != nil || route.DrivingInTrafficSeconds != nil || route.TransitSeconds != nil) {
		report.Travel = &TravelSection{
			DrivingSeconds:          copyInt(route.DrivingSeconds),
			DrivingInTrafficSeconds: copyInt(route.DrivingInTrafficSeconds),
			TransitSeconds:          copyInt(route.TransitSeconds),
			Delay:                   copyDelay(delay),
		}
	}

	if air != nil && (air.AQI != nil || air.DominantPollutant != nil) {
		report.AirQuality = &AirQualitySection{
			AQI:               copyInt(air.AQI),
			DominantPollutant: copyString(air.DominantPollutant),
		}
	}

	if weather != nil && (weather.TemperatureCelsius != nil || weather.Summary != nil || len(weather.Hourly) > 0) {
		section := &WeatherSection{
			TemperatureCelsius: copyFloat(weather.TemperatureCelsius),
			Summary:            copyString(weather.Summary),
		}
		if len(weather.Hourly) > 0 {
			section.Hourly = make([]HourlyConditions, len(weather.Hourly))
			copy(section.Hourly, weather.Hourly)
		}
		report.Weather = section
	}

	return report
}

// delayStatement renders the delay assessment for the rationale.
func delayStatement(severity DelaySeverity, delay time.Duration) string {
	switch severity {
	case DelayMajor:
		return fmt.Sprintf("Traffic is heavy, adding about %s to the drive.", minutes(int(delay.Seconds())))
	case DelayMinor:
		return fmt.Sprintf("Traffic is moderate, adding about %s to the drive.", minutes(int(delay.Seconds())))
	default:
		return "Traffic is light with no meaningful delay."
	}
}

// minutes renders a duration in whole minutes, the resolution the providers
// are trusted to.
func minutes(seconds int) string {
	return fmt.Sprintf("%d min", int(math.Round(float64(seconds)/60)))
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func copyString(v *string) *string {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func copyDelay(v *DelaySeverity) *DelaySeverity {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
