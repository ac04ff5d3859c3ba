package advisor_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commutewise/commutewise/internal/advisor"
)

func newTestEngine(t *testing.T) *advisor.Engine {
	t.Helper()
	engine, err := advisor.New(advisor.Config{
		MinorDelay:   5 * time.Minute,
		MajorDelay:   15 * time.Minute,
		TieMargin:    10 * time.Minute,
		UnhealthyAQI: 150,
	})
	require.NoError(t, err)
	return engine
}

func intPtr(v int) *int          { return &v }
func floatPtr(v float64) *float64 { return &v }
func strPtr(v string) *string    { return &v }

func TestEvaluate_FasterModeWins(t *testing.T) {
	engine := newTestEngine(t)

	tests := []struct {
		name     string
		route    advisor.RouteComparison
		wantMode advisor.Mode
	}{
		{
			name: "transit faster",
			route: advisor.RouteComparison{
				DrivingSeconds:          intPtr(1800),
				DrivingInTrafficSeconds: intPtr(3600),
				TransitSeconds:          intPtr(2400),
			},
			wantMode: advisor.ModeTransit,
		},
		{
			name: "driving faster",
			route: advisor.RouteComparison{
				DrivingSeconds:          intPtr(1500),
				DrivingInTrafficSeconds: intPtr(1560),
				TransitSeconds:          intPtr(3300),
			},
			wantMode: advisor.ModeDrive,
		},
		{
			name: "falls back to free-flow duration without traffic data",
			route: advisor.RouteComparison{
				DrivingSeconds: intPtr(1200),
				TransitSeconds: intPtr(3000),
			},
			wantMode: advisor.ModeDrive,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec, _ := engine.Evaluate(&tc.route, nil, nil)
			assert.Equal(t, tc.wantMode, rec.Mode)
			assert.NotEmpty(t, rec.Rationale)
		})
	}
}

func TestEvaluate_ExactTiePrefersTransit(t *testing.T) {
	engine := newTestEngine(t)

	rec, _ := engine.Evaluate(&advisor.RouteComparison{
		DrivingSeconds:          intPtr(2400),
		DrivingInTrafficSeconds: intPtr(2700),
		TransitSeconds:          intPtr(2700),
	}, nil, nil)

	assert.Equal(t, advisor.ModeTransit, rec.Mode)
	assert.Contains(t, rec.Rationale, "tie")
}

func TestEvaluate_SingleAvailableMode(t *testing.T) {
	engine := newTestEngine(t)

	rec, _ := engine.Evaluate(&advisor.RouteComparison{TransitSeconds: intPtr(2100)}, nil, nil)
	assert.Equal(t, advisor.ModeTransit, rec.Mode)
	assert.Contains(t, rec.Rationale, "only mode")
	assert.Nil(t, rec.Delay)

	rec, _ = engine.Evaluate(&advisor.RouteComparison{DrivingInTrafficSeconds: intPtr(1800)}, nil, nil)
	assert.Equal(t, advisor.ModeDrive, rec.Mode)
}

func TestEvaluate_RouteAbsent(t *testing.T) {
	engine := newTestEngine(t)

	rec, report := engine.Evaluate(nil, &advisor.AirQualityReading{AQI: intPtr(42)}, nil)

	assert.Equal(t, advisor.ModeUndetermined, rec.Mode)
	assert.Nil(t, rec.Delay)
	assert.NotContains(t, rec.Rationale, "min")
	assert.Nil(t, report.Travel)
	require.NotNil(t, report.AirQuality)
}

func TestEvaluate_RouteAbsentWithUnhealthyAirStaysUndetermined(t *testing.T) {
	engine := newTestEngine(t)

	rec, _ := engine.Evaluate(nil, &advisor.AirQualityReading{AQI: intPtr(200)}, nil)

	// Without any travel estimate the override has nothing to flip; it only
	// contributes the caution.
	assert.Equal(t, advisor.ModeUndetermined, rec.Mode)
	assert.Contains(t, rec.Rationale, "AQI 200")
}

func TestEvaluate_DelayClassification(t *testing.T) {
	engine := newTestEngine(t)

	tests := []struct {
		name      string
		inTraffic int
		want      advisor.DelaySeverity
	}{
		{"below minor cutoff", 1800 + 120, advisor.DelayNone},
		{"at minor cutoff", 1800 + 300, advisor.DelayMinor},
		{"between cutoffs", 1800 + 600, advisor.DelayMinor},
		{"at major cutoff", 1800 + 900, advisor.DelayMajor},
		{"above major cutoff", 1800 + 1500, advisor.DelayMajor},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec, _ := engine.Evaluate(&advisor.RouteComparison{
				DrivingSeconds:          intPtr(1800),
				DrivingInTrafficSeconds: intPtr(tc.inTraffic),
			}, nil, nil)
			require.NotNil(t, rec.Delay)
			assert.Equal(t, tc.want, *rec.Delay)
		})
	}
}

func TestEvaluate_DelayUndeterminedWithoutBaseline(t *testing.T) {
	engine := newTestEngine(t)

	rec, _ := engine.Evaluate(&advisor.RouteComparison{
		DrivingInTrafficSeconds: intPtr(2700),
		TransitSeconds:          intPtr(2400),
	}, nil, nil)

	assert.Nil(t, rec.Delay)
	assert.NotContains(t, rec.Rationale, "Traffic is")
}

func TestEvaluate_HeavyTrafficUnhealthyAirScenario(t *testing.T) {
	engine, err := advisor.New(advisor.Config{
		MinorDelay:   5 * time.Minute,
		MajorDelay:   15 * time.Minute,
		TieMargin:    10 * time.Minute,
		UnhealthyAQI: 150,
	})
	require.NoError(t, err)

	rec, report := engine.Evaluate(
		&advisor.RouteComparison{
			DrivingSeconds:          intPtr(1800),
			DrivingInTrafficSeconds: intPtr(2700),
			TransitSeconds:          intPtr(2400),
		},
		&advisor.AirQualityReading{AQI: intPtr(160), DominantPollutant: strPtr("pm25")},
		nil,
	)

	// Delay of 900s is classified major; transit wins on time alone; the
	// air caution is appended without changing the decision.
	require.NotNil(t, rec.Delay)
	assert.Equal(t, advisor.DelayMajor, *rec.Delay)
	assert.Equal(t, advisor.ModeTransit, rec.Mode)
	assert.Contains(t, rec.Rationale, "Traffic is heavy")
	assert.Contains(t, rec.Rationale, "Transit is faster")
	assert.Contains(t, rec.Rationale, "AQI 160")

	require.NotNil(t, report.Travel)
	require.NotNil(t, report.Travel.Delay)
	assert.Equal(t, advisor.DelayMajor, *report.Travel.Delay)
}

func TestEvaluate_NearTieFlippedByUnhealthyAir(t *testing.T) {
	engine := newTestEngine(t)

	rec, _ := engine.Evaluate(
		&advisor.RouteComparison{
			DrivingSeconds:          intPtr(2500),
			DrivingInTrafficSeconds: intPtr(2500),
			TransitSeconds:          intPtr(2550),
		},
		&advisor.AirQualityReading{AQI: intPtr(200)},
		nil,
	)

	// Driving is nominally 50s faster, well within the tie margin, so the
	// unhealthy reading nudges the recommendation to transit.
	assert.Equal(t, advisor.ModeTransit, rec.Mode)
	assert.Contains(t, rec.Rationale, "AQI 200")
	assert.Contains(t, rec.Rationale, "transit is preferred")
}

func TestEvaluate_DecisiveWinnerNotFlippedByAir(t *testing.T) {
	engine := newTestEngine(t)

	rec, _ := engine.Evaluate(
		&advisor.RouteComparison{
			DrivingSeconds:          intPtr(1200),
			DrivingInTrafficSeconds: intPtr(1200),
			TransitSeconds:          intPtr(3600),
		},
		&advisor.AirQualityReading{AQI: intPtr(300)},
		nil,
	)

	// Driving wins by 40 minutes, far beyond the margin; the caution is
	// appended but the decision stands.
	assert.Equal(t, advisor.ModeDrive, rec.Mode)
	assert.Contains(t, rec.Rationale, "AQI 300")
}

func TestEvaluate_AirAtThresholdRaisesNoCaution(t *testing.T) {
	engine := newTestEngine(t)

	rec, _ := engine.Evaluate(
		&advisor.RouteComparison{DrivingSeconds: intPtr(1800), TransitSeconds: intPtr(1900)},
		&advisor.AirQualityReading{AQI: intPtr(150)},
		nil,
	)

	assert.NotContains(t, rec.Rationale, "AQI")
}

func TestEvaluate_ReportSectionsMatchPresentInputs(t *testing.T) {
	engine := newTestEngine(t)

	route := &advisor.RouteComparison{
		DrivingSeconds: intPtr(1800),
		TransitSeconds: intPtr(2400),
	}
	weather := &advisor.WeatherSnapshot{
		TemperatureCelsius: floatPtr(21.5),
		Summary:            strPtr("Partly cloudy through the evening"),
		Hourly: []advisor.HourlyConditions{
			{Time: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), TemperatureCelsius: 19.0, RainProbability: 0.2},
		},
	}

	_, report := engine.Evaluate(route, nil, weather)

	require.NotNil(t, report.Travel)
	assert.Nil(t, report.AirQuality, "absent air input must not produce a section")
	require.NotNil(t, report.Weather)
	assert.Equal(t, 21.5, *report.Weather.TemperatureCelsius)
	assert.Len(t, report.Weather.Hourly, 1)

	// Only the metrics that were actually computable are present.
	assert.Nil(t, report.Travel.DrivingInTrafficSeconds)
	assert.Nil(t, report.Travel.Delay)
	assert.Equal(t, 1800, *report.Travel.DrivingSeconds)
}

func TestEvaluate_EmptyInputsYieldEmptyReport(t *testing.T) {
	engine := newTestEngine(t)

	rec, report := engine.Evaluate(&advisor.RouteComparison{}, &advisor.AirQualityReading{}, &advisor.WeatherSnapshot{})

	assert.Equal(t, advisor.ModeUndetermined, rec.Mode)
	assert.Empty(t, rec.Rationale)
	assert.Nil(t, report.Travel)
	assert.Nil(t, report.AirQuality)
	assert.Nil(t, report.Weather)
}

func TestEvaluate_Idempotent(t *testing.T) {
	engine := newTestEngine(t)

	route := &advisor.RouteComparison{
		DrivingSeconds:          intPtr(1800),
		DrivingInTrafficSeconds: intPtr(2700),
		TransitSeconds:          intPtr(2400),
	}
	air := &advisor.AirQualityReading{AQI: intPtr(160), DominantPollutant: strPtr("o3")}
	weather := &advisor.WeatherSnapshot{TemperatureCelsius: floatPtr(28.0)}

	rec1, report1 := engine.Evaluate(route, air, weather)
	rec2, report2 := engine.Evaluate(route, air, weather)

	assert.Equal(t, rec1, rec2)
	assert.Equal(t, report1, report2)
}

func TestEvaluate_ReportIsDetachedFromInputs(t *testing.T) {
	engine := newTestEngine(t)

	aqi := 90
	air := &advisor.AirQualityReading{AQI: &aqi}
	_, report := engine.Evaluate(nil, air, nil)

	require.NotNil(t, report.AirQuality)
	aqi = 500
	assert.Equal(t, 90, *report.AirQuality.AQI, "report must not alias caller memory")
}
