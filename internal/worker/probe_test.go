package worker_test

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commutewise/commutewise/internal/advisor"
	"github.com/commutewise/commutewise/internal/briefing"
	"github.com/commutewise/commutewise/internal/routing"
	"github.com/commutewise/commutewise/internal/worker"
)

// stubRouting reports a fixed major delay with a faster transit alternative.
type stubRouting struct{}

func (s *stubRouting) GetRoute(_ context.Context, req routing.DirectionsRequest) (*routing.Route, error) {
	if req.Mode == routing.ModeDriving {
		inTraffic := 2800
		return &routing.Route{DurationSeconds: 1800, DurationInTrafficSeconds: &inTraffic}, nil
	}
	return &routing.Route{DurationSeconds: 2400}, nil
}

func (s *stubRouting) ProviderName() string { return "stub" }

func testBriefings(t *testing.T) *briefing.Service {
	t.Helper()

	engine, err := advisor.New(advisor.DefaultConfig())
	require.NoError(t, err)

	return briefing.NewService(briefing.ServiceConfig{
		Engine:  engine,
		Routing: &stubRouting{},
		Logger:  zerolog.New(io.Discard),
	})
}

func testCorridor() worker.Corridor {
	return worker.Corridor{
		Name:        "Test",
		Origin:      worker.Point{Lat: 22.58, Lon: 88.34},
		Destination: worker.Point{Lat: 22.56, Lon: 88.35},
	}
}

func TestDefaultProbeConfig(t *testing.T) {
	cfg := worker.DefaultProbeConfig()

	assert.Equal(t, 3, cfg.Concurrency)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.NotEmpty(t, cfg.Corridors)
}

func TestDefaultCorridors(t *testing.T) {
	corridors := worker.DefaultCorridors()

	// Should cover multiple commuter corridors
	assert.GreaterOrEqual(t, len(corridors), 5)

	var howrah *worker.Corridor
	for i := range corridors {
		if corridors[i].Name == "Howrah - Esplanade" {
			howrah = &corridors[i]
			break
		}
	}
	require.NotNil(t, howrah, "Howrah - Esplanade should be a default corridor")
	assert.Equal(t, 1, howrah.Priority)
	assert.NotZero(t, howrah.Origin.Lat)
	assert.NotZero(t, howrah.Destination.Lat)
}

func TestProbeConfig_OrderedCorridors(t *testing.T) {
	cfg := worker.ProbeConfig{
		Corridors: []worker.Corridor{
			{Name: "low", Priority: 3},
			{Name: "high", Priority: 1},
			{Name: "mid", Priority: 2},
		},
	}

	ordered := cfg.OrderedCorridors()
	require.Len(t, ordered, 3)
	assert.Equal(t, "high", ordered[0].Name)
	assert.Equal(t, "mid", ordered[1].Name)
	assert.Equal(t, "low", ordered[2].Name)
	assert.Equal(t, 3, cfg.TotalCorridors())
}

func TestProbeJob_Run(t *testing.T) {
	job := worker.NewProbeJob(worker.ProbeJobConfig{
		Config: worker.ProbeConfig{
			Corridors:   []worker.Corridor{testCorridor()},
			Concurrency: 1,
			Timeout:     time.Second,
		},
		Logger:    zerolog.Nop(),
		Briefings: testBriefings(t),
	})

	result := job.Run(context.Background())

	assert.Equal(t, 1, result.TotalCorridors)
	assert.Equal(t, 1, result.Successful)
	assert.Equal(t, 0, result.Failed)
	require.Len(t, result.Outcomes, 1)

	outcome := result.Outcomes[0]
	assert.Equal(t, "Test", outcome.Corridor)
	assert.Equal(t, advisor.ModeTransit, outcome.Mode)
	require.NotNil(t, outcome.Delay)
	assert.Equal(t, advisor.DelayMajor, *outcome.Delay)
	assert.True(t, outcome.Routing)
}

func TestProbeJob_Run_NoBriefings(t *testing.T) {
	job := worker.NewProbeJob(worker.ProbeJobConfig{
		Config: worker.ProbeConfig{
			Corridors:   []worker.Corridor{testCorridor()},
			Concurrency: 1,
			Timeout:     time.Second,
		},
		Logger: zerolog.Nop(),
	})

	result := job.Run(context.Background())

	assert.Equal(t, 0, result.Successful)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "Test", result.Errors[0].Corridor)
}

func TestProbeJob_Run_WithConcurrency(t *testing.T) {
	corridors := make([]worker.Corridor, 10)
	for i := range corridors {
		corridors[i] = worker.Corridor{
			Name:        "corridor",
			Origin:      worker.Point{Lat: 22.0 + float64(i)*0.05, Lon: 88.0},
			Destination: worker.Point{Lat: 22.5, Lon: 88.35},
		}
	}

	job := worker.NewProbeJob(worker.ProbeJobConfig{
		Config: worker.ProbeConfig{
			Corridors:   corridors,
			Concurrency: 3,
			Timeout:     time.Second,
		},
		Logger:    zerolog.Nop(),
		Briefings: testBriefings(t),
	})

	result := job.Run(context.Background())

	assert.Equal(t, 10, result.TotalCorridors)
	assert.Equal(t, 10, result.Successful)
}

func TestProbeJob_Run_ContextCancellation(t *testing.T) {
	corridors := make([]worker.Corridor, 50)
	for i := range corridors {
		corridors[i] = testCorridor()
	}

	job := worker.NewProbeJob(worker.ProbeJobConfig{
		Config: worker.ProbeConfig{
			Corridors:   corridors,
			Concurrency: 1,
			Timeout:     100 * time.Millisecond,
		},
		Logger:    zerolog.Nop(),
		Briefings: testBriefings(t),
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := job.Run(ctx)

	// Should complete even if not all corridors were probed
	assert.NotNil(t, result)
}

func TestProbeJob_GetMetrics(t *testing.T) {
	job := worker.NewProbeJob(worker.ProbeJobConfig{
		Config: worker.ProbeConfig{
			Corridors:   []worker.Corridor{testCorridor()},
			Concurrency: 1,
			Timeout:     time.Second,
		},
		Logger:    zerolog.Nop(),
		Briefings: testBriefings(t),
	})

	_ = job.Run(context.Background())

	metrics := job.GetMetrics()
	assert.Equal(t, int64(1), metrics.TotalRuns)
	assert.Equal(t, int64(1), metrics.SuccessfulProbes)
	assert.Equal(t, int64(1), metrics.TransitRecommended)
	assert.Equal(t, int64(1), metrics.MajorDelays)
	assert.NotZero(t, metrics.LastRunAt)
	assert.Greater(t, metrics.LastRunDuration, time.Duration(0))
}

func TestProbeJob_MetricsSnapshot(t *testing.T) {
	job := worker.NewProbeJob(worker.ProbeJobConfig{
		Config: worker.ProbeConfig{
			Corridors:   []worker.Corridor{testCorridor()},
			Concurrency: 1,
			Timeout:     time.Second,
		},
		Logger:    zerolog.Nop(),
		Briefings: testBriefings(t),
	})

	_ = job.Run(context.Background())

	snapshot := job.MetricsSnapshot()

	assert.Contains(t, snapshot, "total_runs")
	assert.Contains(t, snapshot, "successful_probes")
	assert.Contains(t, snapshot, "failed_probes")
	assert.Contains(t, snapshot, "transit_recommended")
	assert.Contains(t, snapshot, "last_run_at")
	assert.Contains(t, snapshot, "last_run_duration")
}

func TestNewProbeJob_DefaultConfig(t *testing.T) {
	job := worker.NewProbeJob(worker.ProbeJobConfig{
		Config: worker.ProbeConfig{}, // Empty
		Logger: zerolog.Nop(),
	})

	metrics := job.GetMetrics()
	assert.Equal(t, int64(0), metrics.TotalRuns) // Not run yet
}
