package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/commutewise/commutewise/internal/advisor"
	"github.com/commutewise/commutewise/internal/briefing"
	"github.com/commutewise/commutewise/internal/routing"
)

var errBriefingsUnavailable = errors.New("briefing service not configured")

// ProbeJob computes a briefing for each configured corridor. Results are not
// served to clients; the job exists to exercise the provider chain and record
// corridor-level delay trends.
type ProbeJob struct {
	config ProbeConfig
	logger zerolog.Logger

	// Briefings may be nil, in which case every probe fails.
	briefings *briefing.Service

	metrics *ProbeMetrics
}

// ProbeMetrics tracks probe job statistics.
type ProbeMetrics struct {
	mu sync.RWMutex

	// Counters
	TotalRuns          int64
	SuccessfulProbes   int64
	FailedProbes       int64
	DriveRecommended   int64
	TransitRecommended int64
	Undetermined       int64
	MajorDelays        int64

	// Timings
	LastRunAt       time.Time
	LastRunDuration time.Duration
	TotalDuration   time.Duration
}

// ProbeJobConfig holds configuration for creating a ProbeJob.
type ProbeJobConfig struct {
	Config    ProbeConfig
	Logger    zerolog.Logger
	Briefings *briefing.Service
}

// NewProbeJob creates a new corridor probe job processor.
func NewProbeJob(cfg ProbeJobConfig) *ProbeJob {
	config := cfg.Config
	if len(config.Corridors) == 0 {
		config = DefaultProbeConfig()
	}
	if config.Concurrency <= 0 {
		config.Concurrency = 3
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}

	return &ProbeJob{
		config:    config,
		logger:    cfg.Logger,
		briefings: cfg.Briefings,
		metrics:   &ProbeMetrics{},
	}
}

// ProbeResult contains the result of one probe run.
type ProbeResult struct {
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalCorridors int
	Successful     int
	Failed         int
	Outcomes       []CorridorOutcome
	Errors         []ProbeError
}

// CorridorOutcome is the advice computed for one corridor.
type CorridorOutcome struct {
	Corridor string
	Mode     advisor.Mode
	Delay    *advisor.DelaySeverity
	Routing  bool
}

// ProbeError represents a failed corridor probe.
type ProbeError struct {
	Corridor string
	Error    string
}

// Run probes all configured corridors and returns the aggregated result.
func (j *ProbeJob) Run(ctx context.Context) *ProbeResult {
	startTime := time.Now()
	result := &ProbeResult{
		StartTime:      startTime,
		TotalCorridors: j.config.TotalCorridors(),
	}

	j.logger.Info().
		Int("total_corridors", result.TotalCorridors).
		Int("concurrency", j.config.Concurrency).
		Msg("starting corridor probe job")

	corridors := j.config.OrderedCorridors()

	corridorChan := make(chan Corridor, len(corridors))
	resultsChan := make(chan corridorResult, len(corridors))

	var wg sync.WaitGroup
	for i := 0; i < j.config.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			j.probeWorker(ctx, corridorChan, resultsChan)
		}()
	}

	for _, c := range corridors {
		corridorChan <- c
	}
	close(corridorChan)

	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	for cr := range resultsChan {
		if cr.err != nil {
			result.Failed++
			result.Errors = append(result.Errors, ProbeError{
				Corridor: cr.corridor.Name,
				Error:    cr.err.Error(),
			})
			continue
		}
		result.Successful++
		result.Outcomes = append(result.Outcomes, cr.outcome)
	}

	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(startTime)

	j.updateMetrics(result)

	j.logger.Info().
		Dur("duration", result.Duration).
		Int("successful", result.Successful).
		Int("failed", result.Failed).
		Msg("corridor probe job completed")

	return result
}

type corridorResult struct {
	corridor Corridor
	outcome  CorridorOutcome
	err      error
}

func (j *ProbeJob) probeWorker(ctx context.Context, corridors <-chan Corridor, results chan<- corridorResult) {
	for corridor := range corridors {
		select {
		case <-ctx.Done():
			return
		default:
			results <- j.probeCorridor(ctx, corridor)
		}
	}
}

func (j *ProbeJob) probeCorridor(ctx context.Context, corridor Corridor) corridorResult {
	if j.briefings == nil {
		return corridorResult{corridor: corridor, err: errBriefingsUnavailable}
	}

	probeCtx, cancel := context.WithTimeout(ctx, j.config.Timeout)
	defer cancel()

	b, err := j.briefings.Compute(probeCtx, briefing.Request{
		Origin: briefing.Endpoint{
			Point: &routing.Coordinate{Lat: corridor.Origin.Lat, Lon: corridor.Origin.Lon},
		},
		Destination: briefing.Endpoint{
			Point: &routing.Coordinate{Lat: corridor.Destination.Lat, Lon: corridor.Destination.Lon},
		},
	})
	if err != nil {
		j.logger.Warn().Err(err).
			Str("corridor", corridor.Name).
			Msg("corridor probe failed")
		return corridorResult{corridor: corridor, err: err}
	}

	outcome := CorridorOutcome{
		Corridor: corridor.Name,
		Mode:     b.Recommendation.Mode,
		Delay:    b.Recommendation.Delay,
		Routing:  b.Sources.Routing,
	}

	event := j.logger.Debug().
		Str("corridor", corridor.Name).
		Str("mode", string(outcome.Mode))
	if outcome.Delay != nil {
		event = event.Str("delay", string(*outcome.Delay))
	}
	event.Msg("corridor probed")

	return corridorResult{corridor: corridor, outcome: outcome}
}

func (j *ProbeJob) updateMetrics(result *ProbeResult) {
	j.metrics.mu.Lock()
	defer j.metrics.mu.Unlock()

	j.metrics.TotalRuns++
	j.metrics.SuccessfulProbes += int64(result.Successful)
	j.metrics.FailedProbes += int64(result.Failed)
	j.metrics.LastRunAt = result.EndTime
	j.metrics.LastRunDuration = result.Duration
	j.metrics.TotalDuration += result.Duration

	for _, o := range result.Outcomes {
		switch o.Mode {
		case advisor.ModeDrive:
			j.metrics.DriveRecommended++
		case advisor.ModeTransit:
			j.metrics.TransitRecommended++
		default:
			j.metrics.Undetermined++
		}
		if o.Delay != nil && *o.Delay == advisor.DelayMajor {
			j.metrics.MajorDelays++
		}
	}
}

// GetMetrics returns a copy of the current metrics.
func (j *ProbeJob) GetMetrics() ProbeMetrics {
	j.metrics.mu.RLock()
	defer j.metrics.mu.RUnlock()

	return ProbeMetrics{
		TotalRuns:          j.metrics.TotalRuns,
		SuccessfulProbes:   j.metrics.SuccessfulProbes,
		FailedProbes:       j.metrics.FailedProbes,
		DriveRecommended:   j.metrics.DriveRecommended,
		TransitRecommended: j.metrics.TransitRecommended,
		Undetermined:       j.metrics.Undetermined,
		MajorDelays:        j.metrics.MajorDelays,
		LastRunAt:          j.metrics.LastRunAt,
		LastRunDuration:    j.metrics.LastRunDuration,
		TotalDuration:      j.metrics.TotalDuration,
	}
}

// MetricsSnapshot returns a snapshot of the current metrics as a map.
func (j *ProbeJob) MetricsSnapshot() map[string]interface{} {
	m := j.GetMetrics()
	return map[string]interface{}{
		"total_runs":          m.TotalRuns,
		"successful_probes":   m.SuccessfulProbes,
		"failed_probes":       m.FailedProbes,
		"drive_recommended":   m.DriveRecommended,
		"transit_recommended": m.TransitRecommended,
		"undetermined":        m.Undetermined,
		"major_delays":        m.MajorDelays,
		"last_run_at":         m.LastRunAt,
		"last_run_duration":   m.LastRunDuration.String(),
		"total_duration":      m.TotalDuration.String(),
	}
}
