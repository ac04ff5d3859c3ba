package advisor

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// ErrConfigurationInvalid indicates the cutoffs or margins fail sanity checks.
// It is fatal at startup and never surfaces per request.
var ErrConfigurationInvalid = errors.New("advisor configuration invalid")

// Config holds the decision policy knobs. The exact cutoffs are deployment
// policy, not domain law; they are validated once when the engine is built.
type Config struct {
	// MinorDelay is the traffic delay below which the delay is classified
	// as NONE. Delays in [MinorDelay, MajorDelay) are MINOR.
	MinorDelay time.Duration

	// MajorDelay is the traffic delay at or above which the delay is
	// classified as MAJOR.
	MajorDelay time.Duration

	// TieMargin is the travel-time difference within which driving and
	// transit are considered a near-tie, allowing the air-quality override
	// to flip the recommendation toward transit.
	TieMargin time.Duration

	// UnhealthyAQI is the AQI value above which a poor air quality caution
	// is raised.
	UnhealthyAQI int
}

// DefaultConfig returns the default decision policy.
func DefaultConfig() Config {
	return Config{
		MinorDelay:   5 * time.Minute,
		MajorDelay:   15 * time.Minute,
		TieMargin:    10 * time.Minute,
		UnhealthyAQI: 150,
	}
}

// ConfigFromEnv builds a Config from environment variables, falling back to
// defaults for anything unset or unparseable. The result still needs to pass
// Validate via New.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("ADVISOR_MINOR_DELAY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.MinorDelay = d
		}
	}
	if v := os.Getenv("ADVISOR_MAJOR_DELAY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.MajorDelay = d
		}
	}
	if v := os.Getenv("ADVISOR_TIE_MARGIN"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.TieMargin = d
		}
	}
	if v := os.Getenv("ADVISOR_UNHEALTHY_AQI"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.UnhealthyAQI = n
		}
	}

	return cfg
}

// Validate checks the configuration for internal consistency.
func (c Config) Validate() error {
	if c.MinorDelay <= 0 {
		return fmt.Errorf("%w: minor delay cutoff must be positive, got %s", ErrConfigurationInvalid, c.MinorDelay)
	}
	if c.MajorDelay <= c.MinorDelay {
		return fmt.Errorf("%w: major delay cutoff %s must exceed minor cutoff %s", ErrConfigurationInvalid, c.MajorDelay, c.MinorDelay)
	}
	if c.TieMargin < 0 {
		return fmt.Errorf("%w: tie margin must not be negative, got %s", ErrConfigurationInvalid, c.TieMargin)
	}
	if c.UnhealthyAQI <= 0 {
		return fmt.Errorf("%w: unhealthy AQI threshold must be positive, got %d", ErrConfigurationInvalid, c.UnhealthyAQI)
	}
	return nil
}
