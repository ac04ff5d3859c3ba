// Package worker provides background job processing for CommuteWise.
package worker

import (
	"sort"
	"time"
)

// Corridor is a monitored origin/destination pair. Probing a corridor keeps
// provider circuits warm and surfaces systemic delays before users ask.
type Corridor struct {
	// Name is the human-readable name of the corridor.
	Name string

	// Origin is the start of the commute.
	Origin Point

	// Destination is the end of the commute.
	Destination Point

	// Priority determines probe order (lower = higher priority).
	Priority int
}

// Point represents a geographic coordinate.
type Point struct {
	Lat float64
	Lon float64
}

// ProbeConfig holds configuration for the corridor probe job.
type ProbeConfig struct {
	// Corridors are the origin/destination pairs to probe.
	// If empty, uses DefaultCorridors.
	Corridors []Corridor

	// Concurrency is the number of concurrent probe operations.
	// Default: 3
	Concurrency int

	// Timeout is the timeout for each probe operation.
	// Default: 30 seconds
	Timeout time.Duration
}

// DefaultProbeConfig returns the default probe configuration.
func DefaultProbeConfig() ProbeConfig {
	return ProbeConfig{
		Corridors:   DefaultCorridors(),
		Concurrency: 3,
		Timeout:     30 * time.Second,
	}
}

// DefaultCorridors returns the default probe corridors for the Kolkata
// metropolitan area and its major commuter feeds.
func DefaultCorridors() []Corridor {
	return []Corridor{
		{
			Name:        "Howrah - Esplanade",
			Priority:    1,
			Origin:      Point{Lat: 22.5839, Lon: 88.3434}, // Howrah Station
			Destination: Point{Lat: 22.5645, Lon: 88.3510}, // Esplanade
		},
		{
			Name:        "Salt Lake - Park Street",
			Priority:    1,
			Origin:      Point{Lat: 22.5697, Lon: 88.4332}, // Sector V
			Destination: Point{Lat: 22.5530, Lon: 88.3520}, // Park Street
		},
		{
			Name:        "Dum Dum - Dalhousie",
			Priority:    1,
			Origin:      Point{Lat: 22.6420, Lon: 88.4312}, // Dum Dum
			Destination: Point{Lat: 22.5697, Lon: 88.3500}, // BBD Bagh
		},
		{
			Name:        "Garia - Esplanade",
			Priority:    2,
			Origin:      Point{Lat: 22.4615, Lon: 88.3922}, // Garia
			Destination: Point{Lat: 22.5645, Lon: 88.3510}, // Esplanade
		},
		{
			Name:        "New Town - Sealdah",
			Priority:    2,
			Origin:      Point{Lat: 22.5958, Lon: 88.4791}, // New Town
			Destination: Point{Lat: 22.5678, Lon: 88.3702}, // Sealdah
		},
		{
			Name:        "Barrackpore - Shyambazar",
			Priority:    3,
			Origin:      Point{Lat: 22.7642, Lon: 88.3776}, // Barrackpore
			Destination: Point{Lat: 22.6011, Lon: 88.3731}, // Shyambazar
		},
		{
			Name:        "Kharagpur - Howrah",
			Priority:    3,
			Origin:      Point{Lat: 22.3149, Lon: 87.3105}, // IIT Kharagpur
			Destination: Point{Lat: 22.5839, Lon: 88.3434}, // Howrah Station
		},
	}
}

// OrderedCorridors returns the corridors sorted by priority, highest first.
func (c ProbeConfig) OrderedCorridors() []Corridor {
	ordered := make([]Corridor, len(c.Corridors))
	copy(ordered, c.Corridors)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority < ordered[j].Priority
	})
	return ordered
}

// TotalCorridors returns the number of corridors to probe.
func (c ProbeConfig) TotalCorridors() int {
	return len(c.Corridors)
}
