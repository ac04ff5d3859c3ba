// Package trip provides saved-trip management services.
package trip

import (
	"errors"
	"time"
)

// Repository errors.
var (
	ErrTripNotFound = errors.New("trip not found")
)

// Trip represents a saved trip.
type Trip struct {
	ID                 string
	OwnerID            string
	Label              string
	Origin             Location
	Destination        Location
	DaysOfWeek         []int
	DepartureTimeLocal string
	Notes              *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Location represents a geographic location.
type Location struct {
	Point   Point
	Address *string
}

// Point represents a geographic point.
type Point struct {
	Lat float64
	Lon float64
}
