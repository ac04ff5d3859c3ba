package models

// TripLocation represents a location for a trip endpoint.
type TripLocation struct {
	Point   Point   `json:"point" validate:"required"`
	Address *string `json:"address,omitempty"`
}

// Trip represents a saved trip.
type Trip struct {
	ID                 string       `json:"id"`
	Label              string       `json:"label"`
	Origin             TripLocation `json:"origin"`
	Destination        TripLocation `json:"destination"`
	DaysOfWeek         []int        `json:"daysOfWeek"`
	DepartureTimeLocal string       `json:"departureTimeLocal"`
	Notes              *string      `json:"notes,omitempty"`
	CreatedAt          Timestamp    `json:"createdAt"`
	UpdatedAt          Timestamp    `json:"updatedAt"`
}

// TripCreateRequest is the request body for creating a trip.
type TripCreateRequest struct {
	Label              string       `json:"label" validate:"required,min=1,max=80"`
	Origin             TripLocation `json:"origin" validate:"required"`
	Destination        TripLocation `json:"destination" validate:"required"`
	DaysOfWeek         []int        `json:"daysOfWeek" validate:"required,dive,gte=1,lte=7"`
	DepartureTimeLocal string       `json:"departureTimeLocal" validate:"required,time_hhmm"`
	Notes              *string      `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// TripUpdateRequest is the request body for updating a trip.
type TripUpdateRequest struct {
	Label              *string       `json:"label,omitempty" validate:"omitempty,min=1,max=80"`
	Origin             *TripLocation `json:"origin,omitempty"`
	Destination        *TripLocation `json:"destination,omitempty"`
	DaysOfWeek         []int         `json:"daysOfWeek,omitempty" validate:"omitempty,dive,gte=1,lte=7"`
	DepartureTimeLocal *string       `json:"departureTimeLocal,omitempty" validate:"omitempty,time_hhmm"`
	Notes              *string       `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// PagedTrips represents a paginated list of trips.
type PagedTrips struct {
	Items []Trip            `json:"items"`
	Meta  PagedResponseMeta `json:"meta"`
}
