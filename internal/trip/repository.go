package trip

import "context"

// ListOptions contains options for listing trips.
type ListOptions struct {
	Limit  int
	Cursor string
}

// ListResult contains the results of listing trips.
type ListResult struct {
	Items      []*Trip
	NextCursor string
}

// Repository defines the interface for trip data persistence.
type Repository interface {
	// Get retrieves a trip by ID.
	Get(ctx context.Context, id string) (*Trip, error)

	// GetByOwnerAndID retrieves a trip by owner ID and trip ID.
	// Returns ErrTripNotFound if the trip doesn't exist or doesn't belong to the owner.
	GetByOwnerAndID(ctx context.Context, ownerID, tripID string) (*Trip, error)

	// List retrieves all trips for an owner with pagination.
	List(ctx context.Context, ownerID string, opts ListOptions) (*ListResult, error)

	// Create creates a new trip.
	Create(ctx context.Context, trip *Trip) error

	// Update updates an existing trip.
	Update(ctx context.Context, trip *Trip) error

	// Delete deletes a trip by ID.
	Delete(ctx context.Context, id string) error
}
