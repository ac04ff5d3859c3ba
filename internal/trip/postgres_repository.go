package trip

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL trip repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Get retrieves a trip by ID.
func (r *PostgresRepository) Get(ctx context.Context, id string) (*Trip, error) {
	query := `
		SELECT
			id, owner_id, label,
			origin_lat, origin_lon, origin_address,
			destination_lat, destination_lon, destination_address,
			days_of_week, departure_time_local, notes,
			created_at, updated_at
		FROM trips
		WHERE id = $1
	`

	return r.scanTrip(ctx, query, id)
}

// GetByOwnerAndID retrieves a trip by owner ID and trip ID.
func (r *PostgresRepository) GetByOwnerAndID(ctx context.Context, ownerID, tripID string) (*Trip, error) {
	query := `
		SELECT
			id, owner_id, label,
			origin_lat, origin_lon, origin_address,
			destination_lat, destination_lon, destination_address,
			days_of_week, departure_time_local, notes,
			created_at, updated_at
		FROM trips
		WHERE id = $1 AND owner_id = $2
	`

	return r.scanTrip(ctx, query, tripID, ownerID)
}

// scanTrip scans a trip from a query result.
func (r *PostgresRepository) scanTrip(ctx context.Context, query string, args ...interface{}) (*Trip, error) {
	var trip Trip

	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&trip.ID,
		&trip.OwnerID,
		&trip.Label,
		&trip.Origin.Point.Lat,
		&trip.Origin.Point.Lon,
		&trip.Origin.Address,
		&trip.Destination.Point.Lat,
		&trip.Destination.Point.Lon,
		&trip.Destination.Address,
		&trip.DaysOfWeek,
		&trip.DepartureTimeLocal,
		&trip.Notes,
		&trip.CreatedAt,
		&trip.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTripNotFound
		}
		return nil, err
	}

	return &trip, nil
}

// List retrieves all trips for an owner with pagination.
func (r *PostgresRepository) List(ctx context.Context, ownerID string, opts ListOptions) (*ListResult, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	// Fetch one extra to determine if there are more results
	fetchLimit := limit + 1

	query := `
		SELECT
			id, owner_id, label,
			origin_lat, origin_lon, origin_address,
			destination_lat, destination_lon, destination_address,
			days_of_week, departure_time_local, notes,
			created_at, updated_at
		FROM trips
		WHERE owner_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, ownerID, fetchLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trips []*Trip
	for rows.Next() {
		var trip Trip
		err := rows.Scan(
			&trip.ID,
			&trip.OwnerID,
			&trip.Label,
			&trip.Origin.Point.Lat,
			&trip.Origin.Point.Lon,
			&trip.Origin.Address,
			&trip.Destination.Point.Lat,
			&trip.Destination.Point.Lon,
			&trip.Destination.Address,
			&trip.DaysOfWeek,
			&trip.DepartureTimeLocal,
			&trip.Notes,
			&trip.CreatedAt,
			&trip.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		trips = append(trips, &trip)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	result := &ListResult{
		Items: trips,
	}

	// If we got more results than the limit, there are more pages
	if len(trips) > limit {
		result.Items = trips[:limit]
		// Use the last item's ID as the cursor for the next page
		result.NextCursor = trips[limit-1].ID
	}

	return result, nil
}

// Create creates a new trip.
func (r *PostgresRepository) Create(ctx context.Context, trip *Trip) error {
	query := `
		INSERT INTO trips (
			id, owner_id, label,
			origin_lat, origin_lon, origin_address,
			destination_lat, destination_lon, destination_address,
			days_of_week, departure_time_local, notes,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.pool.Exec(ctx, query,
		trip.ID,
		trip.OwnerID,
		trip.Label,
		trip.Origin.Point.Lat,
		trip.Origin.Point.Lon,
		trip.Origin.Address,
		trip.Destination.Point.Lat,
		trip.Destination.Point.Lon,
		trip.Destination.Address,
		trip.DaysOfWeek,
		trip.DepartureTimeLocal,
		trip.Notes,
		trip.CreatedAt,
		trip.UpdatedAt,
	)
	return err
}

// Update updates an existing trip.
func (r *PostgresRepository) Update(ctx context.Context, trip *Trip) error {
	query := `
		UPDATE trips SET
			label = $2,
			origin_lat = $3,
			origin_lon = $4,
			origin_address = $5,
			destination_lat = $6,
			destination_lon = $7,
			destination_address = $8,
			days_of_week = $9,
			departure_time_local = $10,
			notes = $11,
			updated_at = $12
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query,
		trip.ID,
		trip.Label,
		trip.Origin.Point.Lat,
		trip.Origin.Point.Lon,
		trip.Origin.Address,
		trip.Destination.Point.Lat,
		trip.Destination.Point.Lon,
		trip.Destination.Address,
		trip.DaysOfWeek,
		trip.DepartureTimeLocal,
		trip.Notes,
		trip.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return ErrTripNotFound
	}

	return nil
}

// Delete deletes a trip by ID.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM trips WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
