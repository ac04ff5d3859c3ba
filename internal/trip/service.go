package trip

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/commutewise/commutewise/internal/api/models"
)

// Validation constants.
const (
	MaxLabelLength = 80
	MaxNotesLength = 500
)

// timeHHMMRegex validates HH:mm format.
var timeHHMMRegex = regexp.MustCompile(`^([01]?\d|2[0-3]):[0-5]\d$`)

// Service provides trip operations. Trips are scoped to the owning client;
// a trip is invisible to every other client ID.
type Service struct {
	repo Repository
}

// NewService creates a new trip service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List retrieves all trips for an owner.
func (s *Service) List(ctx context.Context, ownerID string, limit int) (*models.PagedTrips, error) {
	result, err := s.repo.List(ctx, ownerID, ListOptions{Limit: limit})
	if err != nil {
		return nil, err
	}

	items := make([]models.Trip, 0, len(result.Items))
	for _, t := range result.Items {
		items = append(items, s.toAPITrip(t))
	}

	var nextCursor *string
	if result.NextCursor != "" {
		nextCursor = &result.NextCursor
	}

	return &models.PagedTrips{
		Items: items,
		Meta: models.PagedResponseMeta{
			Limit:      limit,
			NextCursor: nextCursor,
		},
	}, nil
}

// Get retrieves a trip by ID for an owner.
func (s *Service) Get(ctx context.Context, ownerID, tripID string) (*models.Trip, error) {
	trip, err := s.repo.GetByOwnerAndID(ctx, ownerID, tripID)
	if err != nil {
		if errors.Is(err, ErrTripNotFound) {
			return nil, ErrTripNotFound
		}
		return nil, err
	}

	result := s.toAPITrip(trip)
	return &result, nil
}

// GetDomain retrieves a trip by ID for an owner as the domain model.
func (s *Service) GetDomain(ctx context.Context, ownerID, tripID string) (*Trip, error) {
	return s.repo.GetByOwnerAndID(ctx, ownerID, tripID)
}

// Create creates a new trip for an owner.
func (s *Service) Create(ctx context.Context, ownerID string, input *models.TripCreateRequest) (*models.Trip, error) {
	if fieldErrors := s.validateCreateInput(input); len(fieldErrors) > 0 {
		return nil, &ValidationError{Errors: fieldErrors}
	}

	now := time.Now()
	tripID := "trp_" + uuid.New().String()[:22]

	trip := &Trip{
		ID:      tripID,
		OwnerID: ownerID,
		Label:   input.Label,
		Origin: Location{
			Point:   Point{Lat: input.Origin.Point.Lat, Lon: input.Origin.Point.Lon},
			Address: input.Origin.Address,
		},
		Destination: Location{
			Point:   Point{Lat: input.Destination.Point.Lat, Lon: input.Destination.Point.Lon},
			Address: input.Destination.Address,
		},
		DaysOfWeek:         input.DaysOfWeek,
		DepartureTimeLocal: input.DepartureTimeLocal,
		Notes:              input.Notes,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.repo.Create(ctx, trip); err != nil {
		return nil, err
	}

	result := s.toAPITrip(trip)
	return &result, nil
}

// Update updates an existing trip for an owner.
func (s *Service) Update(ctx context.Context, ownerID, tripID string, input *models.TripUpdateRequest) (*models.Trip, error) {
	trip, err := s.repo.GetByOwnerAndID(ctx, ownerID, tripID)
	if err != nil {
		if errors.Is(err, ErrTripNotFound) {
			return nil, ErrTripNotFound
		}
		return nil, err
	}

	if fieldErrors := s.validateUpdateInput(input); len(fieldErrors) > 0 {
		return nil, &ValidationError{Errors: fieldErrors}
	}

	if input.Label != nil {
		trip.Label = *input.Label
	}
	if input.Origin != nil {
		trip.Origin = Location{
			Point:   Point{Lat: input.Origin.Point.Lat, Lon: input.Origin.Point.Lon},
			Address: input.Origin.Address,
		}
	}
	if input.Destination != nil {
		trip.Destination = Location{
			Point:   Point{Lat: input.Destination.Point.Lat, Lon: input.Destination.Point.Lon},
			Address: input.Destination.Address,
		}
	}
	if input.DaysOfWeek != nil {
		trip.DaysOfWeek = input.DaysOfWeek
	}
	if input.DepartureTimeLocal != nil {
		trip.DepartureTimeLocal = *input.DepartureTimeLocal
	}
	if input.Notes != nil {
		trip.Notes = input.Notes
	}
	trip.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, trip); err != nil {
		return nil, err
	}

	result := s.toAPITrip(trip)
	return &result, nil
}

// Delete deletes a trip for an owner.
func (s *Service) Delete(ctx context.Context, ownerID, tripID string) error {
	// Verify ownership
	_, err := s.repo.GetByOwnerAndID(ctx, ownerID, tripID)
	if err != nil {
		if errors.Is(err, ErrTripNotFound) {
			return ErrTripNotFound
		}
		return err
	}

	return s.repo.Delete(ctx, tripID)
}

// validateCreateInput validates the create trip input.
func (s *Service) validateCreateInput(input *models.TripCreateRequest) []models.FieldError {
	var errs []models.FieldError

	if input.Label == "" {
		errs = append(errs, models.FieldError{Field: "label", Message: "is required"})
	} else if len(input.Label) > MaxLabelLength {
		errs = append(errs, models.FieldError{Field: "label", Message: "must be at most 80 characters"})
	}

	errs = append(errs, s.validateLocation(&input.Origin, "origin")...)
	errs = append(errs, s.validateLocation(&input.Destination, "destination")...)

	if len(input.DaysOfWeek) == 0 {
		errs = append(errs, models.FieldError{Field: "daysOfWeek", Message: "is required"})
	} else {
		for _, day := range input.DaysOfWeek {
			if day < 1 || day > 7 {
				errs = append(errs, models.FieldError{Field: "daysOfWeek", Message: "must contain values between 1 and 7"})
				break
			}
		}
	}

	if input.DepartureTimeLocal == "" {
		errs = append(errs, models.FieldError{Field: "departureTimeLocal", Message: "is required"})
	} else if !timeHHMMRegex.MatchString(input.DepartureTimeLocal) {
		errs = append(errs, models.FieldError{Field: "departureTimeLocal", Message: "must be in HH:mm format"})
	}

	if input.Notes != nil && len(*input.Notes) > MaxNotesLength {
		errs = append(errs, models.FieldError{Field: "notes", Message: "must be at most 500 characters"})
	}

	return errs
}

// validateUpdateInput validates the update trip input.
func (s *Service) validateUpdateInput(input *models.TripUpdateRequest) []models.FieldError {
	var errs []models.FieldError

	if input.Label != nil {
		errs = append(errs, s.validateOptionalLabel(*input.Label)...)
	}

	if input.Origin != nil {
		errs = append(errs, s.validateLocation(input.Origin, "origin")...)
	}

	if input.Destination != nil {
		errs = append(errs, s.validateLocation(input.Destination, "destination")...)
	}

	if input.DaysOfWeek != nil {
		errs = append(errs, s.validateDaysOfWeek(input.DaysOfWeek)...)
	}

	if input.DepartureTimeLocal != nil {
		errs = append(errs, s.validateOptionalDepartureTime(*input.DepartureTimeLocal)...)
	}

	if input.Notes != nil && len(*input.Notes) > MaxNotesLength {
		errs = append(errs, models.FieldError{Field: "notes", Message: "must be at most 500 characters"})
	}

	return errs
}

// validateOptionalLabel validates an optional label field (for updates).
func (s *Service) validateOptionalLabel(label string) []models.FieldError {
	if label == "" {
		return []models.FieldError{{Field: "label", Message: "cannot be empty"}}
	}
	if len(label) > MaxLabelLength {
		return []models.FieldError{{Field: "label", Message: "must be at most 80 characters"}}
	}
	return nil
}

// validateDaysOfWeek validates a days of week array (for updates).
func (s *Service) validateDaysOfWeek(days []int) []models.FieldError {
	if len(days) == 0 {
		return []models.FieldError{{Field: "daysOfWeek", Message: "cannot be empty"}}
	}
	for _, day := range days {
		if day < 1 || day > 7 {
			return []models.FieldError{{Field: "daysOfWeek", Message: "must contain values between 1 and 7"}}
		}
	}
	return nil
}

// validateOptionalDepartureTime validates an optional departure time (for updates).
func (s *Service) validateOptionalDepartureTime(departureTime string) []models.FieldError {
	if departureTime == "" {
		return []models.FieldError{{Field: "departureTimeLocal", Message: "cannot be empty"}}
	}
	if !timeHHMMRegex.MatchString(departureTime) {
		return []models.FieldError{{Field: "departureTimeLocal", Message: "must be in HH:mm format"}}
	}
	return nil
}

// validateLocation validates a trip location.
func (s *Service) validateLocation(loc *models.TripLocation, prefix string) []models.FieldError {
	var errs []models.FieldError

	if loc.Point.Lat < -90 || loc.Point.Lat > 90 {
		errs = append(errs, models.FieldError{
			Field:   prefix + ".point.lat",
			Message: "must be between -90 and 90",
		})
	}

	if loc.Point.Lon < -180 || loc.Point.Lon > 180 {
		errs = append(errs, models.FieldError{
			Field:   prefix + ".point.lon",
			Message: "must be between -180 and 180",
		})
	}

	return errs
}

// toAPITrip converts a domain Trip to an API Trip.
func (s *Service) toAPITrip(t *Trip) models.Trip {
	return models.Trip{
		ID:    t.ID,
		Label: t.Label,
		Origin: models.TripLocation{
			Point:   models.Point{Lat: t.Origin.Point.Lat, Lon: t.Origin.Point.Lon},
			Address: t.Origin.Address,
		},
		Destination: models.TripLocation{
			Point:   models.Point{Lat: t.Destination.Point.Lat, Lon: t.Destination.Point.Lon},
			Address: t.Destination.Address,
		},
		DaysOfWeek:         t.DaysOfWeek,
		DepartureTimeLocal: t.DepartureTimeLocal,
		Notes:              t.Notes,
		CreatedAt:          models.Timestamp(t.CreatedAt),
		UpdatedAt:          models.Timestamp(t.UpdatedAt),
	}
}

// ValidationError represents validation errors.
type ValidationError struct {
	Errors []models.FieldError
}

func (e *ValidationError) Error() string {
	return "validation failed"
}
