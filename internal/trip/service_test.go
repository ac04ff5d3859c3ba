package trip_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/commutewise/commutewise/internal/api/models"
	"github.com/commutewise/commutewise/internal/trip"
)

func TestService_Create(t *testing.T) {
	repo := trip.NewInMemoryRepository()
	service := trip.NewService(repo)
	ctx := context.Background()

	input := &models.TripCreateRequest{
		Label: "Campus to Howrah",
		Origin: models.TripLocation{
			Point: models.Point{Lat: 22.3149, Lon: 87.3105},
		},
		Destination: models.TripLocation{
			Point: models.Point{Lat: 22.5958, Lon: 88.2636},
		},
		DaysOfWeek:         []int{1, 2, 3, 4, 5},
		DepartureTimeLocal: "08:30",
	}

	result, err := service.Create(ctx, "client123", input)
	if err != nil {
		t.Fatalf("failed to create trip: %v", err)
	}

	if result.ID == "" {
		t.Error("expected trip ID to be set")
	}
	if !strings.HasPrefix(result.ID, "trp_") {
		t.Errorf("expected trip ID to start with 'trp_', got %q", result.ID)
	}
	if result.Label != input.Label {
		t.Errorf("expected label %q, got %q", input.Label, result.Label)
	}
}

func TestService_Create_ValidationErrors(t *testing.T) {
	repo := trip.NewInMemoryRepository()
	service := trip.NewService(repo)
	ctx := context.Background()

	tests := []struct {
		name      string
		input     *models.TripCreateRequest
		wantField string
	}{
		{
			name: "empty label",
			input: &models.TripCreateRequest{
				Label: "",
				Origin: models.TripLocation{
					Point: models.Point{Lat: 22.3, Lon: 87.3},
				},
				Destination: models.TripLocation{
					Point: models.Point{Lat: 22.6, Lon: 88.3},
				},
				DaysOfWeek:         []int{1},
				DepartureTimeLocal: "08:30",
			},
			wantField: "label",
		},
		{
			name: "label too long",
			input: &models.TripCreateRequest{
				Label: strings.Repeat("a", 81),
				Origin: models.TripLocation{
					Point: models.Point{Lat: 22.3, Lon: 87.3},
				},
				Destination: models.TripLocation{
					Point: models.Point{Lat: 22.6, Lon: 88.3},
				},
				DaysOfWeek:         []int{1},
				DepartureTimeLocal: "08:30",
			},
			wantField: "label",
		},
		{
			name: "invalid latitude",
			input: &models.TripCreateRequest{
				Label: "Test",
				Origin: models.TripLocation{
					Point: models.Point{Lat: 91.0, Lon: 87.3},
				},
				Destination: models.TripLocation{
					Point: models.Point{Lat: 22.6, Lon: 88.3},
				},
				DaysOfWeek:         []int{1},
				DepartureTimeLocal: "08:30",
			},
			wantField: "origin.point.lat",
		},
		{
			name: "invalid longitude",
			input: &models.TripCreateRequest{
				Label: "Test",
				Origin: models.TripLocation{
					Point: models.Point{Lat: 22.3, Lon: 181.0},
				},
				Destination: models.TripLocation{
					Point: models.Point{Lat: 22.6, Lon: 88.3},
				},
				DaysOfWeek:         []int{1},
				DepartureTimeLocal: "08:30",
			},
			wantField: "origin.point.lon",
		},
		{
			name: "empty days of week",
			input: &models.TripCreateRequest{
				Label: "Test",
				Origin: models.TripLocation{
					Point: models.Point{Lat: 22.3, Lon: 87.3},
				},
				Destination: models.TripLocation{
					Point: models.Point{Lat: 22.6, Lon: 88.3},
				},
				DaysOfWeek:         []int{},
				DepartureTimeLocal: "08:30",
			},
			wantField: "daysOfWeek",
		},
		{
			name: "invalid day of week",
			input: &models.TripCreateRequest{
				Label: "Test",
				Origin: models.TripLocation{
					Point: models.Point{Lat: 22.3, Lon: 87.3},
				},
				Destination: models.TripLocation{
					Point: models.Point{Lat: 22.6, Lon: 88.3},
				},
				DaysOfWeek:         []int{8},
				DepartureTimeLocal: "08:30",
			},
			wantField: "daysOfWeek",
		},
		{
			name: "invalid time format",
			input: &models.TripCreateRequest{
				Label: "Test",
				Origin: models.TripLocation{
					Point: models.Point{Lat: 22.3, Lon: 87.3},
				},
				Destination: models.TripLocation{
					Point: models.Point{Lat: 22.6, Lon: 88.3},
				},
				DaysOfWeek:         []int{1},
				DepartureTimeLocal: "8:30 AM",
			},
			wantField: "departureTimeLocal",
		},
		{
			name: "notes too long",
			input: &models.TripCreateRequest{
				Label: "Test",
				Origin: models.TripLocation{
					Point: models.Point{Lat: 22.3, Lon: 87.3},
				},
				Destination: models.TripLocation{
					Point: models.Point{Lat: 22.6, Lon: 88.3},
				},
				DaysOfWeek:         []int{1},
				DepartureTimeLocal: "08:30",
				Notes:              strPtr(strings.Repeat("a", 501)),
			},
			wantField: "notes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Create(ctx, "client123", tt.input)
			if err == nil {
				t.Fatal("expected validation error")
			}

			var validationErr *trip.ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("expected ValidationError, got %T", err)
			}

			found := false
			for _, fe := range validationErr.Errors {
				if fe.Field == tt.wantField {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("expected error for field %q, got errors: %v", tt.wantField, validationErr.Errors)
			}
		})
	}
}

func TestService_Get(t *testing.T) {
	repo := trip.NewInMemoryRepository()
	service := trip.NewService(repo)
	ctx := context.Background()

	input := &models.TripCreateRequest{
		Label: "Morning Commute",
		Origin: models.TripLocation{
			Point: models.Point{Lat: 22.3, Lon: 87.3},
		},
		Destination: models.TripLocation{
			Point: models.Point{Lat: 22.6, Lon: 88.3},
		},
		DaysOfWeek:         []int{1, 2, 3},
		DepartureTimeLocal: "08:30",
	}

	created, err := service.Create(ctx, "client123", input)
	if err != nil {
		t.Fatalf("failed to create trip: %v", err)
	}

	result, err := service.Get(ctx, "client123", created.ID)
	if err != nil {
		t.Fatalf("failed to get trip: %v", err)
	}

	if result.ID != created.ID {
		t.Errorf("expected ID %q, got %q", created.ID, result.ID)
	}
	if result.Label != input.Label {
		t.Errorf("expected label %q, got %q", input.Label, result.Label)
	}
}

func TestService_Get_NotFound(t *testing.T) {
	repo := trip.NewInMemoryRepository()
	service := trip.NewService(repo)
	ctx := context.Background()

	_, err := service.Get(ctx, "client123", "nonexistent")
	if !errors.Is(err, trip.ErrTripNotFound) {
		t.Errorf("expected ErrTripNotFound, got %v", err)
	}
}

func TestService_Get_WrongOwner(t *testing.T) {
	repo := trip.NewInMemoryRepository()
	service := trip.NewService(repo)
	ctx := context.Background()

	input := &models.TripCreateRequest{
		Label: "Test",
		Origin: models.TripLocation{
			Point: models.Point{Lat: 22.3, Lon: 87.3},
		},
		Destination: models.TripLocation{
			Point: models.Point{Lat: 22.6, Lon: 88.3},
		},
		DaysOfWeek:         []int{1},
		DepartureTimeLocal: "08:30",
	}

	created, err := service.Create(ctx, "client1", input)
	if err != nil {
		t.Fatalf("failed to create trip: %v", err)
	}

	_, err = service.Get(ctx, "client2", created.ID)
	if !errors.Is(err, trip.ErrTripNotFound) {
		t.Errorf("expected ErrTripNotFound for wrong owner, got %v", err)
	}
}

func TestService_List(t *testing.T) {
	repo := trip.NewInMemoryRepository()
	service := trip.NewService(repo)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		input := &models.TripCreateRequest{
			Label: "Trip " + string(rune('A'+i)),
			Origin: models.TripLocation{
				Point: models.Point{Lat: 22.3, Lon: 87.3},
			},
			Destination: models.TripLocation{
				Point: models.Point{Lat: 22.6, Lon: 88.3},
			},
			DaysOfWeek:         []int{1},
			DepartureTimeLocal: "08:30",
		}
		_, err := service.Create(ctx, "client123", input)
		if err != nil {
			t.Fatalf("failed to create trip: %v", err)
		}
	}

	result, err := service.List(ctx, "client123", 50)
	if err != nil {
		t.Fatalf("failed to list trips: %v", err)
	}

	if len(result.Items) != 3 {
		t.Errorf("expected 3 trips, got %d", len(result.Items))
	}
}

func TestService_List_OnlyOwnTrips(t *testing.T) {
	repo := trip.NewInMemoryRepository()
	service := trip.NewService(repo)
	ctx := context.Background()

	input := &models.TripCreateRequest{
		Label: "Test",
		Origin: models.TripLocation{
			Point: models.Point{Lat: 22.3, Lon: 87.3},
		},
		Destination: models.TripLocation{
			Point: models.Point{Lat: 22.6, Lon: 88.3},
		},
		DaysOfWeek:         []int{1},
		DepartureTimeLocal: "08:30",
	}

	_, _ = service.Create(ctx, "client1", input)
	_, _ = service.Create(ctx, "client1", input)
	_, _ = service.Create(ctx, "client2", input)

	result, err := service.List(ctx, "client1", 50)
	if err != nil {
		t.Fatalf("failed to list trips: %v", err)
	}

	if len(result.Items) != 2 {
		t.Errorf("expected 2 trips for client1, got %d", len(result.Items))
	}
}

func TestService_Update(t *testing.T) {
	repo := trip.NewInMemoryRepository()
	service := trip.NewService(repo)
	ctx := context.Background()

	input := &models.TripCreateRequest{
		Label: "Original",
		Origin: models.TripLocation{
			Point: models.Point{Lat: 22.3, Lon: 87.3},
		},
		Destination: models.TripLocation{
			Point: models.Point{Lat: 22.6, Lon: 88.3},
		},
		DaysOfWeek:         []int{1, 2, 3},
		DepartureTimeLocal: "08:30",
	}

	created, err := service.Create(ctx, "client123", input)
	if err != nil {
		t.Fatalf("failed to create trip: %v", err)
	}

	newLabel := "Updated"
	updateInput := &models.TripUpdateRequest{
		Label: &newLabel,
	}

	updated, err := service.Update(ctx, "client123", created.ID, updateInput)
	if err != nil {
		t.Fatalf("failed to update trip: %v", err)
	}

	if updated.Label != newLabel {
		t.Errorf("expected label %q, got %q", newLabel, updated.Label)
	}

	// Verify other fields unchanged
	if updated.DepartureTimeLocal != input.DepartureTimeLocal {
		t.Errorf("expected time %q unchanged, got %q", input.DepartureTimeLocal, updated.DepartureTimeLocal)
	}
}

func TestService_Update_NotFound(t *testing.T) {
	repo := trip.NewInMemoryRepository()
	service := trip.NewService(repo)
	ctx := context.Background()

	newLabel := "Updated"
	updateInput := &models.TripUpdateRequest{
		Label: &newLabel,
	}

	_, err := service.Update(ctx, "client123", "nonexistent", updateInput)
	if !errors.Is(err, trip.ErrTripNotFound) {
		t.Errorf("expected ErrTripNotFound, got %v", err)
	}
}

func TestService_Delete(t *testing.T) {
	repo := trip.NewInMemoryRepository()
	service := trip.NewService(repo)
	ctx := context.Background()

	input := &models.TripCreateRequest{
		Label: "To Delete",
		Origin: models.TripLocation{
			Point: models.Point{Lat: 22.3, Lon: 87.3},
		},
		Destination: models.TripLocation{
			Point: models.Point{Lat: 22.6, Lon: 88.3},
		},
		DaysOfWeek:         []int{1},
		DepartureTimeLocal: "08:30",
	}

	created, err := service.Create(ctx, "client123", input)
	if err != nil {
		t.Fatalf("failed to create trip: %v", err)
	}

	err = service.Delete(ctx, "client123", created.ID)
	if err != nil {
		t.Fatalf("failed to delete trip: %v", err)
	}

	_, err = service.Get(ctx, "client123", created.ID)
	if !errors.Is(err, trip.ErrTripNotFound) {
		t.Errorf("expected ErrTripNotFound after delete, got %v", err)
	}
}

func TestService_Delete_WrongOwner(t *testing.T) {
	repo := trip.NewInMemoryRepository()
	service := trip.NewService(repo)
	ctx := context.Background()

	input := &models.TripCreateRequest{
		Label: "Test",
		Origin: models.TripLocation{
			Point: models.Point{Lat: 22.3, Lon: 87.3},
		},
		Destination: models.TripLocation{
			Point: models.Point{Lat: 22.6, Lon: 88.3},
		},
		DaysOfWeek:         []int{1},
		DepartureTimeLocal: "08:30",
	}

	created, err := service.Create(ctx, "client1", input)
	if err != nil {
		t.Fatalf("failed to create trip: %v", err)
	}

	err = service.Delete(ctx, "client2", created.ID)
	if !errors.Is(err, trip.ErrTripNotFound) {
		t.Errorf("expected ErrTripNotFound for wrong owner, got %v", err)
	}
}

func TestService_ValidTimeFormats(t *testing.T) {
	repo := trip.NewInMemoryRepository()
	service := trip.NewService(repo)
	ctx := context.Background()

	validTimes := []string{
		"00:00",
		"08:30",
		"12:30",
		"23:59",
		"9:00", // Single digit hour should be valid
	}

	for _, departure := range validTimes {
		t.Run(departure, func(t *testing.T) {
			input := &models.TripCreateRequest{
				Label: "Test",
				Origin: models.TripLocation{
					Point: models.Point{Lat: 22.3, Lon: 87.3},
				},
				Destination: models.TripLocation{
					Point: models.Point{Lat: 22.6, Lon: 88.3},
				},
				DaysOfWeek:         []int{1},
				DepartureTimeLocal: departure,
			}

			_, err := service.Create(ctx, "client123", input)
			if err != nil {
				t.Errorf("expected time %q to be valid, got error: %v", departure, err)
			}
		})
	}
}

func strPtr(s string) *string {
	return &s
}
