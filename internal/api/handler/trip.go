package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/commutewise/commutewise/internal/api/models"
	"github.com/commutewise/commutewise/internal/api/response"
	"github.com/commutewise/commutewise/internal/trip"
)

// TripHandler handles saved-trip endpoints.
type TripHandler struct {
	trips *trip.Service
}

// NewTripHandler creates a new TripHandler.
func NewTripHandler(trips *trip.Service) *TripHandler {
	return &TripHandler{trips: trips}
}

// List handles GET /v1/trips - list the client's saved trips.
func (h *TripHandler) List(w http.ResponseWriter, r *http.Request) {
	clientID := GetClientID(r.Context())

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 || parsed > 200 {
			response.BadRequest(w, r, "limit must be an integer between 1 and 200", nil)
			return
		}
		limit = parsed
	}

	result, err := h.trips.List(r.Context(), clientID, limit)
	if err != nil {
		response.InternalError(w, r, "failed to list trips")
		return
	}

	response.JSON(w, r, http.StatusOK, result)
}

// Create handles POST /v1/trips - save a new trip.
func (h *TripHandler) Create(w http.ResponseWriter, r *http.Request) {
	clientID := GetClientID(r.Context())

	var input models.TripCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	created, err := h.trips.Create(r.Context(), clientID, &input)
	if err != nil {
		var validationErr *trip.ValidationError
		if errors.As(err, &validationErr) {
			response.BadRequest(w, r, "invalid trip", validationErr.Errors)
			return
		}
		response.InternalError(w, r, "failed to create trip")
		return
	}

	response.Created(w, r, "/v1/trips/"+created.ID, created)
}

// Get handles GET /v1/trips/{tripId} - fetch one saved trip.
func (h *TripHandler) Get(w http.ResponseWriter, r *http.Request) {
	clientID := GetClientID(r.Context())
	tripID := chi.URLParam(r, "tripId")

	result, err := h.trips.Get(r.Context(), clientID, tripID)
	if err != nil {
		if errors.Is(err, trip.ErrTripNotFound) {
			response.NotFound(w, r, "trip not found")
			return
		}
		response.InternalError(w, r, "failed to get trip")
		return
	}

	response.JSON(w, r, http.StatusOK, result)
}

// Update handles PATCH /v1/trips/{tripId} - update a saved trip.
func (h *TripHandler) Update(w http.ResponseWriter, r *http.Request) {
	clientID := GetClientID(r.Context())
	tripID := chi.URLParam(r, "tripId")

	var input models.TripUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	updated, err := h.trips.Update(r.Context(), clientID, tripID, &input)
	if err != nil {
		if errors.Is(err, trip.ErrTripNotFound) {
			response.NotFound(w, r, "trip not found")
			return
		}
		var validationErr *trip.ValidationError
		if errors.As(err, &validationErr) {
			response.BadRequest(w, r, "invalid trip", validationErr.Errors)
			return
		}
		response.InternalError(w, r, "failed to update trip")
		return
	}

	response.JSON(w, r, http.StatusOK, updated)
}

// Delete handles DELETE /v1/trips/{tripId} - delete a saved trip.
func (h *TripHandler) Delete(w http.ResponseWriter, r *http.Request) {
	clientID := GetClientID(r.Context())
	tripID := chi.URLParam(r, "tripId")

	if err := h.trips.Delete(r.Context(), clientID, tripID); err != nil {
		if errors.Is(err, trip.ErrTripNotFound) {
			response.NotFound(w, r, "trip not found")
			return
		}
		response.InternalError(w, r, "failed to delete trip")
		return
	}

	response.NoContent(w, r)
}
