package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/commutewise/commutewise/internal/api/models"
	"github.com/commutewise/commutewise/internal/api/response"
	"github.com/commutewise/commutewise/internal/briefing"
	"github.com/commutewise/commutewise/internal/routing"
	"github.com/commutewise/commutewise/internal/trip"
)

// AdviceHandler handles advice computation endpoints.
type AdviceHandler struct {
	briefings *briefing.Service
	trips     *trip.Service
}

// NewAdviceHandler creates a new AdviceHandler.
func NewAdviceHandler(briefings *briefing.Service, trips *trip.Service) *AdviceHandler {
	return &AdviceHandler{
		briefings: briefings,
		trips:     trips,
	}
}

// Compute handles POST /v1/advice:compute - compute a commute briefing.
func (h *AdviceHandler) Compute(w http.ResponseWriter, r *http.Request) {
	var input models.AdviceComputeRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	req, fieldErrors := h.resolveRequest(w, r, &input)
	if len(fieldErrors) > 0 {
		response.BadRequest(w, r, "invalid advice request", fieldErrors)
		return
	}
	if req == nil {
		// resolveRequest already wrote the response
		return
	}

	result, err := h.briefings.Compute(r.Context(), *req)
	if err != nil {
		if errors.Is(err, briefing.ErrInvalidRequest) {
			response.BadRequest(w, r, "origin and destination are required", nil)
			return
		}
		response.InternalError(w, r, "failed to compute advice")
		return
	}

	response.JSON(w, r, http.StatusOK, toAdviceResponse(result))
}

// resolveRequest turns the request body into a briefing request, resolving a
// saved trip when one is referenced. A nil request with no field errors means
// an error response has already been written.
func (h *AdviceHandler) resolveRequest(w http.ResponseWriter, r *http.Request, input *models.AdviceComputeRequest) (*briefing.Request, []models.FieldError) {
	if input.TripID != nil {
		clientID := GetClientID(r.Context())

		saved, err := h.trips.GetDomain(r.Context(), clientID, *input.TripID)
		if err != nil {
			if errors.Is(err, trip.ErrTripNotFound) {
				response.NotFound(w, r, "trip not found")
				return nil, nil
			}
			response.InternalError(w, r, "failed to load trip")
			return nil, nil
		}

		return &briefing.Request{
			Origin: briefing.Endpoint{
				Point: &routing.Coordinate{Lat: saved.Origin.Point.Lat, Lon: saved.Origin.Point.Lon},
			},
			Destination: briefing.Endpoint{
				Point: &routing.Coordinate{Lat: saved.Destination.Point.Lat, Lon: saved.Destination.Point.Lon},
			},
		}, nil
	}

	var fieldErrors []models.FieldError

	origin, errs := toEndpoint(input.Origin, "origin")
	fieldErrors = append(fieldErrors, errs...)

	destination, errs := toEndpoint(input.Destination, "destination")
	fieldErrors = append(fieldErrors, errs...)

	if len(fieldErrors) > 0 {
		return nil, fieldErrors
	}

	return &briefing.Request{Origin: origin, Destination: destination}, nil
}

// toEndpoint converts an API endpoint to a briefing endpoint.
func toEndpoint(e *models.AdviceEndpoint, field string) (briefing.Endpoint, []models.FieldError) {
	if e == nil {
		return briefing.Endpoint{}, []models.FieldError{
			{Field: field, Message: "is required when tripId is not provided"},
		}
	}

	if e.Point != nil {
		if e.Point.Lat < -90 || e.Point.Lat > 90 {
			return briefing.Endpoint{}, []models.FieldError{
				{Field: field + ".point.lat", Message: "must be between -90 and 90"},
			}
		}
		if e.Point.Lon < -180 || e.Point.Lon > 180 {
			return briefing.Endpoint{}, []models.FieldError{
				{Field: field + ".point.lon", Message: "must be between -180 and 180"},
			}
		}
		return briefing.Endpoint{
			Point: &routing.Coordinate{Lat: e.Point.Lat, Lon: e.Point.Lon},
		}, nil
	}

	if e.Query != nil && *e.Query != "" {
		return briefing.Endpoint{Query: *e.Query}, nil
	}

	return briefing.Endpoint{}, []models.FieldError{
		{Field: field, Message: "must contain a point or a query"},
	}
}

// toAdviceResponse converts a briefing to the API response model.
func toAdviceResponse(b *briefing.Briefing) models.AdviceResponse {
	resp := models.AdviceResponse{
		ID:          b.ID,
		GeneratedAt: models.Timestamp(b.GeneratedAt),
		Recommendation: models.Recommendation{
			Mode:      models.Mode(b.Recommendation.Mode),
			Rationale: b.Recommendation.Rationale,
		},
		Sources: models.SourceAvailability{
			Routing:    b.Sources.Routing,
			AirQuality: b.Sources.AirQuality,
			Weather:    b.Sources.Weather,
		},
	}

	if b.Recommendation.Delay != nil {
		delay := models.DelaySeverity(*b.Recommendation.Delay)
		resp.Recommendation.Delay = &delay
	}

	if travel := b.Report.Travel; travel != nil {
		section := &models.TravelReport{
			DrivingSeconds:          travel.DrivingSeconds,
			DrivingInTrafficSeconds: travel.DrivingInTrafficSeconds,
			TransitSeconds:          travel.TransitSeconds,
		}
		if travel.Delay != nil {
			delay := models.DelaySeverity(*travel.Delay)
			section.Delay = &delay
		}
		resp.Report.Travel = section
	}

	if air := b.Report.AirQuality; air != nil {
		resp.Report.AirQuality = &models.AirQualityReport{
			AQI:               air.AQI,
			DominantPollutant: air.DominantPollutant,
		}
	}

	if weather := b.Report.Weather; weather != nil {
		section := &models.WeatherReport{
			TemperatureCelsius: weather.TemperatureCelsius,
			Summary:            weather.Summary,
		}
		for _, h := range weather.Hourly {
			section.Hourly = append(section.Hourly, models.HourlyConditions{
				Time:               models.Timestamp(h.Time),
				TemperatureCelsius: h.TemperatureCelsius,
				RainProbability:    h.RainProbability,
			})
		}
		resp.Report.Weather = section
	}

	return resp
}
