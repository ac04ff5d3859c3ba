// Package googlemaps provides a Google Directions API routing provider.
package googlemaps

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/commutewise/commutewise/internal/provider/resilience"
	"github.com/commutewise/commutewise/internal/routing"
)

const (
	// ProviderName identifies this routing provider.
	ProviderName = "googlemaps"

	// DefaultBaseURL is the Google Maps Directions API base URL.
	DefaultBaseURL = "https://maps.googleapis.com/maps/api/directions"
)

// ClientConfig holds configuration for the Google Directions client.
type ClientConfig struct {
	// APIKey is the Google Maps API key (required).
	APIKey string

	// BaseURL is the API base URL (optional, defaults to the Google API).
	BaseURL string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client with defaults.
	HTTPClient *resilience.Client

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is a Google Directions API client.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *resilience.Client
	logger     zerolog.Logger
}

// NewClient creates a new Google Directions client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.DefaultClientConfig(ProviderName))
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// SupportedModes returns the travel modes this provider supports.
func (c *Client) SupportedModes() []routing.TravelMode {
	return []routing.TravelMode{routing.ModeDriving, routing.ModeTransit}
}

// GetRoute fetches the best route for a single travel mode.
func (c *Client) GetRoute(ctx context.Context, req routing.DirectionsRequest) (*routing.Route, error) {
	params := url.Values{}
	params.Set("origin", req.Origin.Location())
	params.Set("destination", req.Destination.Location())
	params.Set("mode", string(req.Mode))
	params.Set("key", c.apiKey)
	if req.DepartNow {
		// Required for duration_in_traffic estimates.
		params.Set("departure_time", "now")
	}

	endpoint := c.baseURL + "/json?" + params.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", routing.ErrProviderUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d: %w", resp.StatusCode, routing.ErrProviderUnavailable)
	}

	var directions directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&directions); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	switch directions.Status {
	case "OK":
		// Continue below.
	case "ZERO_RESULTS", "NOT_FOUND":
		return nil, routing.ErrNoRouteFound
	case "OVER_QUERY_LIMIT", "OVER_DAILY_LIMIT":
		return nil, routing.ErrRateLimitExceeded
	default:
		return nil, &routing.Error{
			Provider: ProviderName,
			Code:     directions.Status,
			Message:  directions.ErrorMessage,
			Err:      routing.ErrProviderUnavailable,
		}
	}

	if len(directions.Routes) == 0 || len(directions.Routes[0].Legs) == 0 {
		return nil, routing.ErrNoRouteFound
	}

	return c.toRoute(&directions), nil
}

// toRoute converts a Directions API response to the domain model.
// Only the first leg of the first route matters for a point-to-point commute.
func (c *Client) toRoute(resp *directionsResponse) *routing.Route {
	apiRoute := resp.Routes[0]
	leg := apiRoute.Legs[0]

	route := &routing.Route{
		DurationSeconds:  leg.Duration.Value,
		DistanceMeters:   leg.Distance.Value,
		Summary:          apiRoute.Summary,
		GeometryPolyline: apiRoute.OverviewPolyline.Points,
		Provider:         ProviderName,
		FetchedAt:        time.Now(),
	}

	if leg.DurationInTraffic != nil {
		seconds := leg.DurationInTraffic.Value
		route.DurationInTrafficSeconds = &seconds
	}

	return route
}

// Google Directions API response structures.

type directionsResponse struct {
	Status       string     `json:"status"`
	ErrorMessage string     `json:"error_message"`
	Routes       []apiRoute `json:"routes"`
}

type apiRoute struct {
	Summary          string `json:"summary"`
	Legs             []leg  `json:"legs"`
	OverviewPolyline struct {
		Points string `json:"points"`
	} `json:"overview_polyline"`
}

type leg struct {
	Duration          textValue  `json:"duration"`
	DurationInTraffic *textValue `json:"duration_in_traffic"`
	Distance          textValue  `json:"distance"`
}

type textValue struct {
	Text  string `json:"text"`
	Value int    `json:"value"`
}
