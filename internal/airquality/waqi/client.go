// Package waqi provides a World Air Quality Index (aqicn.org) provider.
package waqi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/commutewise/commutewise/internal/airquality"
	"github.com/commutewise/commutewise/internal/provider/resilience"
)

const (
	// ProviderName identifies this air-quality provider.
	ProviderName = "waqi"

	// DefaultBaseURL is the WAQI API base URL.
	DefaultBaseURL = "https://api.waqi.info"
)

// ClientConfig holds configuration for the WAQI client.
type ClientConfig struct {
	// Token is the WAQI API token (required).
	Token string

	// BaseURL is the API base URL (optional, defaults to the WAQI API).
	BaseURL string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client with defaults.
	HTTPClient *resilience.Client

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is a WAQI API client.
type Client struct {
	token      string
	baseURL    string
	httpClient *resilience.Client
	logger     zerolog.Logger
}

// NewClient creates a new WAQI client.
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
		token:      cfg.Token,
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// GetNearestReading fetches the latest reading from the station nearest the point.
func (c *Client) GetNearestReading(ctx context.Context, lat, lon float64) (*airquality.Reading, error) {
	url := fmt.Sprintf("%s/feed/geo:%.6f;%.6f/?token=%s", c.baseURL, lat, lon, c.token)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", airquality.ErrProviderUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d: %w", resp.StatusCode, airquality.ErrProviderUnavailable)
	}

	var feed feedResponse
	if err := json.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if feed.Status != "ok" {
		return nil, airquality.ErrNoStationFound
	}

	return c.toReading(&feed), nil
}

// toReading converts a WAQI feed response to the domain model.
func (c *Client) toReading(feed *feedResponse) *airquality.Reading {
	reading := &airquality.Reading{
		StationName: feed.Data.City.Name,
		FetchedAt:   time.Now(),
	}

	if len(feed.Data.City.Geo) >= 2 {
		reading.Lat = feed.Data.City.Geo[0]
		reading.Lon = feed.Data.City.Geo[1]
	}

	// The feed reports "-" instead of a number when the station has no
	// current index; that is absence, not zero.
	if aqi, ok := parseAQI(feed.Data.AQI); ok {
		reading.AQI = &aqi
	}

	if feed.Data.DominantPollutant != "" {
		pollutant := feed.Data.DominantPollutant
		reading.DominantPollutant = &pollutant
	}

	if feed.Data.Time.ISO != "" {
		if observed, err := time.Parse(time.RFC3339, feed.Data.Time.ISO); err == nil {
			reading.ObservedAt = observed
		}
	}

	return reading
}

// parseAQI handles the feed's loose typing: the index arrives as a JSON
// number or as a string, numeric or not.
func parseAQI(raw json.RawMessage) (int, bool) {
	if len(raw) == 0 {
		return 0, false
	}

	var number float64
	if err := json.Unmarshal(raw, &number); err == nil {
		return int(number), true
	}

	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		if value, err := strconv.Atoi(text); err == nil {
			return value, true
		}
	}

	return 0, false
}

// WAQI API response structures.

type feedResponse struct {
	Status string `json:"status"`
	Data   struct {
		AQI               json.RawMessage `json:"aqi"`
		DominantPollutant string          `json:"dominentpol"`
		City              struct {
			Name string    `json:"name"`
			Geo  []float64 `json:"geo"`
		} `json:"city"`
		Time struct {
			ISO string `json:"iso"`
		} `json:"time"`
	} `json:"data"`
}
