package openweather

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/localpulse/dashboard-service/internal/domain"
	"github.com/localpulse/dashboard-service/internal/observability"
)

// iconByMain maps OpenWeather's categorical main-type to a display glyph.
// This table is the only place icon selection happens.
var iconByMain = map[string]string{
	"Clear":        "☀️",
	"Clouds":       "☁️",
	"Rain":         "🌧️",
	"Drizzle":      "🌦️",
	"Thunderstorm": "⛈️",
	"Snow":         "❄️",
	"Mist":         "🌫️",
	"Fog":          "🌫️",
}

// defaultIcon is the partly-cloudy fallback for unmapped categories.
const defaultIcon = "🌤️"

// Client implements domain.WeatherProvider and domain.Geocoder using the
// OpenWeather current-conditions and direct-geocoding APIs.
type Client struct {
	apiKey     string
	weatherURL string
	geocodeURL string
	http       *resty.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates an OpenWeather client. An empty apiKey is allowed: every
// weather call then degrades to the mock snapshot and every geocode call to
// zero matches.
func NewClient(apiKey, weatherURL, geocodeURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	httpClient := resty.New().
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond)

	return &Client{
		apiKey:     apiKey,
		weatherURL: weatherURL,
		geocodeURL: geocodeURL,
		http:       httpClient,
		metrics:    metrics,
		logger:     logger,
	}
}

// MockSnapshot is the deterministic fallback returned whenever live weather
// is unavailable, stamped with the current clock time.
func MockSnapshot() domain.WeatherSnapshot {
	return domain.WeatherSnapshot{
		Temperature:  72,
		Condition:    "Partly Cloudy",
		Humidity:     65,
		WindSpeed:    8,
		Icon:         "⛅",
		UpdatedAt:    domain.Now().UnixMilli(),
		LocationName: "Current Location",
	}
}

type currentResponse struct {
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Dt   int64  `json:"dt"` // unix seconds
	Name string `json:"name"`
	Sys  struct {
		Country string `json:"country"`
	} `json:"sys"`
}

// Current fetches current conditions in imperial units. It never fails its
// caller: missing credentials, network errors, and non-2xx responses all
// degrade to the mock snapshot.
func (c *Client) Current(ctx context.Context, lat, lng float64) (domain.WeatherSnapshot, error) {
	if c.apiKey == "" {
		c.logger.Warn("weather API key not configured, using mock data")
		c.metrics.ProviderRequests.WithLabelValues("weather", "fallback").Inc()
		return MockSnapshot(), nil
	}

	start := time.Now()
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"lat":   fmt.Sprintf("%f", lat),
			"lon":   fmt.Sprintf("%f", lng),
			"appid": c.apiKey,
			"units": "imperial",
		}).
		Get(c.weatherURL + "/weather")
	c.metrics.ProviderDuration.WithLabelValues("weather").Observe(time.Since(start).Seconds())

	if err != nil {
		c.logger.Warn("weather request failed, using mock data", "lat", lat, "lng", lng, "error", err)
		c.metrics.ProviderRequests.WithLabelValues("weather", "fallback").Inc()
		return MockSnapshot(), nil
	}
	if !resp.IsSuccess() {
		c.logger.Warn("weather request rejected, using mock data", "status", resp.StatusCode())
		c.metrics.ProviderRequests.WithLabelValues("weather", "fallback").Inc()
		return MockSnapshot(), nil
	}

	var data currentResponse
	if err := json.Unmarshal(resp.Body(), &data); err != nil {
		c.logger.Warn("weather response malformed, using mock data", "error", err)
		c.metrics.ProviderRequests.WithLabelValues("weather", "fallback").Inc()
		return MockSnapshot(), nil
	}

	c.metrics.ProviderRequests.WithLabelValues("weather", "success").Inc()
	return snapshotFromResponse(data), nil
}

func snapshotFromResponse(data currentResponse) domain.WeatherSnapshot {
	condition := "—"
	main := ""
	if len(data.Weather) > 0 {
		condition = data.Weather[0].Description
		main = data.Weather[0].Main
	}

	updatedAt := domain.Now().UnixMilli()
	if data.Dt > 0 {
		updatedAt = data.Dt * 1000
	}

	name := data.Name
	if name == "" {
		name = "Current Location"
	}

	return domain.WeatherSnapshot{
		Temperature:  int(math.Round(data.Main.Temp)),
		Condition:    condition,
		Humidity:     data.Main.Humidity,
		WindSpeed:    int(math.Round(data.Wind.Speed)),
		Icon:         iconFor(main),
		UpdatedAt:    updatedAt,
		LocationName: name,
		CountryCode:  data.Sys.Country,
	}
}

func iconFor(main string) string {
	if icon, ok := iconByMain[main]; ok {
		return icon
	}
	return defaultIcon
}

type geoResult struct {
	Name    string  `json:"name"`
	State   string  `json:"state"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// Search resolves a free-text query to up to five candidate locations,
// provider ranking preserved. Failures and zero matches both yield an empty
// slice — the caller decides whether that is a user-facing "not found".
func (c *Client) Search(ctx context.Context, query string) ([]domain.GeocodeMatch, error) {
	if c.apiKey == "" {
		c.logger.Warn("geocoding unavailable without API key")
		c.metrics.ProviderRequests.WithLabelValues("geocode", "fallback").Inc()
		return nil, nil
	}

	start := time.Now()
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":     query,
			"limit": "5",
			"appid": c.apiKey,
		}).
		Get(c.geocodeURL + "/direct")
	c.metrics.ProviderDuration.WithLabelValues("geocode").Observe(time.Since(start).Seconds())

	if err != nil || !resp.IsSuccess() {
		c.logger.Warn("geocode request failed", "query", query, "error", err)
		c.metrics.ProviderRequests.WithLabelValues("geocode", "fallback").Inc()
		return nil, nil
	}

	var results []geoResult
	if err := json.Unmarshal(resp.Body(), &results); err != nil {
		c.logger.Warn("geocode response malformed", "error", err)
		c.metrics.ProviderRequests.WithLabelValues("geocode", "fallback").Inc()
		return nil, nil
	}

	c.metrics.ProviderRequests.WithLabelValues("geocode", "success").Inc()

	matches := make([]domain.GeocodeMatch, 0, len(results))
	for _, r := range results {
		region := r.State
		if region == "" {
			region = r.Country
		}
		matches = append(matches, domain.GeocodeMatch{
			Name: fmt.Sprintf("%s, %s", r.Name, region),
			Lat:  r.Lat,
			Lng:  r.Lon,
		})
	}
	return matches, nil
}
