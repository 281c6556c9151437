package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// weatherCacheControl lets a CDN or shared cache absorb repeat weather
// lookups for the same coordinates.
const weatherCacheControl = "s-maxage=300, stale-while-revalidate=300"

// ProxyConfig carries the provider endpoints and credentials the proxy
// forwards with.
type ProxyConfig struct {
	OpenWeatherAPIKey string
	NewsAPIKey        string
	NWSUserAgent      string
	WeatherBaseURL    string
	GeocodeBaseURL    string
	AlertsBaseURL     string
	NewsBaseURL       string
	Timeout           time.Duration
}

// Proxy forwards provider requests with server-held credentials so API keys
// never reach a browser. Provider responses pass through verbatim on
// success; provider rejections keep their status but get a uniform error
// body.
type Proxy struct {
	cfg    ProxyConfig
	http   *resty.Client
	logger *slog.Logger
}

// NewProxy creates a provider proxy.
func NewProxy(cfg ProxyConfig, logger *slog.Logger) *Proxy {
	return &Proxy{
		cfg:    cfg,
		http:   resty.New().SetTimeout(cfg.Timeout),
		logger: logger,
	}
}

func (p *Proxy) handleWeather(w http.ResponseWriter, r *http.Request) {
	lat, lng := r.URL.Query().Get("lat"), r.URL.Query().Get("lng")
	if lat == "" || lng == "" {
		writeError(w, http.StatusBadRequest, "lat and lng are required")
		return
	}
	if p.cfg.OpenWeatherAPIKey == "" {
		writeError(w, http.StatusUnauthorized, "weather API key not configured")
		return
	}

	resp, err := p.http.R().
		SetContext(r.Context()).
		SetQueryParams(map[string]string{
			"lat":   lat,
			"lon":   lng,
			"appid": p.cfg.OpenWeatherAPIKey,
			"units": "imperial",
		}).
		Get(p.cfg.WeatherBaseURL + "/weather")

	w.Header().Set("Cache-Control", weatherCacheControl)
	p.forward(w, "weather", resp, err)
}

func (p *Proxy) handleGeocode(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "q is required")
		return
	}
	if p.cfg.OpenWeatherAPIKey == "" {
		writeError(w, http.StatusUnauthorized, "weather API key not configured")
		return
	}

	resp, err := p.http.R().
		SetContext(r.Context()).
		SetQueryParams(map[string]string{
			"q":     query,
			"limit": "5",
			"appid": p.cfg.OpenWeatherAPIKey,
		}).
		Get(p.cfg.GeocodeBaseURL + "/direct")

	p.forward(w, "geocode", resp, err)
}

func (p *Proxy) handleAlerts(w http.ResponseWriter, r *http.Request) {
	lat, lng := r.URL.Query().Get("lat"), r.URL.Query().Get("lng")
	if lat == "" || lng == "" {
		writeError(w, http.StatusBadRequest, "lat and lng are required")
		return
	}

	resp, err := p.http.R().
		SetContext(r.Context()).
		SetHeader("User-Agent", p.cfg.NWSUserAgent).
		SetHeader("Accept", "application/ld+json").
		SetQueryParam("point", lat+","+lng).
		Get(p.cfg.AlertsBaseURL + "/alerts/active")

	p.forward(w, "alerts", resp, err)
}

func (p *Proxy) handleNews(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "q is required")
		return
	}
	if p.cfg.NewsAPIKey == "" {
		writeError(w, http.StatusUnauthorized, "news API key not configured")
		return
	}

	resp, err := p.http.R().
		SetContext(r.Context()).
		SetHeader("X-Api-Key", p.cfg.NewsAPIKey).
		SetQueryParams(map[string]string{
			"q":        query,
			"language": "en",
			"sortBy":   "publishedAt",
			"pageSize": "5",
		}).
		Get(p.cfg.NewsBaseURL + "/everything")

	p.forward(w, "news", resp, err)
}

// forward relays the provider response. Success bodies pass through
// untouched so the proxy never has to track provider schema changes.
func (p *Proxy) forward(w http.ResponseWriter, provider string, resp *resty.Response, err error) {
	if err != nil {
		p.logger.Warn("proxy request failed", "provider", provider, "error", err)
		writeError(w, http.StatusInternalServerError, "upstream request failed")
		return
	}
	if !resp.IsSuccess() {
		p.logger.Warn("proxy request rejected", "provider", provider, "status", resp.StatusCode())
		writeError(w, resp.StatusCode(), "upstream rejected the request")
		return
	}

	contentType := resp.Header().Get("Content-Type")
	if contentType == "" {
		contentType = "application/json"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(resp.StatusCode())
	w.Write(resp.Body()) //nolint:errcheck // client went away
}
