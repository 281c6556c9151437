package httpapi

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProxy(cfg ProxyConfig) *Proxy {
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.NWSUserAgent == "" {
		cfg.NWSUserAgent = "location-dashboard test (dev@example.com)"
	}
	return NewProxy(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func proxyServer(p *Proxy) *Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServer(":0", &fakeDashboard{}, p, alwaysReady{}, logger)
}

func get(srv *Server, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestProxy_Weather_PassesThroughVerbatim(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/weather", r.URL.Path)
		assert.Equal(t, "secret", r.URL.Query().Get("appid"), "credential is attached server-side")
		assert.Equal(t, "40.7", r.URL.Query().Get("lat"))
		assert.Equal(t, "-74.0", r.URL.Query().Get("lon"))
		assert.Equal(t, "imperial", r.URL.Query().Get("units"))

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_, _ = w.Write([]byte(`{"main":{"temp":63.6},"extra":"untouched"}`))
	}))
	defer upstream.Close()

	p := newTestProxy(ProxyConfig{OpenWeatherAPIKey: "secret", WeatherBaseURL: upstream.URL})
	rec := get(proxyServer(p), "/proxy/weather?lat=40.7&lng=-74.0")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `{"main":{"temp":63.6},"extra":"untouched"}`, rec.Body.String())
	assert.Equal(t, "s-maxage=300, stale-while-revalidate=300", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
}

func TestProxy_Weather_MissingParams(t *testing.T) {
	p := newTestProxy(ProxyConfig{OpenWeatherAPIKey: "secret"})
	rec := get(proxyServer(p), "/proxy/weather?lat=40.7")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProxy_Weather_MissingCredential(t *testing.T) {
	p := newTestProxy(ProxyConfig{})
	rec := get(proxyServer(p), "/proxy/weather?lat=40.7&lng=-74.0")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProxy_Weather_UpstreamRejection(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"cod":429}`))
	}))
	defer upstream.Close()

	p := newTestProxy(ProxyConfig{OpenWeatherAPIKey: "secret", WeatherBaseURL: upstream.URL})
	rec := get(proxyServer(p), "/proxy/weather?lat=40.7&lng=-74.0")

	assert.Equal(t, http.StatusTooManyRequests, rec.Code, "provider status passes through")
	assert.JSONEq(t, `{"error":"upstream rejected the request"}`, rec.Body.String(),
		"provider error bodies are replaced, not leaked")
}

func TestProxy_Weather_NetworkError(t *testing.T) {
	p := newTestProxy(ProxyConfig{OpenWeatherAPIKey: "secret", WeatherBaseURL: "http://127.0.0.1:1"})
	rec := get(proxyServer(p), "/proxy/weather?lat=40.7&lng=-74.0")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestProxy_Alerts_NoCredentialRequired(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/alerts/active", r.URL.Path)
		assert.Equal(t, "40.7,-74.0", r.URL.Query().Get("point"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(`{"features":[]}`))
	}))
	defer upstream.Close()

	p := newTestProxy(ProxyConfig{AlertsBaseURL: upstream.URL})
	rec := get(proxyServer(p), "/proxy/alerts?lat=40.7&lng=-74.0")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `{"features":[]}`, rec.Body.String())
}

func TestProxy_Geocode(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/direct", r.URL.Path)
		assert.Equal(t, "Greenville", r.URL.Query().Get("q"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(`[]`))
	}))
	defer upstream.Close()

	p := newTestProxy(ProxyConfig{OpenWeatherAPIKey: "secret", GeocodeBaseURL: upstream.URL})
	rec := get(proxyServer(p), "/proxy/geocode?q=Greenville")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = get(proxyServer(p), "/proxy/geocode")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProxy_News(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/everything", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("X-Api-Key"))
		assert.Equal(t, "Greenville", r.URL.Query().Get("q"))
		_, _ = w.Write([]byte(`{"articles":[]}`))
	}))
	defer upstream.Close()

	p := newTestProxy(ProxyConfig{NewsAPIKey: "secret", NewsBaseURL: upstream.URL})
	rec := get(proxyServer(p), "/proxy/news?q=Greenville")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = get(proxyServer(newTestProxy(ProxyConfig{NewsBaseURL: upstream.URL})), "/proxy/news?q=Greenville")
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "missing server credential")
}
