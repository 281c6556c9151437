// Package httpapi exposes the dashboard over HTTP: the location collection
// API, the credentialed provider proxy, and the health, readiness, and
// metrics endpoints.
package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness() error
}

// Server routes dashboard API, proxy, and operational endpoints.
type Server struct {
	httpServer *http.Server
	dashboard  Dashboard
	logger     *slog.Logger
}

// NewServer wires all routes. The proxy may be nil, which disables the
// /proxy tree.
func NewServer(addr string, dash Dashboard, proxy *Proxy, ready ReadinessChecker, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		dashboard: dash,
		logger:    logger,
	}

	mux.HandleFunc("GET /api/locations", s.handleListLocations)
	mux.HandleFunc("POST /api/locations", s.handleAddLocation)
	mux.HandleFunc("PUT /api/locations/{id}", s.handleEditLocation)
	mux.HandleFunc("DELETE /api/locations/{id}", s.handleRemoveLocation)
	mux.HandleFunc("POST /api/locations/{id}/refresh", s.handleRefreshLocation)
	mux.HandleFunc("GET /api/alerts", s.handleAlerts)
	mux.HandleFunc("GET /api/preferences", s.handleGetPreferences)
	mux.HandleFunc("PUT /api/preferences", s.handlePutPreferences)
	mux.HandleFunc("GET /api/dashboard", s.handleDashboard)

	if proxy != nil {
		mux.HandleFunc("GET /proxy/weather", proxy.handleWeather)
		mux.HandleFunc("GET /proxy/alerts", proxy.handleAlerts)
		mux.HandleFunc("GET /proxy/news", proxy.handleNews)
		mux.HandleFunc("GET /proxy/geocode", proxy.handleGeocode)
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		if err := checker.CheckReadiness(); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
