package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/localpulse/dashboard-service/internal/aggregator"
	"github.com/localpulse/dashboard-service/internal/collection"
	"github.com/localpulse/dashboard-service/internal/domain"
)

// Dashboard is the service surface the API routes delegate to. Satisfied by
// dashboard.Service.
type Dashboard interface {
	AddByQuery(ctx context.Context, query, nickname string) (domain.Location, error)
	AddByCoordinates(ctx context.Context, lat, lng float64, name, nickname string) (domain.Location, error)
	Edit(ctx context.Context, id, name, nickname string, lat, lng float64) (domain.Location, error)
	EditByQuery(ctx context.Context, id, query, nickname string) (domain.Location, error)
	Refresh(ctx context.Context, id string) (domain.Location, error)
	Remove(id string)
	SetSortBy(criterion string) error
	SetDarkMode(enabled bool)
	Locations(criterion string) []domain.Location
	ActiveAlerts() []collection.TickerAlert
	LastRefreshed() (int64, bool)
	Preferences() (sortBy string, darkMode bool)
}

type addLocationRequest struct {
	Query    string   `json:"query,omitempty"`
	Name     string   `json:"name,omitempty"`
	Nickname string   `json:"nickname"`
	Lat      *float64 `json:"lat,omitempty"`
	Lng      *float64 `json:"lng,omitempty"`
}

type editLocationRequest struct {
	Query    string  `json:"query,omitempty"`
	Name     string  `json:"name,omitempty"`
	Nickname string  `json:"nickname"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
}

type preferencesRequest struct {
	SortBy   *string `json:"sortBy,omitempty"`
	DarkMode *bool   `json:"isDarkMode,omitempty"`
}

type preferencesResponse struct {
	SortBy   string `json:"sortBy"`
	DarkMode bool   `json:"isDarkMode"`
}

type dashboardResponse struct {
	Locations     []domain.Location        `json:"locations"`
	Alerts        []collection.TickerAlert `json:"alerts"`
	SortBy        string                   `json:"sortBy"`
	DarkMode      bool                     `json:"isDarkMode"`
	LastRefreshed *int64                   `json:"lastRefreshed,omitempty"`
}

func (s *Server) handleListLocations(w http.ResponseWriter, r *http.Request) {
	criterion := r.URL.Query().Get("sortBy")
	if criterion != "" && !collection.ValidCriterion(criterion) {
		writeError(w, http.StatusBadRequest, "unknown sort criterion: "+criterion)
		return
	}
	locations := s.dashboard.Locations(criterion)
	if locations == nil {
		locations = []domain.Location{}
	}
	writeJSON(w, http.StatusOK, locations)
}

func (s *Server) handleAddLocation(w http.ResponseWriter, r *http.Request) {
	var req addLocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var (
		loc domain.Location
		err error
	)
	switch {
	case req.Query != "":
		loc, err = s.dashboard.AddByQuery(r.Context(), req.Query, req.Nickname)
	case req.Lat != nil && req.Lng != nil:
		name := req.Name
		if name == "" {
			name = "Current Location"
		}
		loc, err = s.dashboard.AddByCoordinates(r.Context(), *req.Lat, *req.Lng, name, req.Nickname)
	default:
		writeError(w, http.StatusBadRequest, "either query or lat/lng is required")
		return
	}

	if err != nil {
		s.writeDashboardError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, loc)
}

// handleEditLocation accepts either a free-text query, re-resolved through
// geocoding, or explicit name/coordinates. Both forms replace the record
// wholesale and keep the id.
func (s *Server) handleEditLocation(w http.ResponseWriter, r *http.Request) {
	var req editLocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var (
		loc domain.Location
		err error
	)
	switch {
	case req.Query != "":
		loc, err = s.dashboard.EditByQuery(r.Context(), r.PathValue("id"), req.Query, req.Nickname)
	case req.Name != "":
		loc, err = s.dashboard.Edit(r.Context(), r.PathValue("id"), req.Name, req.Nickname, req.Lat, req.Lng)
	default:
		writeError(w, http.StatusBadRequest, "either query or name is required")
		return
	}

	if err != nil {
		s.writeDashboardError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loc)
}

func (s *Server) handleRemoveLocation(w http.ResponseWriter, r *http.Request) {
	s.dashboard.Remove(r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRefreshLocation(w http.ResponseWriter, r *http.Request) {
	loc, err := s.dashboard.Refresh(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeDashboardError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loc)
}

func (s *Server) handleAlerts(w http.ResponseWriter, _ *http.Request) {
	alerts := s.dashboard.ActiveAlerts()
	if alerts == nil {
		alerts = []collection.TickerAlert{}
	}
	writeJSON(w, http.StatusOK, alerts)
}

func (s *Server) handleGetPreferences(w http.ResponseWriter, _ *http.Request) {
	sortBy, darkMode := s.dashboard.Preferences()
	writeJSON(w, http.StatusOK, preferencesResponse{SortBy: sortBy, DarkMode: darkMode})
}

func (s *Server) handlePutPreferences(w http.ResponseWriter, r *http.Request) {
	var req preferencesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.SortBy != nil {
		if err := s.dashboard.SetSortBy(*req.SortBy); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	if req.DarkMode != nil {
		s.dashboard.SetDarkMode(*req.DarkMode)
	}

	sortBy, darkMode := s.dashboard.Preferences()
	writeJSON(w, http.StatusOK, preferencesResponse{SortBy: sortBy, DarkMode: darkMode})
}

// handleDashboard returns everything a fresh page render needs in one call.
func (s *Server) handleDashboard(w http.ResponseWriter, _ *http.Request) {
	locations := s.dashboard.Locations("")
	if locations == nil {
		locations = []domain.Location{}
	}
	alerts := s.dashboard.ActiveAlerts()
	if alerts == nil {
		alerts = []collection.TickerAlert{}
	}
	sortBy, darkMode := s.dashboard.Preferences()

	resp := dashboardResponse{
		Locations: locations,
		Alerts:    alerts,
		SortBy:    sortBy,
		DarkMode:  darkMode,
	}
	if ts, ok := s.dashboard.LastRefreshed(); ok {
		resp.LastRefreshed = &ts
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) writeDashboardError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, aggregator.ErrLocationNotFound):
		writeError(w, http.StatusNotFound, "location not found")
	case errors.Is(err, collection.ErrNotFound):
		writeError(w, http.StatusNotFound, "location not found")
	case errors.Is(err, collection.ErrDuplicateID):
		writeError(w, http.StatusConflict, "location already tracked")
	default:
		s.logger.Error("dashboard operation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
