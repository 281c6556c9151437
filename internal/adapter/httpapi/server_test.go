package httpapi

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localpulse/dashboard-service/internal/aggregator"
	"github.com/localpulse/dashboard-service/internal/collection"
	"github.com/localpulse/dashboard-service/internal/domain"
)

// fakeDashboard records calls and plays back canned results.
type fakeDashboard struct {
	locations []domain.Location
	alerts    []collection.TickerAlert
	sortBy    string
	darkMode  bool
	lastTS    int64
	lastOK    bool
	err       error

	gotQuery     string
	gotNickname  string
	gotName      string
	gotLat       float64
	gotLng       float64
	gotID        string
	gotCriterion string
	removedID    string
}

func (f *fakeDashboard) AddByQuery(_ context.Context, query, nickname string) (domain.Location, error) {
	f.gotQuery, f.gotNickname = query, nickname
	if f.err != nil {
		return domain.Location{}, f.err
	}
	return domain.Location{ID: "new", Name: query, Nickname: nickname}, nil
}

func (f *fakeDashboard) AddByCoordinates(_ context.Context, lat, lng float64, name, nickname string) (domain.Location, error) {
	f.gotLat, f.gotLng, f.gotName, f.gotNickname = lat, lng, name, nickname
	if f.err != nil {
		return domain.Location{}, f.err
	}
	return domain.Location{ID: "new", Name: name, Nickname: nickname}, nil
}

func (f *fakeDashboard) Edit(_ context.Context, id, name, nickname string, lat, lng float64) (domain.Location, error) {
	f.gotID, f.gotName, f.gotNickname, f.gotLat, f.gotLng = id, name, nickname, lat, lng
	if f.err != nil {
		return domain.Location{}, f.err
	}
	return domain.Location{ID: id, Name: name, Nickname: nickname}, nil
}

func (f *fakeDashboard) EditByQuery(_ context.Context, id, query, nickname string) (domain.Location, error) {
	f.gotID, f.gotQuery, f.gotNickname = id, query, nickname
	if f.err != nil {
		return domain.Location{}, f.err
	}
	return domain.Location{ID: id, Name: query + ", Resolved", Nickname: nickname}, nil
}

func (f *fakeDashboard) Refresh(_ context.Context, id string) (domain.Location, error) {
	f.gotID = id
	if f.err != nil {
		return domain.Location{}, f.err
	}
	return domain.Location{ID: id, Name: "Refreshed"}, nil
}

func (f *fakeDashboard) Remove(id string) { f.removedID = id }

func (f *fakeDashboard) SetSortBy(criterion string) error {
	if !collection.ValidCriterion(criterion) {
		return errors.New("unknown sort criterion: " + criterion)
	}
	f.sortBy = criterion
	return nil
}

func (f *fakeDashboard) SetDarkMode(enabled bool) { f.darkMode = enabled }

func (f *fakeDashboard) Locations(criterion string) []domain.Location {
	f.gotCriterion = criterion
	return f.locations
}

func (f *fakeDashboard) ActiveAlerts() []collection.TickerAlert { return f.alerts }

func (f *fakeDashboard) LastRefreshed() (int64, bool) { return f.lastTS, f.lastOK }

func (f *fakeDashboard) Preferences() (string, bool) {
	sortBy := f.sortBy
	if sortBy == "" {
		sortBy = "name"
	}
	return sortBy, f.darkMode
}

type alwaysReady struct{}

func (alwaysReady) CheckReadiness() error { return nil }

func newTestServer(dash Dashboard) *Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServer(":0", dash, nil, alwaysReady{}, logger)
}

func doJSON(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestServer_ListLocations(t *testing.T) {
	dash := &fakeDashboard{locations: []domain.Location{{ID: "a", Name: "Austin"}}}
	srv := newTestServer(dash)

	rec := doJSON(t, srv, http.MethodGet, "/api/locations?sortBy=alerts", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alerts", dash.gotCriterion)
	assert.JSONEq(t, `[{"id":"a","name":"Austin","nickname":"","coordinates":{"lat":0,"lng":0},"news":null,"safetyAlerts":null}]`, rec.Body.String())
}

func TestServer_ListLocations_BadCriterion(t *testing.T) {
	rec := doJSON(t, newTestServer(&fakeDashboard{}), http.MethodGet, "/api/locations?sortBy=bogus", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_ListLocations_EmptyIsArray(t *testing.T) {
	rec := doJSON(t, newTestServer(&fakeDashboard{}), http.MethodGet, "/api/locations", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestServer_AddLocation_ByQuery(t *testing.T) {
	dash := &fakeDashboard{}
	rec := doJSON(t, newTestServer(dash), http.MethodPost, "/api/locations",
		`{"query":"Greenville","nickname":"Home"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Greenville", dash.gotQuery)
	assert.Equal(t, "Home", dash.gotNickname)
}

func TestServer_AddLocation_ByCoordinates(t *testing.T) {
	dash := &fakeDashboard{}
	rec := doJSON(t, newTestServer(dash), http.MethodPost, "/api/locations",
		`{"lat":40.7128,"lng":-74.006,"nickname":"NYC"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 40.7128, dash.gotLat)
	assert.Equal(t, "Current Location", dash.gotName, "coordinates without a name get the default")
}

func TestServer_AddLocation_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty body", `{}`},
		{"lat without lng", `{"lat":40.7}`},
		{"malformed json", `{`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, newTestServer(&fakeDashboard{}), http.MethodPost, "/api/locations", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestServer_AddLocation_NotFound(t *testing.T) {
	dash := &fakeDashboard{err: aggregator.ErrLocationNotFound}
	rec := doJSON(t, newTestServer(dash), http.MethodPost, "/api/locations", `{"query":"Nowhereville"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_EditLocation(t *testing.T) {
	dash := &fakeDashboard{}
	rec := doJSON(t, newTestServer(dash), http.MethodPut, "/api/locations/abc",
		`{"name":"Austin, Texas","nickname":"HQ","lat":30.2672,"lng":-97.7431}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "abc", dash.gotID)
	assert.Equal(t, "Austin, Texas", dash.gotName)
	assert.Equal(t, 30.2672, dash.gotLat)
}

func TestServer_EditLocation_ByQuery(t *testing.T) {
	dash := &fakeDashboard{}
	rec := doJSON(t, newTestServer(dash), http.MethodPut, "/api/locations/abc",
		`{"query":"Greenville, SC","nickname":"Home"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "abc", dash.gotID)
	assert.Equal(t, "Greenville, SC", dash.gotQuery)
	assert.Equal(t, "Home", dash.gotNickname)
	assert.Contains(t, rec.Body.String(), `"id":"abc"`)
}

func TestServer_EditLocation_ByQuery_ResolutionFailure(t *testing.T) {
	dash := &fakeDashboard{err: aggregator.ErrLocationNotFound}
	rec := doJSON(t, newTestServer(dash), http.MethodPut, "/api/locations/abc",
		`{"query":"Nowhereville"}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"location not found"}`, rec.Body.String())
}

func TestServer_EditLocation_RequiresQueryOrName(t *testing.T) {
	rec := doJSON(t, newTestServer(&fakeDashboard{}), http.MethodPut, "/api/locations/abc",
		`{"nickname":"HQ"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_EditLocation_NotFound(t *testing.T) {
	dash := &fakeDashboard{err: collection.ErrNotFound}
	rec := doJSON(t, newTestServer(dash), http.MethodPut, "/api/locations/missing",
		`{"name":"X"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_RemoveLocation(t *testing.T) {
	dash := &fakeDashboard{}
	rec := doJSON(t, newTestServer(dash), http.MethodDelete, "/api/locations/abc", "")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "abc", dash.removedID)
}

func TestServer_RefreshLocation(t *testing.T) {
	dash := &fakeDashboard{}
	rec := doJSON(t, newTestServer(dash), http.MethodPost, "/api/locations/abc/refresh", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "abc", dash.gotID)
}

func TestServer_Alerts(t *testing.T) {
	dash := &fakeDashboard{alerts: []collection.TickerAlert{{
		SafetyAlert:  domain.SafetyAlert{ID: "alert-0", Title: "Winter Storm Warning"},
		LocationID:   "b",
		LocationName: "Boston",
	}}}
	rec := doJSON(t, newTestServer(dash), http.MethodGet, "/api/alerts", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"locationName":"Boston"`)
}

func TestServer_Preferences(t *testing.T) {
	dash := &fakeDashboard{}
	srv := newTestServer(dash)

	rec := doJSON(t, srv, http.MethodPut, "/api/preferences", `{"sortBy":"alerts","isDarkMode":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"sortBy":"alerts","isDarkMode":true}`, rec.Body.String())

	// Partial update leaves the other preference untouched.
	rec = doJSON(t, srv, http.MethodPut, "/api/preferences", `{"isDarkMode":false}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"sortBy":"alerts","isDarkMode":false}`, rec.Body.String())

	rec = doJSON(t, srv, http.MethodPut, "/api/preferences", `{"sortBy":"bogus"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/api/preferences", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"sortBy":"alerts","isDarkMode":false}`, rec.Body.String())
}

func TestServer_Dashboard(t *testing.T) {
	dash := &fakeDashboard{
		locations: []domain.Location{{ID: "a", Name: "Austin"}},
		lastTS:    1705329600000,
		lastOK:    true,
	}
	rec := doJSON(t, newTestServer(dash), http.MethodGet, "/api/dashboard", "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `"lastRefreshed":1705329600000`)
	assert.Contains(t, body, `"sortBy":"name"`)
	assert.Contains(t, body, `"alerts":[]`)
}

func TestServer_Health(t *testing.T) {
	rec := doJSON(t, newTestServer(&fakeDashboard{}), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, newTestServer(&fakeDashboard{}), http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
