// Package aggregator assembles unified location records by fanning out to the
// weather, alerts, and news providers concurrently and joining all three
// results. The providers absorb their own outages, so a failed join here
// signals a programming fault rather than bad weather upstream.
package aggregator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/localpulse/dashboard-service/internal/domain"
	"github.com/localpulse/dashboard-service/internal/observability"
)

// ErrLocationNotFound is returned by ByQuery when the geocoder resolves
// nothing for the query. No location record is produced.
var ErrLocationNotFound = errors.New("location not found")

// Aggregator builds domain.Location records from the provider ports.
type Aggregator struct {
	weather domain.WeatherProvider
	alerts  domain.AlertsProvider
	news    domain.NewsProvider
	geo     domain.Geocoder
	metrics *observability.Metrics
	logger  *slog.Logger
}

// New creates an Aggregator over the given providers.
func New(weather domain.WeatherProvider, alerts domain.AlertsProvider, news domain.NewsProvider, geo domain.Geocoder, metrics *observability.Metrics, logger *slog.Logger) *Aggregator {
	return &Aggregator{
		weather: weather,
		alerts:  alerts,
		news:    news,
		geo:     geo,
		metrics: metrics,
		logger:  logger,
	}
}

// ByQuery geocodes a free-text query and assembles a new location record from
// the best match. The first match supplies the coordinates and the canonical
// display name; zero matches yield ErrLocationNotFound.
func (a *Aggregator) ByQuery(ctx context.Context, query, nickname string) (domain.Location, error) {
	matches, err := a.geo.Search(ctx, query)
	if err != nil {
		return domain.Location{}, fmt.Errorf("geocode %q: %w", query, err)
	}
	if len(matches) == 0 {
		return domain.Location{}, fmt.Errorf("geocode %q: %w", query, ErrLocationNotFound)
	}

	best := matches[0]
	return a.assemble(ctx, uuid.NewString(), best.Name, nickname, best.Lat, best.Lng)
}

// ByCoordinates assembles a new location record for a known coordinate pair.
// The display name is the caller's (device geolocation has no canonical name
// to offer) and doubles as the news query.
func (a *Aggregator) ByCoordinates(ctx context.Context, lat, lng float64, name, nickname string) (domain.Location, error) {
	return a.assemble(ctx, uuid.NewString(), name, nickname, lat, lng)
}

// Rebuild re-fetches everything for an existing record, preserving its
// identity. The result replaces the old record wholesale.
func (a *Aggregator) Rebuild(ctx context.Context, existing domain.Location) (domain.Location, error) {
	return a.assemble(ctx, existing.ID, existing.Name, existing.Nickname, existing.Coordinates.Lat, existing.Coordinates.Lng)
}

type weatherResult struct {
	snapshot domain.WeatherSnapshot
	err      error
}

type alertsResult struct {
	alerts []domain.SafetyAlert
	err    error
}

type newsResult struct {
	items []domain.NewsItem
	err   error
}

// assemble runs the three provider calls concurrently and joins all of them
// before building the record. The news call is keyed by the display name, not
// the coordinates, and does not wait on the weather response. Either every
// section lands or the whole aggregation fails; a partial record never
// escapes.
func (a *Aggregator) assemble(ctx context.Context, id, name, nickname string, lat, lng float64) (domain.Location, error) {
	start := time.Now()

	wxCh := make(chan weatherResult, 1)
	alertCh := make(chan alertsResult, 1)
	newsCh := make(chan newsResult, 1)

	go func() {
		snapshot, err := a.weather.Current(ctx, lat, lng)
		wxCh <- weatherResult{snapshot: snapshot, err: err}
	}()
	go func() {
		alerts, err := a.alerts.Active(ctx, lat, lng)
		alertCh <- alertsResult{alerts: alerts, err: err}
	}()
	go func() {
		items, err := a.news.Local(ctx, name, "")
		newsCh <- newsResult{items: items, err: err}
	}()

	wx := <-wxCh
	al := <-alertCh
	nw := <-newsCh

	a.metrics.AggregationDuration.Observe(time.Since(start).Seconds())

	if err := errors.Join(wx.err, al.err, nw.err); err != nil {
		a.metrics.Aggregations.WithLabelValues("error").Inc()
		return domain.Location{}, fmt.Errorf("aggregate %q: %w", name, err)
	}

	lastUpdated := wx.snapshot.UpdatedAt
	if lastUpdated == 0 {
		lastUpdated = domain.Now().UnixMilli()
	}

	a.metrics.Aggregations.WithLabelValues("success").Inc()
	a.logger.Debug("location aggregated",
		"name", name, "alerts", len(al.alerts), "news", len(nw.items),
		"elapsed", time.Since(start))

	snapshot := wx.snapshot
	return domain.Location{
		ID:           id,
		Name:         name,
		Nickname:     nickname,
		Coordinates:  domain.Coordinates{Lat: lat, Lng: lng},
		Weather:      &snapshot,
		News:         nw.items,
		SafetyAlerts: al.alerts,
		LastUpdated:  domain.FromMillis(lastUpdated),
	}, nil
}
