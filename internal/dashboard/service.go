// Package dashboard is the orchestrating service: it owns the location
// collection, the display preferences, and the persistence of both, and it
// serializes every mutation so the collection only ever sees one logical
// caller.
package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/localpulse/dashboard-service/internal/collection"
	"github.com/localpulse/dashboard-service/internal/domain"
	"github.com/localpulse/dashboard-service/internal/observability"
	"github.com/localpulse/dashboard-service/internal/storage"
)

// bootstrapTimeout caps the first aggregation during Init so a slow provider
// cannot stall startup indefinitely.
const bootstrapTimeout = 10 * time.Second

// Builder assembles location records. Satisfied by aggregator.Aggregator.
type Builder interface {
	ByQuery(ctx context.Context, query, nickname string) (domain.Location, error)
	ByCoordinates(ctx context.Context, lat, lng float64, name, nickname string) (domain.Location, error)
	Rebuild(ctx context.Context, existing domain.Location) (domain.Location, error)
}

// Bootstrap seeds an empty collection with one default location on startup.
type Bootstrap struct {
	Enabled  bool
	Lat      float64
	Lng      float64
	Nickname string
	Query    string
}

// Service holds the only mutable dashboard state. All mutations run under one
// mutex, including their aggregations, so concurrent HTTP requests cannot
// interleave half-applied changes.
type Service struct {
	mu        sync.Mutex
	builder   Builder
	locations *collection.Manager
	store     storage.Store
	sortBy    collection.Criterion
	darkMode  bool

	ready   atomic.Bool
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewService wires the service. Call Init before serving traffic.
func NewService(builder Builder, locations *collection.Manager, store storage.Store, metrics *observability.Metrics, logger *slog.Logger) *Service {
	return &Service{
		builder:   builder,
		locations: locations,
		store:     store,
		sortBy:    collection.ByName,
		metrics:   metrics,
		logger:    logger,
	}
}

// Init restores saved state and, when the collection comes up empty, seeds it
// with the bootstrap location. Neither step is fatal: a corrupt state file or
// an unreachable provider leaves an empty but serviceable dashboard.
func (s *Service) Init(ctx context.Context, boot Bootstrap) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.restoreLocked()

	if s.locations.Len() == 0 && boot.Enabled {
		s.bootstrapLocked(ctx, boot)
	}

	s.metrics.LocationsTracked.Set(float64(s.locations.Len()))
	s.ready.Store(true)
}

func (s *Service) restoreLocked() {
	doc, found, err := s.store.Load()
	if err != nil {
		s.logger.Warn("saved state unreadable, starting empty", "error", err)
		s.metrics.StateLoads.WithLabelValues("error").Inc()
		return
	}
	if !found {
		s.metrics.StateLoads.WithLabelValues("empty").Inc()
		return
	}
	if doc.Schema != storage.SchemaVersion {
		s.logger.Warn("saved state has unknown schema, starting empty", "schema", doc.Schema)
		s.metrics.StateLoads.WithLabelValues("error").Inc()
		return
	}

	s.locations.Replace(doc.Locations)
	if collection.ValidCriterion(doc.SortBy) {
		s.sortBy = collection.Criterion(doc.SortBy)
	}
	s.darkMode = doc.DarkMode
	s.metrics.StateLoads.WithLabelValues("success").Inc()
	s.logger.Info("saved state restored", "locations", s.locations.Len())
}

func (s *Service) bootstrapLocked(ctx context.Context, boot Bootstrap) {
	ctx, cancel := context.WithTimeout(ctx, bootstrapTimeout)
	defer cancel()

	loc, err := s.builder.ByQuery(ctx, boot.Query, boot.Nickname)
	if err != nil {
		s.logger.Warn("bootstrap geocode failed, falling back to coordinates",
			"query", boot.Query, "error", err)
		loc, err = s.builder.ByCoordinates(ctx, boot.Lat, boot.Lng, boot.Query, boot.Nickname)
	}
	if err != nil {
		s.logger.Warn("bootstrap aggregation failed, starting empty", "error", err)
		return
	}
	if err := s.locations.Add(loc); err != nil {
		s.logger.Warn("bootstrap add failed", "error", err)
		return
	}
	s.persistLocked()
	s.logger.Info("bootstrapped default location", "name", loc.Name)
}

// CheckReadiness reports whether Init has completed.
func (s *Service) CheckReadiness() error {
	if !s.ready.Load() {
		return errors.New("dashboard not initialized")
	}
	return nil
}

// AddByQuery geocodes the query, aggregates a new location record, and tracks
// it. Returns aggregator.ErrLocationNotFound when nothing matches.
func (s *Service) AddByQuery(ctx context.Context, query, nickname string) (domain.Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	loc, err := s.builder.ByQuery(ctx, query, nickname)
	if err != nil {
		return domain.Location{}, err
	}
	if err := s.locations.Add(loc); err != nil {
		return domain.Location{}, err
	}
	s.afterMutationLocked()
	return loc, nil
}

// AddByCoordinates aggregates and tracks a new location record for a known
// coordinate pair, typically device geolocation.
func (s *Service) AddByCoordinates(ctx context.Context, lat, lng float64, name, nickname string) (domain.Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	loc, err := s.builder.ByCoordinates(ctx, lat, lng, name, nickname)
	if err != nil {
		return domain.Location{}, err
	}
	if err := s.locations.Add(loc); err != nil {
		return domain.Location{}, err
	}
	s.afterMutationLocked()
	return loc, nil
}

// Edit re-aggregates an existing location with new identity fields and
// replaces the record wholesale, preserving only the id. Returns
// collection.ErrNotFound for an untracked id.
func (s *Service) Edit(ctx context.Context, id, name, nickname string, lat, lng float64) (domain.Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.locations.Get(id)
	if !ok {
		return domain.Location{}, collection.ErrNotFound
	}

	existing.Name = name
	existing.Nickname = nickname
	existing.Coordinates = domain.Coordinates{Lat: lat, Lng: lng}

	replacement, err := s.builder.Rebuild(ctx, existing)
	if err != nil {
		return domain.Location{}, err
	}
	if err := s.locations.Update(replacement); err != nil {
		return domain.Location{}, err
	}
	s.afterMutationLocked()
	return replacement, nil
}

// EditByQuery re-resolves an existing location from a free-text query and
// replaces the record wholesale, preserving only the id. Returns
// collection.ErrNotFound for an untracked id and surfaces the aggregator's
// resolution failure when the query matches nothing.
func (s *Service) EditByQuery(ctx context.Context, id, query, nickname string) (domain.Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.locations.Get(id); !ok {
		return domain.Location{}, collection.ErrNotFound
	}

	replacement, err := s.builder.ByQuery(ctx, query, nickname)
	if err != nil {
		return domain.Location{}, err
	}
	replacement.ID = id

	if err := s.locations.Update(replacement); err != nil {
		return domain.Location{}, err
	}
	s.afterMutationLocked()
	return replacement, nil
}

// Refresh re-fetches all sections of a tracked location.
func (s *Service) Refresh(ctx context.Context, id string) (domain.Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.locations.Get(id)
	if !ok {
		return domain.Location{}, collection.ErrNotFound
	}

	refreshed, err := s.builder.Rebuild(ctx, existing)
	if err != nil {
		return domain.Location{}, err
	}
	if err := s.locations.Update(refreshed); err != nil {
		return domain.Location{}, err
	}
	s.afterMutationLocked()
	return refreshed, nil
}

// Remove stops tracking a location. Unknown ids are a no-op.
func (s *Service) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.locations.Remove(id)
	s.afterMutationLocked()
}

// SetSortBy switches the default sort criterion for location views.
func (s *Service) SetSortBy(criterion string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !collection.ValidCriterion(criterion) {
		return errors.New("unknown sort criterion: " + criterion)
	}
	s.sortBy = collection.Criterion(criterion)
	s.persistLocked()
	return nil
}

// SetDarkMode flips the dark-mode preference.
func (s *Service) SetDarkMode(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.darkMode = enabled
	s.persistLocked()
}

// Locations returns the tracked locations sorted by the given criterion, or
// by the current preference when criterion is empty.
func (s *Service) Locations(criterion string) []domain.Location {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.sortBy
	if criterion != "" {
		c = collection.Criterion(criterion)
	}
	return s.locations.SortedView(c)
}

// ActiveAlerts returns the flattened alert ticker across all locations.
func (s *Service) ActiveAlerts() []collection.TickerAlert {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.locations.ActiveAlerts()
}

// LastRefreshed returns the most recent refresh instant across the
// collection; ok is false when nothing carries a timestamp.
func (s *Service) LastRefreshed() (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.locations.LatestRefresh()
}

// Preferences returns the current sort criterion and dark-mode flag.
func (s *Service) Preferences() (sortBy string, darkMode bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return string(s.sortBy), s.darkMode
}

func (s *Service) afterMutationLocked() {
	s.metrics.LocationsTracked.Set(float64(s.locations.Len()))
	s.persistLocked()
}

// persistLocked saves the current state best-effort. A failed save is logged
// and forgotten; the in-memory state stays authoritative.
func (s *Service) persistLocked() {
	doc := storage.StateDocument{
		Schema:    storage.SchemaVersion,
		Locations: s.locations.Snapshot(),
		SortBy:    string(s.sortBy),
		DarkMode:  s.darkMode,
		SavedAt:   domain.Now().UnixMilli(),
	}
	if err := s.store.Save(doc); err != nil {
		s.logger.Warn("state save failed", "error", err)
		s.metrics.StateSaves.WithLabelValues("error").Inc()
		return
	}
	s.metrics.StateSaves.WithLabelValues("success").Inc()
}
