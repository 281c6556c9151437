// Package collection maintains the ordered set of tracked locations and the
// derived views the dashboard renders: sorted listings, the flattened alert
// ticker, and the collection-wide freshness stamp.
//
// The manager itself is not safe for concurrent use. The owning service
// serializes access; a second layer of locking here would only hide misuse.
package collection

import (
	"errors"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/localpulse/dashboard-service/internal/domain"
)

var (
	// ErrDuplicateID rejects an Add whose id is already tracked.
	ErrDuplicateID = errors.New("duplicate location id")
	// ErrNotFound rejects an Update for an untracked id.
	ErrNotFound = errors.New("location not found")
)

// Criterion names a sort order for location views.
type Criterion string

const (
	ByName        Criterion = "name"
	ByNickname    Criterion = "nickname"
	ByAlerts      Criterion = "alerts"
	ByLastUpdated Criterion = "lastUpdated"
)

// ValidCriterion reports whether s names a known sort order.
func ValidCriterion(s string) bool {
	switch Criterion(s) {
	case ByName, ByNickname, ByAlerts, ByLastUpdated:
		return true
	}
	return false
}

// TickerAlert is one entry of the flattened alert feed: a safety alert plus
// the location it belongs to.
type TickerAlert struct {
	domain.SafetyAlert
	LocationID   string `json:"locationId"`
	LocationName string `json:"locationName"`
}

// Manager holds tracked locations in insertion order. Sorting happens in the
// views; the underlying order never changes, which keeps ties stable across
// repeated renders.
type Manager struct {
	locations []domain.Location
	collator  *collate.Collator
}

// NewManager creates an empty manager. The locale drives name comparison;
// an unparseable locale tag falls back to English.
func NewManager(locale string) *Manager {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return &Manager{collator: collate.New(tag, collate.IgnoreCase)}
}

// Add appends a location. The id must be unused.
func (m *Manager) Add(loc domain.Location) error {
	if m.indexOf(loc.ID) >= 0 {
		return ErrDuplicateID
	}
	m.locations = append(m.locations, loc)
	return nil
}

// Update replaces the tracked record with the same id wholesale.
func (m *Manager) Update(loc domain.Location) error {
	i := m.indexOf(loc.ID)
	if i < 0 {
		return ErrNotFound
	}
	m.locations[i] = loc
	return nil
}

// Remove drops a location. Removing an untracked id is a no-op.
func (m *Manager) Remove(id string) {
	i := m.indexOf(id)
	if i < 0 {
		return
	}
	m.locations = slices.Delete(m.locations, i, i+1)
}

// Get returns the tracked record for id.
func (m *Manager) Get(id string) (domain.Location, bool) {
	i := m.indexOf(id)
	if i < 0 {
		return domain.Location{}, false
	}
	return m.locations[i], true
}

// Len returns the number of tracked locations.
func (m *Manager) Len() int {
	return len(m.locations)
}

// Snapshot returns a copy of all locations in insertion order.
func (m *Manager) Snapshot() []domain.Location {
	return slices.Clone(m.locations)
}

// Replace swaps the whole tracked set, insertion order taken from the input.
// Used when restoring saved state.
func (m *Manager) Replace(locations []domain.Location) {
	m.locations = slices.Clone(locations)
}

// SortedView returns a copy of the locations ordered by the criterion. The
// sort is stable, so records that compare equal keep their insertion order.
// An unknown criterion returns insertion order.
func (m *Manager) SortedView(c Criterion) []domain.Location {
	view := slices.Clone(m.locations)

	switch c {
	case ByName:
		slices.SortStableFunc(view, func(a, b domain.Location) int {
			return m.collator.CompareString(a.Name, b.Name)
		})
	case ByNickname:
		slices.SortStableFunc(view, func(a, b domain.Location) int {
			return m.collator.CompareString(a.Nickname, b.Nickname)
		})
	case ByAlerts:
		slices.SortStableFunc(view, func(a, b domain.Location) int {
			return len(b.SafetyAlerts) - len(a.SafetyAlerts)
		})
	case ByLastUpdated:
		slices.SortStableFunc(view, func(a, b domain.Location) int {
			switch af, bf := a.FreshnessMillis(), b.FreshnessMillis(); {
			case af > bf:
				return -1
			case af < bf:
				return 1
			default:
				return 0
			}
		})
	}
	return view
}

// ActiveAlerts flattens every tracked location's alerts into one ticker feed,
// newest first by issue time, each entry tagged with its origin location.
func (m *Manager) ActiveAlerts() []TickerAlert {
	var feed []TickerAlert
	for _, loc := range m.locations {
		for _, alert := range loc.SafetyAlerts {
			feed = append(feed, TickerAlert{
				SafetyAlert:  alert,
				LocationID:   loc.ID,
				LocationName: loc.Name,
			})
		}
	}
	slices.SortStableFunc(feed, func(a, b TickerAlert) int {
		switch am, bm := a.IssuedAt.Millis(), b.IssuedAt.Millis(); {
		case am > bm:
			return -1
		case am < bm:
			return 1
		default:
			return 0
		}
	})
	return feed
}

// LatestRefresh returns the most recent freshness instant across the whole
// collection, in epoch ms. ok is false when the collection is empty or no
// record carries a usable timestamp.
func (m *Manager) LatestRefresh() (int64, bool) {
	var latest int64
	for _, loc := range m.locations {
		if ts := loc.FreshnessMillis(); ts > latest {
			latest = ts
		}
	}
	return latest, latest > 0
}

func (m *Manager) indexOf(id string) int {
	return slices.IndexFunc(m.locations, func(l domain.Location) bool {
		return l.ID == id
	})
}
