// Package storage persists the dashboard state as one versioned JSON
// document. Persistence is best-effort: the dashboard works entirely from
// memory and treats a missing or unreadable document as a fresh start.
package storage

import "github.com/localpulse/dashboard-service/internal/domain"

// SchemaVersion is the current state document schema.
const SchemaVersion = 1

// StateDocument is the single persisted unit: the tracked locations plus the
// user's display preferences, stamped with the save instant.
type StateDocument struct {
	Schema    int               `json:"schema"`
	Locations []domain.Location `json:"locations"`
	SortBy    string            `json:"sortBy"`
	DarkMode  bool              `json:"isDarkMode"`
	SavedAt   int64             `json:"savedAt"` // epoch ms
}

// Store saves and restores the state document.
//
// Load's second return is false when no document exists yet, which is not an
// error. A non-nil error means a document exists but could not be read; the
// caller logs it and continues empty.
type Store interface {
	Save(doc StateDocument) error
	Load() (StateDocument, bool, error)
}
