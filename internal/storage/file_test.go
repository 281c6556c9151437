package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localpulse/dashboard-service/internal/domain"
)

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "dashboard_state.json")
	store := NewFileStore(path)

	doc := StateDocument{
		Schema: SchemaVersion,
		Locations: []domain.Location{
			{
				ID:          "loc-1",
				Name:        "Myrtle Beach, South Carolina",
				Nickname:    "Beach House",
				Coordinates: domain.Coordinates{Lat: 33.6891, Lng: -78.8867},
				Weather:     &domain.WeatherSnapshot{Temperature: 75, Condition: "Sunny", UpdatedAt: 1705329600000},
				LastUpdated: domain.FromMillis(1705329600000),
			},
		},
		SortBy:   "name",
		DarkMode: true,
		SavedAt:  1705330000000,
	}
	require.NoError(t, store.Save(doc))

	loaded, found, err := store.Load()
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, doc, loaded)
}

func TestFileStore_MissingFileIsFreshStart(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "never_written.json"))

	doc, found, err := store.Load()
	require.NoError(t, err)
	assert.False(t, found)
	assert.Zero(t, doc)
}

func TestFileStore_CorruptFileReturnsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{truncated"), 0o644))

	_, found, err := NewFileStore(path).Load()
	require.Error(t, err)
	assert.False(t, found)
}

func TestFileStore_SaveOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	store := NewFileStore(path)

	require.NoError(t, store.Save(StateDocument{Schema: SchemaVersion, SortBy: "name"}))
	require.NoError(t, store.Save(StateDocument{Schema: SchemaVersion, SortBy: "alerts"}))

	loaded, found, err := store.Load()
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "alerts", loaded.SortBy)

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file is renamed away")
}
