package openweather

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localpulse/dashboard-service/internal/domain"
	"github.com/localpulse/dashboard-service/internal/observability"
)

type countingGeocoder struct {
	calls   int
	matches []domain.GeocodeMatch
	err     error
}

func (g *countingGeocoder) Search(_ context.Context, _ string) ([]domain.GeocodeMatch, error) {
	g.calls++
	return g.matches, g.err
}

func TestCachedGeocoder_Hit(t *testing.T) {
	inner := &countingGeocoder{
		matches: []domain.GeocodeMatch{{Name: "Austin, Texas", Lat: 30.2672, Lng: -97.7431}},
	}
	cached := NewCachedGeocoder(inner, 10, observability.NewMetricsForTesting())

	first, err := cached.Search(context.Background(), "Austin, TX")
	require.NoError(t, err)
	require.Len(t, first, 1)

	// Same query, different casing and whitespace, must hit the cache.
	second, err := cached.Search(context.Background(), "  austin, tx ")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.calls)
}

func TestCachedGeocoder_EmptyResultsNotCached(t *testing.T) {
	inner := &countingGeocoder{}
	cached := NewCachedGeocoder(inner, 10, observability.NewMetricsForTesting())

	_, err := cached.Search(context.Background(), "Nowhereville")
	require.NoError(t, err)
	_, err = cached.Search(context.Background(), "Nowhereville")
	require.NoError(t, err)

	assert.Equal(t, 2, inner.calls, "empty results must be retried, not cached")
}

func TestCachedGeocoder_ErrorsNotCached(t *testing.T) {
	inner := &countingGeocoder{err: errors.New("boom")}
	cached := NewCachedGeocoder(inner, 10, observability.NewMetricsForTesting())

	_, err := cached.Search(context.Background(), "Austin")
	require.Error(t, err)
	_, err = cached.Search(context.Background(), "Austin")
	require.Error(t, err)

	assert.Equal(t, 2, inner.calls)
}

func TestLRUCache_Eviction(t *testing.T) {
	cache := newLRUCache(2)
	a := []domain.GeocodeMatch{{Name: "A"}}
	b := []domain.GeocodeMatch{{Name: "B"}}
	c := []domain.GeocodeMatch{{Name: "C"}}

	cache.put("a", a)
	cache.put("b", b)

	// Touch "a" so "b" becomes least recently used.
	_, ok := cache.get("a")
	require.True(t, ok)

	cache.put("c", c)

	_, ok = cache.get("b")
	assert.False(t, ok, "least recently used entry should be evicted")
	got, ok := cache.get("a")
	require.True(t, ok)
	assert.Equal(t, a, got)
	got, ok = cache.get("c")
	require.True(t, ok)
	assert.Equal(t, c, got)
}
