package domain

import "context"

// WeatherProvider fetches current conditions for a coordinate pair.
// Implementations absorb provider failures by returning a deterministic mock
// snapshot — a non-nil error means a programming fault, not a provider
// outage, and aborts the whole aggregation.
type WeatherProvider interface {
	Current(ctx context.Context, lat, lng float64) (WeatherSnapshot, error)
}

// AlertsProvider fetches active safety alerts for a coordinate pair.
// Provider failures degrade to an empty list.
type AlertsProvider interface {
	Active(ctx context.Context, lat, lng float64) ([]SafetyAlert, error)
}

// NewsProvider fetches local news for a display name with an optional
// country bias code. Provider failures degrade to a single placeholder item.
type NewsProvider interface {
	Local(ctx context.Context, city, country string) ([]NewsItem, error)
}

// Geocoder resolves a free-text query to candidate locations, best match
// first. Provider failures and zero matches both yield an empty slice; the
// caller decides whether empty is an error (it is for add-by-search).
type Geocoder interface {
	Search(ctx context.Context, query string) ([]GeocodeMatch, error)
}
