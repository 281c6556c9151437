// Package domain models the dashboard's normalized location data.
//
// # Data Sources
//
// A Location aggregates three independent providers, each translated into the
// unified model by an adapter under internal/adapter:
//
//	OpenWeather current conditions  →  WeatherSnapshot (imperial units)
//	OpenWeather direct geocoding    →  GeocodeMatch (free-text query resolution)
//	NWS api.weather.gov alerts      →  SafetyAlert (active alerts by point)
//	NewsAPI.org everything search   →  NewsItem (local-biased article query)
//
// # Timestamp Conventions
//
// Timestamp fields cross the persistence and wire boundaries in two forms:
// epoch milliseconds (OpenWeather's dt*1000) or a date/time string (NWS sent/
// expires, NewsAPI publishedAt). [FlexTime] accepts both and is the single
// normalization point — every comparison goes through FlexTime.Millis, which
// parses string forms to epoch ms and treats unparseable strings as 0.
//
// A Location's freshness is max(weather.UpdatedAt, lastUpdated) because the
// weather snapshot can be refreshed independently of the record itself; see
// [Location.FreshnessMillis].
//
// # Fallback Data
//
// Adapter failures never surface to callers as errors or missing required
// fields. Weather degrades to a fixed mock snapshot, news to a single
// placeholder item, alerts to an empty list. Only the geocoding pre-step can
// fail an aggregation, because without coordinates there is nothing to build.
//
// # Identity
//
// Location IDs are client-generated v4 UUIDs, stable for the record's
// lifetime and the sole merge key. SafetyAlert and NewsItem IDs are unique
// only within one fetch batch ("alert-0", "news-1", ...) and must never be
// used as identity across refreshes; both lists are replaced wholesale.
package domain
