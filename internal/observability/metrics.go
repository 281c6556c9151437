package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// aggregation layer and its provider adapters.
type Metrics struct {
	// Provider adapter metrics.
	ProviderRequests *prometheus.CounterVec   // labels: provider={weather,geocode,alerts,news}, outcome={success,fallback}
	ProviderDuration *prometheus.HistogramVec // labels: provider
	GeocodeCache     *prometheus.CounterVec   // labels: result={hit,miss}

	// Aggregation metrics.
	Aggregations        *prometheus.CounterVec // labels: outcome={success,error}
	AggregationDuration prometheus.Histogram

	// Collection and persistence metrics.
	LocationsTracked prometheus.Gauge
	StateSaves       *prometheus.CounterVec // labels: outcome={success,error}
	StateLoads       *prometheus.CounterVec // labels: outcome={success,empty,error}
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		ProviderRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dashboard",
			Name:      "provider_requests_total",
			Help:      "Provider adapter calls by provider and outcome (fallback = mock/empty substitution).",
		}, []string{"provider", "outcome"}),
		ProviderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "dashboard",
			Name:      "provider_request_duration_seconds",
			Help:      "Provider API request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"provider"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dashboard",
			Name:      "geocode_cache_total",
			Help:      "Geocode query cache lookups by result.",
		}, []string{"result"}),
		Aggregations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dashboard",
			Name:      "aggregations_total",
			Help:      "Location aggregations by outcome.",
		}, []string{"outcome"}),
		AggregationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "dashboard",
			Name:      "aggregation_duration_seconds",
			Help:      "Duration of a complete fan-out/join aggregation.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15},
		}),
		LocationsTracked: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "dashboard",
			Name:      "locations_tracked",
			Help:      "Number of locations currently in the collection.",
		}),
		StateSaves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dashboard",
			Name:      "state_saves_total",
			Help:      "State document save attempts by outcome.",
		}, []string{"outcome"}),
		StateLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dashboard",
			Name:      "state_loads_total",
			Help:      "State document load attempts by outcome.",
		}, []string{"outcome"}),
	}

	prometheus.MustRegister(
		m.ProviderRequests,
		m.ProviderDuration,
		m.GeocodeCache,
		m.Aggregations,
		m.AggregationDuration,
		m.LocationsTracked,
		m.StateSaves,
		m.StateLoads,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		ProviderRequests:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "dashboard", Name: "provider_requests_total"}, []string{"provider", "outcome"}),
		ProviderDuration:    prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "dashboard", Name: "provider_request_duration_seconds"}, []string{"provider"}),
		GeocodeCache:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "dashboard", Name: "geocode_cache_total"}, []string{"result"}),
		Aggregations:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "dashboard", Name: "aggregations_total"}, []string{"outcome"}),
		AggregationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "dashboard", Name: "aggregation_duration_seconds"}),
		LocationsTracked:    prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "dashboard", Name: "locations_tracked"}),
		StateSaves:          prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "dashboard", Name: "state_saves_total"}, []string{"outcome"}),
		StateLoads:          prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "dashboard", Name: "state_loads_total"}, []string{"outcome"}),
	}
}
