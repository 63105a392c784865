package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the service.
type Metrics struct {
	// Fetch-and-store metrics.
	FetchRequests   *prometheus.CounterVec   // labels: dataset, outcome={success,shape,rejected,rate_limited,unavailable,invalid_request,...}
	FetchDuration   *prometheus.HistogramVec // labels: dataset
	SnapshotRecords *prometheus.GaugeVec     // labels: dataset
	PublishErrors   prometheus.Counter
	RefresherActive prometheus.Gauge

	// Correlation metrics.
	CorrelationRequests *prometheus.CounterVec // labels: outcome
	CorrelationPairs    prometheus.Histogram

	// Upstream provider metrics.
	UpstreamRequests *prometheus.CounterVec   // labels: provider, outcome
	UpstreamDuration *prometheus.HistogramVec // labels: provider

	// Geocoding metrics.
	GeocodeRequests *prometheus.CounterVec // labels: outcome={success,error,empty}
	GeocodeCache    *prometheus.CounterVec // labels: result={hit,miss}
	GeocodeEnabled  prometheus.Gauge
}

const namespace = "correlator"

var (
	correlationPairBuckets = []float64{0, 1, 2, 5, 10, 15, 20, 25, 35}
	durationBuckets        = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30}
)

func newMetrics() *Metrics {
	return &Metrics{
		FetchRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_requests_total",
			Help:      "Fetch-and-store operations by dataset and outcome.",
		}, []string{"dataset", "outcome"}),
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Duration of a fetch-normalize-store cycle.",
			Buckets:   durationBuckets,
		}, []string{"dataset"}),
		SnapshotRecords: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "snapshot_records",
			Help:      "Records in the current snapshot of each dataset.",
		}, []string{"dataset"}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_publish_errors_total",
			Help:      "Snapshot change events that could not be published.",
		}),
		RefresherActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "refresher_running",
			Help:      "1 when the periodic refresher is active, 0 otherwise.",
		}),
		CorrelationRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "correlation_requests_total",
			Help:      "Correlation requests by outcome.",
		}, []string{"outcome"}),
		CorrelationPairs: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "correlation_pairs",
			Help:      "Field pairs emitted per correlation result.",
			Buckets:   correlationPairBuckets,
		}),
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Upstream provider requests by provider and outcome.",
		}, []string{"provider", "outcome"}),
		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_duration_seconds",
			Help:      "Upstream provider request duration in seconds.",
			Buckets:   durationBuckets,
		}, []string{"provider"}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_requests_total",
			Help:      "Region geocoding requests by outcome.",
		}, []string{"outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_cache_total",
			Help:      "Geocoding cache lookups by result.",
		}, []string{"result"}),
		GeocodeEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "geocode_enabled",
			Help:      "1 when region geocoding is enabled, 0 otherwise.",
		}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.FetchRequests,
		m.FetchDuration,
		m.SnapshotRecords,
		m.PublishErrors,
		m.RefresherActive,
		m.CorrelationRequests,
		m.CorrelationPairs,
		m.UpstreamRequests,
		m.UpstreamDuration,
		m.GeocodeRequests,
		m.GeocodeCache,
		m.GeocodeEnabled,
	}
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(m.collectors()...)
	return m
}

// NewMetricsForTesting creates Metrics registered with a fresh registry to
// avoid "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	m := newMetrics()
	prometheus.NewRegistry().MustRegister(m.collectors()...)
	return m
}
