package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus instruments for the ingestion pipeline.
type Metrics struct {
	FeaturesEmitted *prometheus.CounterVec   // label: source
	SourceFailures  *prometheus.CounterVec   // label: source
	SourceDuration  *prometheus.HistogramVec // label: source
	FetchRetries    prometheus.Counter
	RunDuration     prometheus.Histogram
	LastRunUnix     prometheus.Gauge
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.FeaturesEmitted,
		m.SourceFailures,
		m.SourceDuration,
		m.FetchRetries,
		m.RunDuration,
		m.LastRunUnix,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics across tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		FeaturesEmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "geo_ingest",
			Name:      "features_emitted_total",
			Help:      "Normalized features emitted per source.",
		}, []string{"source"}),
		SourceFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "geo_ingest",
			Name:      "source_failures_total",
			Help:      "Terminal per-source failures degraded to empty collections.",
		}, []string{"source"}),
		SourceDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "geo_ingest",
			Name:      "source_duration_seconds",
			Help:      "Fetch-and-normalize duration per source.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"source"}),
		FetchRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "geo_ingest",
			Name:      "fetch_retries_total",
			Help:      "HTTP fetch retry attempts across all sources.",
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "geo_ingest",
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete pipeline run.",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300},
		}),
		LastRunUnix: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "geo_ingest",
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time of the last completed run.",
		}),
	}
}
