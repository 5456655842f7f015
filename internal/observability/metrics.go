package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for the pipeline stages.
type Metrics struct {
	// Fetch stage.
	PagesFetched        prometheus.Counter
	ObservationsFetched prometheus.Counter
	FetchRequestSeconds prometheus.Histogram

	// Normalize stage.
	RowsNormalized  prometheus.Counter
	LeapDaysDropped prometheus.Counter
	ImplausibleRows prometheus.Counter

	// Trend stage.
	SeriesAnalyzed *prometheus.CounterVec // labels: window
	TrendFailures  *prometheus.CounterVec // labels: window, reason
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.PagesFetched,
		m.ObservationsFetched,
		m.FetchRequestSeconds,
		m.RowsNormalized,
		m.LeapDaysDropped,
		m.ImplausibleRows,
		m.SeriesAnalyzed,
		m.TrendFailures,
	)
	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		PagesFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "heattrends",
			Name:      "pages_fetched_total",
			Help:      "API pages retrieved from upstream climate sources.",
		}),
		ObservationsFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "heattrends",
			Name:      "observations_fetched_total",
			Help:      "Raw observation rows retrieved from upstream climate sources.",
		}),
		FetchRequestSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "heattrends",
			Name:      "fetch_request_duration_seconds",
			Help:      "Upstream API request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		RowsNormalized: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "heattrends",
			Name:      "rows_normalized_total",
			Help:      "Tidy records produced by normalization.",
		}),
		LeapDaysDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "heattrends",
			Name:      "leap_days_dropped_total",
			Help:      "February 29 observations discarded during normalization.",
		}),
		ImplausibleRows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "heattrends",
			Name:      "implausible_rows_total",
			Help:      "Raw rows whose converted value fell outside physical bounds.",
		}),
		SeriesAnalyzed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "heattrends",
			Name:      "series_analyzed_total",
			Help:      "Yearly series fitted by the trend analyzer.",
		}, []string{"window"}),
		TrendFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "heattrends",
			Name:      "trend_failures_total",
			Help:      "Per-series trend analysis failures by reason.",
		}, []string{"window", "reason"}),
	}
}
