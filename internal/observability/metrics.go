package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the tracker.
type Metrics struct {
	FetchRequests   *prometheus.CounterVec   // labels: feed={national,states}, outcome={success,error,empty,cancelled}
	FetchDuration   *prometheus.HistogramVec // labels: feed
	RecordsFetched  *prometheus.CounterVec   // labels: feed
	RecordsDropped  prometheus.Counter
	RegionsTracked  prometheus.Gauge
	DatasetVersion  prometheus.Gauge
	RefreshRunning  prometheus.Gauge
	LastRefreshTime prometheus.Gauge

	// Chart rendering metrics.
	ChartRenders        *prometheus.CounterVec // labels: outcome={success,error}
	ChartCache          *prometheus.CounterVec // labels: result={hit,miss}
	ChartRenderDuration prometheus.Histogram

	// Kafka sink metrics.
	RecordsPublished prometheus.Counter
	PublishErrors    prometheus.Counter
}

// NewMetrics creates and registers all tracker metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.FetchRequests,
		m.FetchDuration,
		m.RecordsFetched,
		m.RecordsDropped,
		m.RegionsTracked,
		m.DatasetVersion,
		m.RefreshRunning,
		m.LastRefreshTime,
		m.ChartRenders,
		m.ChartCache,
		m.ChartRenderDuration,
		m.RecordsPublished,
		m.PublishErrors,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		FetchRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "covid_tracker",
			Name:      "fetch_requests_total",
			Help:      "Upstream feed requests by feed and outcome.",
		}, []string{"feed", "outcome"}),
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "covid_tracker",
			Name:      "fetch_duration_seconds",
			Help:      "Upstream feed request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"feed"}),
		RecordsFetched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "covid_tracker",
			Name:      "records_fetched_total",
			Help:      "Raw records received per feed.",
		}, []string{"feed"}),
		RecordsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "covid_tracker",
			Name:      "records_dropped_total",
			Help:      "Per-state records discarded for lacking a valid date.",
		}),
		RegionsTracked: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "covid_tracker",
			Name:      "regions_tracked",
			Help:      "Number of regions in the current grouping.",
		}),
		DatasetVersion: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "covid_tracker",
			Name:      "dataset_version",
			Help:      "Version of the dataset currently served.",
		}),
		RefreshRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "covid_tracker",
			Name:      "refresh_loop_running",
			Help:      "1 when the refresh loop is active, 0 when shut down.",
		}),
		LastRefreshTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "covid_tracker",
			Name:      "last_refresh_timestamp_seconds",
			Help:      "Unix time of the last completed refresh.",
		}),
		ChartRenders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "covid_tracker",
			Name:      "chart_renders_total",
			Help:      "PNG chart renders by outcome.",
		}, []string{"outcome"}),
		ChartCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "covid_tracker",
			Name:      "chart_cache_total",
			Help:      "Chart cache lookups by result.",
		}, []string{"result"}),
		ChartRenderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "covid_tracker",
			Name:      "chart_render_duration_seconds",
			Help:      "Duration of a PNG chart render.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		RecordsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "covid_tracker",
			Name:      "records_published_total",
			Help:      "Normalized records written to the Kafka sink.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "covid_tracker",
			Name:      "publish_errors_total",
			Help:      "Failed Kafka publish attempts.",
		}),
	}
}
