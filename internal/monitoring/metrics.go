package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms shared by the ETL and
// the dashboard server.
type Metrics struct {
	RecordsAggregated  prometheus.Counter
	SummaryRowsWritten *prometheus.CounterVec // label: table
	CombosFetched      *prometheus.CounterVec // label: outcome={success,skipped}
	StageDuration      *prometheus.HistogramVec

	HTTPRequests *prometheus.CounterVec // labels: path, status
	HTTPDuration *prometheus.HistogramVec
	StoreOpen    prometheus.Gauge
}

func newMetrics() *Metrics {
	return &Metrics{
		RecordsAggregated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "resstock",
			Name:      "records_aggregated_total",
			Help:      "Building records consumed by the county aggregation.",
		}),
		SummaryRowsWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "resstock",
			Name:      "summary_rows_written_total",
			Help:      "Rows written into the summary tables, per table.",
		}, []string{"table"}),
		CombosFetched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "resstock",
			Name:      "loadshape_combinations_total",
			Help:      "Load-shape combinations processed, by outcome.",
		}, []string{"outcome"}),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "resstock",
			Name:      "stage_duration_seconds",
			Help:      "Duration of each aggregation stage.",
			Buckets:   []float64{0.1, 0.5, 1, 5, 15, 60, 300, 1200},
		}, []string{"stage"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "resstock",
			Name:      "http_requests_total",
			Help:      "Dashboard HTTP requests by path and status.",
		}, []string{"path", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "resstock",
			Name:      "http_request_duration_seconds",
			Help:      "Dashboard HTTP request duration.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"path"}),
		StoreOpen: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "resstock",
			Name:      "store_open",
			Help:      "1 when the summary store is open.",
		}),
	}
}

// NewMetrics creates the metric set and registers it with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RecordsAggregated,
		m.SummaryRowsWritten,
		m.CombosFetched,
		m.StageDuration,
		m.HTTPRequests,
		m.HTTPDuration,
		m.StoreOpen,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics across tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}
