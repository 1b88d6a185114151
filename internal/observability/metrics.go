package observability

import (
	"context"
	"time"

	"github.com/couchcryptid/turkey-weather-etl/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

const namespace = "weather_merge"

// Metrics holds the Prometheus collectors for the merge pipeline.
type Metrics struct {
	Rows            *prometheus.CounterVec // labels: outcome={accepted,dropped,outlier}
	DropReasons     *prometheus.CounterVec // labels: reason
	ShardsProcessed prometheus.Counter
	RowsOverwritten prometheus.Counter
	RowsWritten     prometheus.Gauge
	MergeRunning    prometheus.Gauge

	// Run metrics.
	Runs           *prometheus.CounterVec // labels: status={success,failure}
	RunDuration    prometheus.Histogram
	LastSuccessful prometheus.Gauge

	gatherer prometheus.Gatherer
}

func newMetrics() *Metrics {
	return &Metrics{
		Rows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_total",
			Help:      "Shard rows by validation outcome.",
		}, []string{"outcome"}),
		DropReasons: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_dropped_total",
			Help:      "Dropped shard rows by reason.",
		}, []string{"reason"}),
		ShardsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "shards_processed_total",
			Help:      "Total shard files validated.",
		}),
		RowsOverwritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_overwritten_total",
			Help:      "Duplicate (city, date) rows replaced by a later shard.",
		}),
		RowsWritten: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "master_rows",
			Help:      "Rows in the most recently published master dataset.",
		}),
		MergeRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "running",
			Help:      "1 while a merge run is in progress.",
		}),
		Runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Merge runs by final status.",
		}, []string{"status"}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of a complete merge run.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
		LastSuccessful: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful merge run.",
		}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.Rows,
		m.DropReasons,
		m.ShardsProcessed,
		m.RowsOverwritten,
		m.RowsWritten,
		m.MergeRunning,
		m.Runs,
		m.RunDuration,
		m.LastSuccessful,
	}
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(m.collectors()...)
	m.gatherer = prometheus.DefaultGatherer
	return m
}

// NewMetricsForTesting registers the metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	m := newMetrics()
	reg := prometheus.NewRegistry()
	reg.MustRegister(m.collectors()...)
	m.gatherer = reg
	return m
}

// Gatherer returns the registry the metrics were registered with.
func (m *Metrics) Gatherer() prometheus.Gatherer { return m.gatherer }

// RecordShard adds one shard summary to the row counters.
func (m *Metrics) RecordShard(s domain.ShardSummary) {
	m.ShardsProcessed.Inc()
	m.Rows.WithLabelValues("accepted").Add(float64(s.Accepted))
	m.Rows.WithLabelValues("dropped").Add(float64(s.Dropped))
	m.Rows.WithLabelValues("outlier").Add(float64(s.Outliers))
	for reason, n := range s.DropReasons {
		m.DropReasons.WithLabelValues(string(reason)).Add(float64(n))
	}
}

// RecordRun records the outcome of a finished run.
func (m *Metrics) RecordRun(report domain.RunReport, elapsed time.Duration, err error) {
	m.RunDuration.Observe(elapsed.Seconds())
	if err != nil {
		m.Runs.WithLabelValues("failure").Inc()
		return
	}
	m.Runs.WithLabelValues("success").Inc()
	m.RowsOverwritten.Add(float64(report.Overwritten))
	m.RowsWritten.Set(float64(report.RowsWritten))
	m.LastSuccessful.Set(float64(report.FinishedAt.Unix()))
}

// Push sends the current metric values to a Prometheus Pushgateway. One-shot
// runs use it since they exit before any scrape.
func (m *Metrics) Push(ctx context.Context, url string) error {
	return push.New(url, namespace).Gatherer(m.gatherer).PushContext(ctx)
}
