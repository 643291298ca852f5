package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	runsTotal      *prometheus.CounterVec
	runDuration    prometheus.Histogram
	lastRun        prometheus.Gauge
	snapshotRows   prometheus.Gauge
	signalsEmitted *prometheus.GaugeVec
	fallbacksTotal *prometheus.CounterVec
	publishTotal   *prometheus.CounterVec
	publishLatency prometheus.Histogram
	errorsTotal    *prometheus.CounterVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		runsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "curvescout_runs_total",
				Help: "Total number of signal generation runs by status",
			},
			[]string{"status"},
		),
		runDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "curvescout_run_duration_seconds",
				Help:    "Duration of a full generation run in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		lastRun: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "curvescout_last_run_timestamp_seconds",
				Help: "Unix time of the last successful generation run",
			},
		),
		snapshotRows: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "curvescout_snapshot_rows_loaded",
				Help: "Indicator rows loaded by the latest run",
			},
		),
		signalsEmitted: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "curvescout_signals_emitted",
				Help: "Ranked signals emitted by the latest run",
			},
			[]string{"strategy", "direction"},
		),
		fallbacksTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "curvescout_fallback_signals_total",
				Help: "Runs where a strategy fell back to its best non-qualifying candidate",
			},
			[]string{"strategy"},
		),
		publishTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "curvescout_publishes_total",
				Help: "Run publications to the downstream topic by status",
			},
			[]string{"status"},
		),
		publishLatency: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "curvescout_publish_duration_seconds",
				Help:    "Duration of run publication in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "curvescout_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
	}
}

// RecordRun records a finished run with its status and duration.
func (r *Recorder) RecordRun(status string, seconds float64) {
	r.runsTotal.WithLabelValues(status).Inc()
	r.runDuration.Observe(seconds)
	if status == "ok" {
		r.lastRun.SetToCurrentTime()
	}
}

// RecordSnapshotRows records how many indicator rows the run loaded.
func (r *Recorder) RecordSnapshotRows(n int) {
	r.snapshotRows.Set(float64(n))
}

// RecordSignals records the ranked signal count for a strategy/direction.
func (r *Recorder) RecordSignals(strategy, direction string, n int) {
	r.signalsEmitted.WithLabelValues(strategy, direction).Set(float64(n))
}

// RecordFallback records a best-candidate fallback for a strategy.
func (r *Recorder) RecordFallback(strategy string) {
	r.fallbacksTotal.WithLabelValues(strategy).Inc()
}

// RecordPublish records a publish attempt and its latency.
func (r *Recorder) RecordPublish(seconds float64, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	r.publishTotal.WithLabelValues(status).Inc()
	r.publishLatency.Observe(seconds)
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}
