// Package metrics records run statistics in a Prometheus registry that can be
// written out for the node_exporter textfile collector.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds every satvis collector. It is separate from the default
// registry so exported files contain only run metrics.
var Registry = prometheus.NewRegistry()

var (
	rowsLoadedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "satvis_rows_loaded_total",
			Help: "Total number of ephemeris rows read from the input table.",
		},
	)

	rowsDroppedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "satvis_rows_dropped_total",
			Help: "Total number of rows discarded before conversion, by reason.",
		},
		[]string{"reason"},
	)

	rowsVisible = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "satvis_rows_visible",
			Help: "Number of rows inside the altitude window in the last run.",
		},
	)

	passes = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "satvis_passes",
			Help: "Number of contiguous visible passes in the last run.",
		},
	)

	stageDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "satvis_stage_duration_seconds",
			Help:    "Duration of each pipeline stage in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		},
		[]string{"stage"},
	)

	runsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "satvis_runs_total",
			Help: "Total number of pipeline runs, by result (ok or the failure kind).",
		},
		[]string{"result"},
	)

	lastRunTimestamp = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "satvis_last_run_timestamp_seconds",
			Help: "Unix time the last run finished.",
		},
	)
)

func init() {
	Registry.MustRegister(rowsLoadedTotal)
	Registry.MustRegister(rowsDroppedTotal)
	Registry.MustRegister(rowsVisible)
	Registry.MustRegister(passes)
	Registry.MustRegister(stageDurationSeconds)
	Registry.MustRegister(runsTotal)
	Registry.MustRegister(lastRunTimestamp)
}

// RecordLoaded adds n loaded rows.
func RecordLoaded(n int) {
	rowsLoadedTotal.Add(float64(n))
}

// RecordDropped adds n rows dropped for reason.
func RecordDropped(reason string, n int) {
	if n > 0 {
		rowsDroppedTotal.WithLabelValues(reason).Add(float64(n))
	}
}

// SetVisible sets the visible row count of the current run.
func SetVisible(n int) {
	rowsVisible.Set(float64(n))
}

// SetPasses sets the pass count of the current run.
func SetPasses(n int) {
	passes.Set(float64(n))
}

// ObserveStage records how long a stage took.
func ObserveStage(stage string, d time.Duration) {
	stageDurationSeconds.WithLabelValues(stage).Observe(d.Seconds())
}

// RecordRun counts a finished run and stamps its completion time.
func RecordRun(result string, finished time.Time) {
	runsTotal.WithLabelValues(result).Inc()
	lastRunTimestamp.Set(float64(finished.Unix()))
}

// WriteTextfile writes the registry in text exposition format to path.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, Registry)
}
