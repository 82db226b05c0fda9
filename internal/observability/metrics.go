// Package observability holds the Prometheus collectors for tool calls
// and dataset loads.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome label values.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

var (
	toolCalls = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "healthmcp",
		Subsystem: "tools",
		Name:      "calls_total",
		Help:      "Tool invocations by tool name and outcome.",
	}, []string{"tool", "outcome"})

	loadDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "healthmcp",
		Subsystem: "dataset",
		Name:      "load_duration_seconds",
		Help:      "Time spent downloading and parsing the health workbook.",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
	})

	loads = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "healthmcp",
		Subsystem: "dataset",
		Name:      "loads_total",
		Help:      "Dataset load attempts by outcome.",
	}, []string{"outcome"})

	lastLoad = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "healthmcp",
		Subsystem: "dataset",
		Name:      "last_load_timestamp_seconds",
		Help:      "Unix timestamp of the most recent successful dataset load.",
	})
)

func init() {
	prometheus.MustRegister(toolCalls, loadDuration, loads, lastLoad)
}

// RecordToolCall counts one tool invocation.
func RecordToolCall(tool string, failed bool) {
	toolCalls.WithLabelValues(tool, outcome(failed)).Inc()
}

// RecordDatasetLoad observes one load attempt. The watermark gauge only
// moves on success.
func RecordDatasetLoad(finished time.Time, took time.Duration, err error) {
	loadDuration.Observe(took.Seconds())
	loads.WithLabelValues(outcome(err != nil)).Inc()
	if err == nil && !finished.IsZero() {
		lastLoad.Set(float64(finished.Unix()))
	}
}

func outcome(failed bool) string {
	if failed {
		return OutcomeError
	}
	return OutcomeOK
}
