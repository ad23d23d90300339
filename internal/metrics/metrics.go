// Package metrics instruments budget operations with Prometheus.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "budget"

// Result labels for operation counters.
const (
	ResultOK       = "ok"
	ResultNotFound = "not_found"
	ResultInvalid  = "invalid"
	ResultError    = "error"
)

// Recorder collects store metrics on its own registry. A nil *Recorder
// discards everything.
type Recorder struct {
	registry *prometheus.Registry

	operations      *prometheus.CounterVec
	persistErrors   prometheus.Counter
	persistDuration prometheus.Histogram
	periods         prometheus.Gauge
	templateItems   prometheus.Gauge
}

// NewRecorder creates a Recorder with a fresh registry, so several
// recorders never collide (one per test, one per process).
func NewRecorder() *Recorder {
	r := &Recorder{registry: prometheus.NewRegistry()}

	r.operations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "operations_total",
			Help:      "Store operations by name and result.",
		},
		[]string{"operation", "result"},
	)

	r.persistErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "persist_errors_total",
			Help:      "Writes to the storage backend that failed and were absorbed.",
		},
	)

	r.persistDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "persist_duration_seconds",
			Help:      "Duration of storage batch writes in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		},
	)

	r.periods = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "periods",
			Help:      "Number of budget periods held by the store.",
		},
	)

	r.templateItems = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "template_items",
			Help:      "Number of items in the active template.",
		},
	)

	r.registry.MustRegister(
		r.operations,
		r.persistErrors,
		r.persistDuration,
		r.periods,
		r.templateItems,
	)
	return r
}

// Registry exposes the underlying registry for gathering.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// Operation counts one store operation.
func (r *Recorder) Operation(name, result string) {
	if r == nil {
		return
	}
	r.operations.WithLabelValues(name, result).Inc()
}

// Persist records one batch write. err != nil counts as an absorbed failure.
func (r *Recorder) Persist(took time.Duration, err error) {
	if r == nil {
		return
	}
	r.persistDuration.Observe(took.Seconds())
	if err != nil {
		r.persistErrors.Inc()
	}
}

// State updates the size gauges.
func (r *Recorder) State(periods, templateItems int) {
	if r == nil {
		return
	}
	r.periods.Set(float64(periods))
	r.templateItems.Set(float64(templateItems))
}

// WriteTextfile writes all metrics in the text exposition format, for the
// node exporter textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
