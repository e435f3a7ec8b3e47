// Package metrics records operational metrics for the cleaning pipeline
// behind a narrow, backend-agnostic interface.
//
// A global backend defaults to a no-op implementation, so instrumentation is
// always safe to call. Concrete systems live in subpackages (prompush,
// datadog) and are installed with SetBackend.
package metrics

import "time"

// Metric names emitted by the helpers below.
const (
	StageTotal    = "luxetl_stage_total"
	StageDuration = "luxetl_stage_duration_seconds"
	RowsTotal     = "luxetl_rows_total"
	OutliersTotal = "luxetl_outliers_total"
)

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveHistogram records a value in a latency/duration style metric.
	ObserveHistogram(name string, value float64, labels Labels)
	// Flush pushes or flushes metrics, if the backend needs it (e.g. Pushgateway).
	Flush() error
}

// nopBackend is used by default so metrics are optional.
type nopBackend struct{}

func (nopBackend) IncCounter(name string, delta float64, labels Labels)       {}
func (nopBackend) ObserveHistogram(name string, value float64, labels Labels) {}
func (nopBackend) Flush() error                                               { return nil }

var backend Backend = nopBackend{}

// SetBackend installs a concrete backend. Passing nil keeps the existing backend.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	backend = b
}

// Flush delegates to the current backend.
func Flush() error {
	return backend.Flush()
}

// RecordStage counts one execution of a pipeline stage and its duration,
// labelled with success or failure.
func RecordStage(job, stage string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}

	lbls := Labels{
		"job":    job,
		"stage":  stage,
		"status": status,
	}

	backend.IncCounter(StageTotal, 1, lbls)
	backend.ObserveHistogram(StageDuration, d.Seconds(), lbls)
}

// RecordRows adds delta to the row counter for kind. Kinds used by the
// pipeline:
//   - "loaded"
//   - "dropped"
//   - "imputed"
//   - "invalid"
//   - "stored"
//
// Non-positive deltas are ignored.
func RecordRows(job, kind string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter(RowsTotal, float64(delta), Labels{
		"job":  job,
		"kind": kind,
	})
}

// RecordOutliers adds the number of IQR outliers found in column.
func RecordOutliers(job, column string, n int) {
	if n <= 0 {
		return
	}
	backend.IncCounter(OutliersTotal, float64(n), Labels{
		"job":    job,
		"column": column,
	})
}
