// Package metrics is a small, backend-agnostic layer for the pipeline's
// operational counters. A global, pluggable backend defaults to a no-op so
// instrumentation is always safe to call; concrete systems live in
// subpackages and the rest of the codebase depends only on this interface.
package metrics

import "time"

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveDuration records a latency-style value.
	ObserveDuration(name string, value float64, labels Labels)
	// Flush pushes buffered metrics when the backend needs it.
	Flush() error
}

type nopBackend struct{}

func (nopBackend) IncCounter(string, float64, Labels)      {}
func (nopBackend) ObserveDuration(string, float64, Labels) {}
func (nopBackend) Flush() error                            { return nil }

var backend Backend = nopBackend{}

// SetBackend installs a concrete backend. Passing nil keeps the current one.
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

// RecordStage measures one pipeline stage: latency plus success/failure.
func RecordStage(job, stage string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	lbls := Labels{"job": job, "stage": stage, "status": status}
	backend.IncCounter("catalog_stage_total", 1, lbls)
	backend.ObserveDuration("catalog_stage_duration_seconds", d.Seconds(), lbls)
}

// RecordRecords increments a record-level counter. Typical kinds mirror the
// run summaries: "processed", "matched", "new_only", "unmatched",
// "unresolved", "conflicts".
func RecordRecords(job, kind string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter("catalog_records_total", float64(delta), Labels{"job": job, "kind": kind})
}
