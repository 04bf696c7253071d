// Package metrics provides a small, backend-agnostic abstraction for recording
// operational metrics from an ordersql run.
//
// It exposes a narrow Backend interface (counters and histograms), a process
// default that is a no-op until SetBackend installs something else, and an
// in-memory Recorder backend for tests and run summaries. Pipeline code records
// through a Job, which carries the job label and the backend to use.
package metrics

import (
	"sync"
	"time"
)

// Metric names.
const (
	StepTotal           = "ordersql_step_total"
	StepDurationSeconds = "ordersql_step_duration_seconds"
	RowsTotal           = "ordersql_rows_total"
)

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveHistogram records a value in a latency/duration style metric.
	ObserveHistogram(name string, value float64, labels Labels)
	// Flush pushes or flushes metrics, if the backend needs it.
	Flush() error
}

// nopBackend is used by default so metrics are optional.
type nopBackend struct{}

func (nopBackend) IncCounter(string, float64, Labels)       {}
func (nopBackend) ObserveHistogram(string, float64, Labels) {}
func (nopBackend) Flush() error                             { return nil }

var (
	mu      sync.RWMutex
	backend Backend = nopBackend{}
)

// SetBackend installs the process default backend. Passing nil keeps the
// existing backend.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	mu.Lock()
	backend = b
	mu.Unlock()
}

// Default returns the process default backend.
func Default() Backend {
	mu.RLock()
	defer mu.RUnlock()
	return backend
}

// Job records metrics for one named job.
type Job struct {
	Name    string
	Backend Backend
}

// ForJob returns a Job for name. A nil backend means Default().
func ForJob(name string, b Backend) Job {
	if b == nil {
		b = Default()
	}
	return Job{Name: name, Backend: b}
}

// Step records the latency and outcome of one pipeline step
// (load, transform, emit).
func (j Job) Step(step string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	lbls := Labels{
		"job":    j.Name,
		"step":   step,
		"status": status,
	}
	j.Backend.IncCounter(StepTotal, 1, lbls)
	j.Backend.ObserveHistogram(StepDurationSeconds, d.Seconds(), lbls)
}

// Rows increments the row counter for kind. Typical kinds:
//   - "loaded"
//   - "cleaned"
//   - "parse_errors"
//   - "emitted"
func (j Job) Rows(kind string, delta int64) {
	if delta <= 0 {
		return
	}
	j.Backend.IncCounter(RowsTotal, float64(delta), Labels{
		"job":  j.Name,
		"kind": kind,
	})
}

// Flush delegates to the job's backend.
func (j Job) Flush() error { return j.Backend.Flush() }
