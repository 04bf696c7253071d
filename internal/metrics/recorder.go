package metrics

import (
	"sort"
	"strings"
	"sync"
)

// Recorder is an in-memory Backend. Counters are summed and histogram
// observations kept per metric name and label set. It is safe for concurrent
// use.
type Recorder struct {
	mu       sync.Mutex
	counters map[string]float64
	observed map[string][]float64
	flushes  int
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		counters: make(map[string]float64),
		observed: make(map[string][]float64),
	}
}

func (r *Recorder) IncCounter(name string, delta float64, labels Labels) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counters[seriesKey(name, labels)] += delta
}

func (r *Recorder) ObserveHistogram(name string, value float64, labels Labels) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := seriesKey(name, labels)
	r.observed[k] = append(r.observed[k], value)
}

func (r *Recorder) Flush() error {
	r.mu.Lock()
	r.flushes++
	r.mu.Unlock()
	return nil
}

// Counter returns the current value of the counter name{labels}.
func (r *Recorder) Counter(name string, labels Labels) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counters[seriesKey(name, labels)]
}

// Observations returns a copy of the values observed for name{labels}.
func (r *Recorder) Observations(name string, labels Labels) []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]float64(nil), r.observed[seriesKey(name, labels)]...)
}

// Flushes reports how many times Flush was called.
func (r *Recorder) Flushes() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.flushes
}

// seriesKey renders name{k1="v1",k2="v2"} with keys sorted.
func seriesKey(name string, labels Labels) string {
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString(name)
	sb.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(k)
		sb.WriteString(`="`)
		sb.WriteString(labels[k])
		sb.WriteByte('"')
	}
	sb.WriteByte('}')
	return sb.String()
}
