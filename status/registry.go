package status

import "sync/atomic"

// Metric keys published by the engine and the control loop
const (
	KeyBlocksWritten = "audio.blocks"
	KeyUnderruns     = "audio.underruns"
	KeyRecoveries    = "audio.recoveries"
	KeyClock         = "audio.clock"
	KeySampleRate    = "audio.rate"
	KeySink          = "audio.sink"
	KeyRunning       = "audio.running"
	KeyNotesOn       = "input.notes_on"
	KeyAutoReleases  = "input.auto_releases"
	KeyLastNote      = "input.last_note"
)

// Registry is the central metrics facade
// Services cache pointers during init; hot loops write directly to atomics
type Registry struct {
	Bools   *MetricMap[atomic.Bool]
	Ints    *MetricMap[atomic.Int64]
	Floats  *MetricMap[AtomicFloat]
	Strings *MetricMap[AtomicString]
}

// NewRegistry creates an initialized Registry
func NewRegistry() *Registry {
	return &Registry{
		Bools:   NewMetricMap[atomic.Bool](),
		Ints:    NewMetricMap[atomic.Int64](),
		Floats:  NewMetricMap[AtomicFloat](),
		Strings: NewMetricMap[AtomicString](),
	}
}

// TotalCount returns total metrics across all types
func (r *Registry) TotalCount() int {
	return r.Bools.Count() + r.Ints.Count() + r.Floats.Count() + r.Strings.Count()
}

// Lines renders every metric as "key=value" in sorted order per type
func (r *Registry) Lines() []string {
	lines := make([]string, 0, r.TotalCount())
	r.Bools.Range(func(key string, ptr *atomic.Bool) {
		lines = append(lines, key+"="+formatBool(ptr.Load()))
	})
	r.Ints.Range(func(key string, ptr *atomic.Int64) {
		lines = append(lines, key+"="+formatInt(ptr.Load()))
	})
	r.Floats.Range(func(key string, ptr *AtomicFloat) {
		lines = append(lines, key+"="+formatFloat(ptr.Get()))
	})
	r.Strings.Range(func(key string, ptr *AtomicString) {
		lines = append(lines, key+"="+ptr.Load())
	})
	return lines
}
