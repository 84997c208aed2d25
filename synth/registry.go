package synth

import (
	"sync"
	"sync/atomic"
)

// Registry is the concurrent-safe store of notes keyed by key identity
// One control goroutine writes; the render goroutine reads through Snapshot
// Entries are never deleted, so the size is bounded by the number of distinct keys
type Registry struct {
	mu    sync.RWMutex
	notes map[rune]Note
	order []rune // First-press order, gives snapshots a stable iteration order

	// gen is bumped after every mutation so readers can skip unchanged snapshots
	gen atomic.Uint64
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		notes: make(map[rune]Note),
	}
}

// Trigger creates or overwrites the note for key and (re)starts it at now
// Onset never moves backwards for the same key
func (r *Registry) Trigger(key rune, frequency, velocity, now float64) Note {
	velocity = clamp01(velocity)

	r.mu.Lock()
	prev, exists := r.notes[key]
	onset := now
	if exists && prev.Onset > onset {
		onset = prev.Onset
	}
	n := Note{
		Key:       key,
		Frequency: frequency,
		Onset:     onset,
		Active:    true,
		Velocity:  velocity,
	}
	r.notes[key] = n
	if !exists {
		r.order = append(r.order, key)
	}
	r.mu.Unlock()

	r.gen.Add(1)
	return n
}

// Release marks the note inactive at now, keeping the entry
// Returns false if the key is unknown or already released
func (r *Registry) Release(key rune, now float64) bool {
	r.mu.Lock()
	n, ok := r.notes[key]
	if !ok || !n.Active {
		r.mu.Unlock()
		return false
	}
	n.Active = false
	n.ReleasedAt = now
	r.notes[key] = n
	r.mu.Unlock()

	r.gen.Add(1)
	return true
}

// ReleaseAll releases every active note, returns the count released
func (r *Registry) ReleaseAll(now float64) int {
	r.mu.Lock()
	count := 0
	for _, key := range r.order {
		n := r.notes[key]
		if !n.Active {
			continue
		}
		n.Active = false
		n.ReleasedAt = now
		r.notes[key] = n
		count++
	}
	r.mu.Unlock()

	if count > 0 {
		r.gen.Add(1)
	}
	return count
}

// Get returns a copy of the note for key
func (r *Registry) Get(key rune) (Note, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, ok := r.notes[key]
	return n, ok
}

// Len returns the number of entries ever created
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.notes)
}

// Snapshot appends a consistent copy of all entries to dst[:0]
// Reusing dst keeps the render path allocation-free once capacity is reached
func (r *Registry) Snapshot(dst []Note) []Note {
	dst = dst[:0]
	r.mu.RLock()
	for _, key := range r.order {
		dst = append(dst, r.notes[key])
	}
	r.mu.RUnlock()
	return dst
}

// Generation returns the mutation counter
func (r *Registry) Generation() uint64 {
	return r.gen.Load()
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
