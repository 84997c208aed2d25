package synth

import (
	"sync"
	"testing"
)

// TestRegistryTrigger verifies create-on-first-press semantics
func TestRegistryTrigger(t *testing.T) {
	r := NewRegistry()
	n := r.Trigger('a', 440, 0.7, 1.5)

	if !n.Active || n.Frequency != 440 || n.Onset != 1.5 || n.Velocity != 0.7 || n.Key != 'a' {
		t.Errorf("Unexpected note %+v", n)
	}
	if r.Len() != 1 {
		t.Errorf("Expected 1 entry, got %d", r.Len())
	}
	if got, ok := r.Get('a'); !ok || got != n {
		t.Errorf("Expected stored note %+v, got %+v (ok=%v)", n, got, ok)
	}
}

// TestRegistryRetrigger verifies re-press overwrites the entry and restarts onset
func TestRegistryRetrigger(t *testing.T) {
	r := NewRegistry()
	r.Trigger('a', 440, 0.7, 0)
	r.Release('a', 1.0)

	n := r.Trigger('a', 440, 0.9, 2.0)
	if !n.Active || n.Onset != 2.0 || n.Velocity != 0.9 {
		t.Errorf("Expected reactivated note at 2.0, got %+v", n)
	}
	if r.Len() != 1 {
		t.Errorf("Expected re-press to reuse the entry, got %d entries", r.Len())
	}

	// Mid-sustain retrigger restarts the envelope from zero
	env := DefaultADSR()
	r.Trigger('a', 440, 0.9, 5.0)
	got, _ := r.Get('a')
	if lvl := got.Level(5.0, env); lvl != 0 {
		t.Errorf("Expected envelope restart at 0, got %v", lvl)
	}
}

// TestRegistryOnsetMonotonic verifies onset never moves backwards
func TestRegistryOnsetMonotonic(t *testing.T) {
	r := NewRegistry()
	r.Trigger('a', 440, 1, 3.0)
	n := r.Trigger('a', 440, 1, 2.0)
	if n.Onset != 3.0 {
		t.Errorf("Expected onset held at 3.0, got %v", n.Onset)
	}
}

// TestRegistryVelocityClamped verifies velocity is kept in [0,1]
func TestRegistryVelocityClamped(t *testing.T) {
	r := NewRegistry()
	if n := r.Trigger('a', 440, 1.7, 0); n.Velocity != 1 {
		t.Errorf("Expected velocity 1, got %v", n.Velocity)
	}
	if n := r.Trigger('s', 440, -0.2, 0); n.Velocity != 0 {
		t.Errorf("Expected velocity 0, got %v", n.Velocity)
	}
}

// TestRegistryRelease verifies release keeps the entry and records the time
func TestRegistryRelease(t *testing.T) {
	r := NewRegistry()
	if r.Release('x', 0) {
		t.Error("Expected release of unknown key to fail")
	}

	r.Trigger('a', 440, 0.7, 0)
	if !r.Release('a', 2.0) {
		t.Fatal("Expected release to succeed")
	}
	if r.Release('a', 2.5) {
		t.Error("Expected second release to be a no-op")
	}

	n, ok := r.Get('a')
	if !ok || n.Active || n.ReleasedAt != 2.0 {
		t.Errorf("Expected released entry at 2.0, got %+v (ok=%v)", n, ok)
	}
}

// TestRegistryReleaseAll verifies bulk release
func TestRegistryReleaseAll(t *testing.T) {
	r := NewRegistry()
	r.Trigger('a', 440, 1, 0)
	r.Trigger('s', 493.88, 1, 0)
	r.Release('s', 0.5)

	if got := r.ReleaseAll(1.0); got != 1 {
		t.Errorf("Expected 1 note released, got %d", got)
	}
	for _, n := range r.Snapshot(nil) {
		if n.Active {
			t.Errorf("Expected all notes inactive, %c is active", n.Key)
		}
	}
}

// TestRegistrySnapshotOrder verifies first-press order and dst reuse
func TestRegistrySnapshotOrder(t *testing.T) {
	r := NewRegistry()
	keys := []rune{'k', 'a', 'f'}
	for i, k := range keys {
		r.Trigger(k, float64(100*(i+1)), 1, 0)
	}
	r.Trigger('a', 200, 1, 1) // Re-press must not move the key

	buf := make([]Note, 0, 8)
	snap := r.Snapshot(buf)
	if len(snap) != len(keys) {
		t.Fatalf("Expected %d notes, got %d", len(keys), len(snap))
	}
	for i, k := range keys {
		if snap[i].Key != k {
			t.Errorf("Position %d: expected %c, got %c", i, k, snap[i].Key)
		}
	}
	if &snap[0] != &buf[:1][0] {
		t.Error("Expected snapshot to reuse dst storage")
	}
}

// TestRegistryGeneration verifies every mutation bumps the counter
func TestRegistryGeneration(t *testing.T) {
	r := NewRegistry()
	g0 := r.Generation()
	r.Trigger('a', 440, 1, 0)
	g1 := r.Generation()
	r.Release('a', 1)
	g2 := r.Generation()
	r.Release('a', 2) // No-op
	g3 := r.Generation()

	if !(g0 < g1 && g1 < g2) {
		t.Errorf("Expected increasing generations, got %d %d %d", g0, g1, g2)
	}
	if g3 != g2 {
		t.Errorf("Expected no-op release to keep generation %d, got %d", g2, g3)
	}
}

// TestRegistryConcurrentNoTornReads hammers one writer against one reader
// Each write keeps Frequency == Onset*10 and Velocity == Onset/1e6; a torn read breaks the relation
func TestRegistryConcurrentNoTornReads(t *testing.T) {
	r := NewRegistry()
	const writes = 20000
	keys := []rune("asdfghjkl;")

	var wg sync.WaitGroup
	done := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(done)
		for i := 1; i <= writes; i++ {
			onset := float64(i)
			k := keys[i%len(keys)]
			r.Trigger(k, onset*10, onset/1e6, onset)
			if i%3 == 0 {
				r.Release(k, onset)
			}
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		var snap []Note
		for {
			snap = r.Snapshot(snap)
			for _, n := range snap {
				if n.Frequency != n.Onset*10 || n.Velocity != n.Onset/1e6 {
					t.Errorf("Torn note observed: %+v", n)
					return
				}
				if !n.Active && n.ReleasedAt != n.Onset {
					t.Errorf("Torn release observed: %+v", n)
					return
				}
			}
			select {
			case <-done:
				return
			default:
			}
		}
	}()

	wg.Wait()
	if r.Len() != len(keys) {
		t.Errorf("Expected %d entries, got %d", len(keys), r.Len())
	}
}
