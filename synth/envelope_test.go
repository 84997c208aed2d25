package synth

import (
	"errors"
	"math"
	"testing"
)

const envTolerance = 1e-9

// TestEnvelopeLandmarks verifies stage values at the documented points
func TestEnvelopeLandmarks(t *testing.T) {
	env := DefaultADSR()
	decayEnd := env.Attack + env.Decay

	tests := []struct {
		name    string
		elapsed float64
		sustain bool
		want    float64
	}{
		{"onset", 0, true, 0},
		{"before onset", -0.5, true, 0},
		{"mid attack", env.Attack / 2, true, 0.5},
		{"attack end", env.Attack, true, 1},
		{"mid decay", env.Attack + env.Decay/2, true, 1 - 0.5*(1-env.Sustain)},
		{"decay end held", decayEnd, true, env.Sustain},
		{"long sustain", 2.0, true, env.Sustain},
		{"release start", decayEnd, false, env.Sustain},
		{"mid release", decayEnd + env.Release/2, false, env.Sustain / 2},
		{"release done", decayEnd + env.Release, false, 0},
		{"long after release", 10, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := env.Level(tt.elapsed, 0, tt.sustain)
			if math.Abs(got-tt.want) > envTolerance {
				t.Errorf("Level(%v, sustain=%v): expected %v, got %v", tt.elapsed, tt.sustain, tt.want, got)
			}
		})
	}
}

// TestEnvelopeSustainExact verifies the held level is exactly the sustain constant
func TestEnvelopeSustainExact(t *testing.T) {
	env := DefaultADSR()
	for _, now := range []float64{0.12, 0.5, 3, 100} {
		if got := env.Level(now, 0, true); got != 0.7 {
			t.Errorf("Expected exactly 0.7 at %v, got %v", now, got)
		}
	}
}

// TestEnvelopeContinuity verifies no jumps across stage boundaries
func TestEnvelopeContinuity(t *testing.T) {
	env := DefaultADSR()
	const eps = 1e-9
	boundaries := []float64{env.Attack, env.Attack + env.Decay, env.Attack + env.Decay + env.Release}

	for _, sustain := range []bool{true, false} {
		for _, b := range boundaries {
			before := env.Level(b-eps, 0, sustain)
			after := env.Level(b+eps, 0, sustain)
			if math.Abs(after-before) > 1e-6 {
				t.Errorf("Discontinuity at %v (sustain=%v): %v -> %v", b, sustain, before, after)
			}
		}
	}
}

// TestEnvelopeOnsetOffset verifies only elapsed time matters
func TestEnvelopeOnsetOffset(t *testing.T) {
	env := DefaultADSR()
	for _, elapsed := range []float64{0.003, 0.05, 0.2, 0.35} {
		a := env.Level(elapsed, 0, false)
		b := env.Level(12.5+elapsed, 12.5, false)
		if math.Abs(a-b) > 1e-9 {
			t.Errorf("Elapsed %v: expected %v, got %v with offset onset", elapsed, a, b)
		}
	}
}

// TestEnvelopeReleasedFromHeldLevel verifies the release ramp starts where the held contour was
func TestEnvelopeReleasedFromHeldLevel(t *testing.T) {
	env := DefaultADSR()

	// Released mid-sustain at 2.0
	if got := env.LevelReleased(2.0, 0, 2.0); math.Abs(got-env.Sustain) > envTolerance {
		t.Errorf("Expected %v at release instant, got %v", env.Sustain, got)
	}
	if got := env.LevelReleased(2.15, 0, 2.0); math.Abs(got-env.Sustain/2) > envTolerance {
		t.Errorf("Expected half sustain mid-release, got %v", got)
	}
	if got := env.LevelReleased(2.3, 0, 2.0); math.Abs(got) > envTolerance {
		t.Errorf("Expected ~0 after release, got %v", got)
	}

	// Released during attack: ramp from the partial level
	held := env.Level(0.005, 0, true)
	if got := env.LevelReleased(0.005, 0, 0.005); math.Abs(got-held) > envTolerance {
		t.Errorf("Expected %v at early release, got %v", held, got)
	}

	// Before release instant the held contour applies
	if got := env.LevelReleased(0.5, 0, 2.0); got != env.Sustain {
		t.Errorf("Expected held sustain before release, got %v", got)
	}
}

// TestEnvelopeDone verifies tail completion
func TestEnvelopeDone(t *testing.T) {
	env := DefaultADSR()
	if env.Done(2.1, 2.0) {
		t.Error("Expected tail still running 0.1s after release")
	}
	if !env.Done(2.31, 2.0) {
		t.Error("Expected tail finished after release time")
	}
}

// TestEnvelopeZeroDurations verifies degenerate contours stay finite
func TestEnvelopeZeroDurations(t *testing.T) {
	env := ADSR{Sustain: 0.5}
	if got := env.Level(0, 0, true); got != 0.5 {
		t.Errorf("Expected immediate sustain, got %v", got)
	}
	if got := env.Level(0, 0, false); got != 0 {
		t.Errorf("Expected immediate silence without hold, got %v", got)
	}
}

// TestEnvelopeValidate verifies invalid contours are rejected
func TestEnvelopeValidate(t *testing.T) {
	if err := DefaultADSR().Validate(); err != nil {
		t.Errorf("Expected default envelope valid, got %v", err)
	}
	bad := []ADSR{
		{Attack: -1, Sustain: 0.5},
		{Release: -0.1, Sustain: 0.5},
		{Sustain: 1.5},
		{Sustain: -0.1},
	}
	for _, e := range bad {
		if err := e.Validate(); !errors.Is(err, ErrInvalidEnvelope) {
			t.Errorf("Expected ErrInvalidEnvelope for %+v, got %v", e, err)
		}
	}
}
