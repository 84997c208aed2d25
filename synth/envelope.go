package synth

import (
	"fmt"

	"github.com/lixenwraith/keysynth/constant"
)

// ADSR is a linear attack/decay/sustain/release contour
// Durations are seconds, Sustain is a level in [0,1]
// The contour is a pure function of its inputs and holds no per-note state
type ADSR struct {
	Attack  float64 `yaml:"attack"`
	Decay   float64 `yaml:"decay"`
	Sustain float64 `yaml:"sustain"`
	Release float64 `yaml:"release"`
}

// DefaultADSR returns the default piano-like contour
func DefaultADSR() ADSR {
	return ADSR{
		Attack:  constant.EnvelopeAttack,
		Decay:   constant.EnvelopeDecay,
		Sustain: constant.EnvelopeSustain,
		Release: constant.EnvelopeRelease,
	}
}

// Validate rejects negative durations and sustain levels outside [0,1]
func (e ADSR) Validate() error {
	if e.Attack < 0 || e.Decay < 0 || e.Release < 0 {
		return fmt.Errorf("%w: negative duration (a=%g d=%g r=%g)", ErrInvalidEnvelope, e.Attack, e.Decay, e.Release)
	}
	if e.Sustain < 0 || e.Sustain > 1 {
		return fmt.Errorf("%w: sustain %g outside [0,1]", ErrInvalidEnvelope, e.Sustain)
	}
	return nil
}

// Level returns the amplitude multiplier at now for a note started at onset
// With sustain false the release ramp starts at the end of decay
func (e ADSR) Level(now, onset float64, sustain bool) float64 {
	elapsed := now - onset
	if elapsed < 0 {
		return 0
	}

	if elapsed < e.Attack {
		return elapsed / e.Attack
	}

	decayEnd := e.Attack + e.Decay
	if elapsed < decayEnd {
		t := (elapsed - e.Attack) / e.Decay
		return 1.0 - t*(1.0-e.Sustain)
	}

	if sustain {
		return e.Sustain
	}

	return e.ramp(e.Sustain, elapsed-decayEnd)
}

// LevelReleased returns the amplitude for a note released at releasedAt
// The level held at the release instant ramps linearly to zero over Release
func (e ADSR) LevelReleased(now, onset, releasedAt float64) float64 {
	if now < releasedAt {
		return e.Level(now, onset, true)
	}
	return e.ramp(e.Level(releasedAt, onset, true), now-releasedAt)
}

// Done reports whether a note released at releasedAt has finished its tail
func (e ADSR) Done(now, releasedAt float64) bool {
	return now-releasedAt >= e.Release
}

// ramp fades from level to zero over Release, clamped at zero
func (e ADSR) ramp(level, since float64) float64 {
	if since >= e.Release {
		return 0
	}
	return level * (1.0 - since/e.Release)
}
