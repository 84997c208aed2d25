package synth

// Note is one sounding or recently released tone
type Note struct {
	Key        rune
	Frequency  float64 // Hz, fixed for the note's lifetime
	Onset      float64 // Synthesis-clock seconds of the latest trigger
	Active     bool    // False once released
	Velocity   float64 // 0.0-1.0
	ReleasedAt float64 // Synthesis-clock seconds of the release, valid when !Active
}

// Sounding reports whether the note still produces output at now
func (n Note) Sounding(now float64, env ADSR) bool {
	return n.Active || !env.Done(now, n.ReleasedAt)
}

// Level returns the envelope multiplier of the note at now
func (n Note) Level(now float64, env ADSR) float64 {
	if n.Active {
		return env.Level(now, n.Onset, true)
	}
	return env.LevelReleased(now, n.Onset, n.ReleasedAt)
}
