package synth

// Mixer composes the registry's sounding notes into one sample per call
// Sample is the render engine's callback; Mixer state is owned by the render goroutine
type Mixer struct {
	reg      *Registry
	env      ADSR
	wave     Waveform
	headroom float64

	// Cached registry view, refreshed only when the generation moves
	notes []Note
	gen   uint64
}

// NewMixer creates a mixer reading reg with the given configuration
func NewMixer(reg *Registry, cfg Config) (*Mixer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	wave, err := WaveformByName(cfg.Waveform)
	if err != nil {
		return nil, err
	}
	return &Mixer{
		reg:      reg,
		env:      cfg.Envelope,
		wave:     wave,
		headroom: cfg.Headroom,
		notes:    make([]Note, 0, 16),
	}, nil
}

// Envelope returns the contour applied to every note
func (m *Mixer) Envelope() ADSR {
	return m.env
}

// Sample returns the mixed output at synthesis time t
// The sum is divided by the number of sounding notes, then scaled by the headroom
func (m *Mixer) Sample(t float64) float64 {
	if g := m.reg.Generation(); g != m.gen {
		m.notes = m.reg.Snapshot(m.notes)
		m.gen = g
	}
	if len(m.notes) == 0 {
		return 0
	}

	sum := 0.0
	count := 0
	for i := range m.notes {
		n := &m.notes[i]
		if !n.Sounding(t, m.env) {
			continue
		}
		sum += n.Level(t, m.env) * m.wave(t, n.Frequency) * n.Velocity
		count++
	}

	if count == 0 {
		return 0
	}
	return sum / float64(count) * m.headroom
}
