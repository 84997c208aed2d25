package synth

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/lixenwraith/keysynth/constant"
)

// Waveform returns the amplitude in [-1,1] of a tone at freq Hz sampled at time t seconds
// Implementations are stateless: the same (t, freq) always yields the same sample
type Waveform func(t, freq float64) float64

// Piano partial amplitudes: fundamental, 2x, 3x, 4x, then the two detuned fundamentals
const (
	pianoH1     = 1.0
	pianoH2     = 0.5
	pianoH3     = 0.25
	pianoH4     = 0.125
	pianoDetune = 0.1

	// pianoNorm is the sum of all partial amplitudes, the worst-case peak
	pianoNorm = pianoH1 + pianoH2 + pianoH3 + pianoH4 + 2*pianoDetune
)

// Piano is a harmonic-rich tone with chorus beating from two detuned fundamentals
func Piano(t, freq float64) float64 {
	w := 2 * math.Pi * freq * t

	v := pianoH1 * math.Sin(w)
	v += pianoH2 * math.Sin(2*w)
	v += pianoH3 * math.Sin(3*w)
	v += pianoH4 * math.Sin(4*w)
	v += pianoDetune * math.Sin(w*(1+constant.DetuneRatio))
	v += pianoDetune * math.Sin(w*(1-constant.DetuneRatio))

	return v / pianoNorm
}

// Sine is a pure tone
func Sine(t, freq float64) float64 {
	return math.Sin(2 * math.Pi * freq * t)
}

// Square is a naive (aliasing) square wave
func Square(t, freq float64) float64 {
	if phase(t, freq) < 0.5 {
		return 1.0
	}
	return -1.0
}

// Saw ramps from -1 to 1 once per period
func Saw(t, freq float64) float64 {
	return 2.0*phase(t, freq) - 1.0
}

// Triangle is a symmetric triangle wave starting at 1
func Triangle(t, freq float64) float64 {
	return 2.0*math.Abs(2.0*phase(t, freq)-1.0) - 1.0
}

// phase returns the position within the current period in [0,1)
func phase(t, freq float64) float64 {
	p := freq * t
	p -= math.Floor(p)
	return p
}

var waveforms = map[string]Waveform{
	"piano":    Piano,
	"sine":     Sine,
	"square":   Square,
	"saw":      Saw,
	"triangle": Triangle,
}

// WaveformByName resolves a waveform by case-insensitive name
func WaveformByName(name string) (Waveform, error) {
	if w, ok := waveforms[strings.ToLower(strings.TrimSpace(name))]; ok {
		return w, nil
	}
	return nil, fmt.Errorf("%w: %q (have %s)", ErrUnknownWaveform, name, strings.Join(WaveformNames(), ", "))
}

// WaveformNames lists the registered waveform names in sorted order
func WaveformNames() []string {
	names := make([]string, 0, len(waveforms))
	for name := range waveforms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
