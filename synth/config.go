package synth

import (
	"fmt"

	"github.com/lixenwraith/keysynth/constant"
)

// Config selects the voice timbre and mixing law
type Config struct {
	Waveform string  `yaml:"waveform"`
	Envelope ADSR    `yaml:"envelope"`
	Headroom float64 `yaml:"headroom"`
}

// DefaultConfig returns the piano profile
func DefaultConfig() Config {
	return Config{
		Waveform: "piano",
		Envelope: DefaultADSR(),
		Headroom: constant.MixHeadroom,
	}
}

// Validate checks envelope, waveform name and headroom range
func (c Config) Validate() error {
	if err := c.Envelope.Validate(); err != nil {
		return err
	}
	if _, err := WaveformByName(c.Waveform); err != nil {
		return err
	}
	if c.Headroom <= 0 || c.Headroom > 1 {
		return fmt.Errorf("headroom %g outside (0,1]", c.Headroom)
	}
	return nil
}
