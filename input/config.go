package input

import (
	"fmt"
	"time"

	"github.com/lixenwraith/keysynth/constant"
)

// UI front ends
const (
	UIRaw   = "raw"
	UITcell = "tcell"
)

// Config holds control loop settings
type Config struct {
	UI           string        `yaml:"ui"`
	Velocity     float64       `yaml:"velocity"`
	AutoRelease  float64       `yaml:"auto_release"`  // Seconds of synthesis clock
	RepeatWindow float64       `yaml:"repeat_window"` // Seconds; 0 retriggers on every press
	PollInterval time.Duration `yaml:"poll_interval"`
	Keys         []KeyBinding  `yaml:"keys"`
}

// DefaultInputConfig returns the default control profile
func DefaultInputConfig() *Config {
	return &Config{
		UI:           UIRaw,
		Velocity:     constant.DefaultVelocity,
		AutoRelease:  constant.AutoReleaseTimeout,
		PollInterval: constant.ControlPollInterval,
		Keys:         DefaultBindings(),
	}
}

// Validate checks ranges and the key table
func (c *Config) Validate() error {
	if c.UI != UIRaw && c.UI != UITcell {
		return fmt.Errorf("unknown ui %q", c.UI)
	}
	if c.Velocity < 0 || c.Velocity > 1 {
		return fmt.Errorf("velocity %g outside [0,1]", c.Velocity)
	}
	if c.AutoRelease <= 0 {
		return fmt.Errorf("auto release %g must be positive", c.AutoRelease)
	}
	if c.RepeatWindow < 0 {
		return fmt.Errorf("repeat window %g negative", c.RepeatWindow)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll interval %v must be positive", c.PollInterval)
	}
	_, err := NewKeyTable(c.Keys)
	return err
}
