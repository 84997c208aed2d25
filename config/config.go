// Package config loads the keysynth YAML file
// Precedence: built-in defaults < file < KEYSYNTH_* environment < command-line flags
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/keysynth/audio"
	"github.com/lixenwraith/keysynth/input"
	"github.com/lixenwraith/keysynth/synth"
)

// Config aggregates every section of the file
type Config struct {
	Audio audio.Config `yaml:"audio"`
	Synth synth.Config `yaml:"synth"`
	Input input.Config `yaml:"input"`
}

// Default returns the built-in profile
func Default() *Config {
	return &Config{
		Audio: *audio.DefaultAudioConfig(),
		Synth: synth.DefaultConfig(),
		Input: *input.DefaultInputConfig(),
	}
}

// Load reads path over the defaults and applies environment overrides
// An empty path skips the file
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	audio.LoadConfigEnv(&cfg.Audio)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every section
func (c *Config) Validate() error {
	if err := c.Audio.Validate(); err != nil {
		return fmt.Errorf("audio: %w", err)
	}
	if err := c.Synth.Validate(); err != nil {
		return fmt.Errorf("synth: %w", err)
	}
	if err := c.Input.Validate(); err != nil {
		return fmt.Errorf("input: %w", err)
	}
	return nil
}

// Marshal renders the effective configuration, used by -dump-config
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
