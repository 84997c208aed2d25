package audio

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/lixenwraith/keysynth/constant"
)

// Driver names accepted by NewSink
const (
	DriverAuto    = "auto"
	DriverSpeaker = "speaker"
	DriverOto     = "oto"
	DriverPipe    = "pipe"
	DriverNull    = "null"
)

// Config holds audio output settings, immutable once the engine starts
type Config struct {
	Device       string       `yaml:"device"`
	Driver       string       `yaml:"driver"`
	SampleRate   int          `yaml:"sample_rate"`
	Channels     int          `yaml:"channels"`
	Format       SampleFormat `yaml:"format"`
	BlockCount   int          `yaml:"blocks"`
	BlockSamples int          `yaml:"block_samples"`
	AllowSilent  bool         `yaml:"allow_silent"`
}

// DefaultAudioConfig returns the default output profile
func DefaultAudioConfig() *Config {
	return &Config{
		Device:       constant.AudioDevice,
		Driver:       DriverAuto,
		SampleRate:   constant.AudioSampleRate,
		Channels:     constant.AudioChannels,
		Format:       FormatS16,
		BlockCount:   constant.AudioBlockCount,
		BlockSamples: constant.AudioBlockSamples,
		AllowSilent:  true,
	}
}

// LoadConfigEnv applies KEYSYNTH_* environment overrides to cfg
// Malformed values are ignored and the existing setting is kept
func LoadConfigEnv(cfg *Config) *Config {
	if cfg == nil {
		cfg = DefaultAudioConfig()
	}

	if device := os.Getenv(constant.EnvDevice); device != "" {
		cfg.Device = device
	}

	if driver := os.Getenv(constant.EnvDriver); driver != "" {
		cfg.Driver = strings.ToLower(driver)
	}

	if rate := os.Getenv(constant.EnvSampleRate); rate != "" {
		if val, err := strconv.Atoi(rate); err == nil && val > 0 {
			cfg.SampleRate = val
		}
	}

	if channels := os.Getenv(constant.EnvChannels); channels != "" {
		if val, err := strconv.Atoi(channels); err == nil && val > 0 {
			cfg.Channels = val
		}
	}

	if format := os.Getenv(constant.EnvFormat); format != "" {
		if val, err := ParseSampleFormat(format); err == nil {
			cfg.Format = val
		}
	}

	if blocks := os.Getenv(constant.EnvBlocks); blocks != "" {
		if val, err := strconv.Atoi(blocks); err == nil && val > 0 {
			cfg.BlockCount = val
		}
	}

	if samples := os.Getenv(constant.EnvBlockSamples); samples != "" {
		if val, err := strconv.Atoi(samples); err == nil && val > 0 {
			cfg.BlockSamples = val
		}
	}

	if silent := os.Getenv(constant.EnvAllowSilent); silent != "" {
		if val, err := strconv.ParseBool(silent); err == nil {
			cfg.AllowSilent = val
		}
	}

	return cfg
}

// Validate rejects configurations the engine cannot stream
func (c *Config) Validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate %d", ErrInvalidConfig, c.SampleRate)
	}
	if c.Channels < 1 || c.Channels > constant.AudioMaxChannels {
		return fmt.Errorf("%w: channels %d outside 1..%d", ErrInvalidConfig, c.Channels, constant.AudioMaxChannels)
	}
	if c.Format != FormatS16 && c.Format != FormatF32 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, c.Format)
	}
	if c.BlockCount <= 0 || c.BlockSamples <= 0 {
		return fmt.Errorf("%w: block geometry %dx%d", ErrInvalidConfig, c.BlockCount, c.BlockSamples)
	}
	switch c.Driver {
	case "", DriverAuto, DriverSpeaker, DriverOto, DriverPipe, DriverNull:
	default:
		return fmt.Errorf("%w: unknown driver %q", ErrInvalidConfig, c.Driver)
	}
	return nil
}

// SinkConfig derives the device-facing parameters
func (c *Config) SinkConfig() SinkConfig {
	return SinkConfig{
		Device:       c.Device,
		SampleRate:   c.SampleRate,
		Channels:     c.Channels,
		Format:       c.Format,
		BlockSamples: c.BlockSamples,
		BlockCount:   c.BlockCount,
	}
}
