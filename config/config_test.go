package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lixenwraith/keysynth/audio"
	"github.com/lixenwraith/keysynth/constant"
	"github.com/lixenwraith/keysynth/synth"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "keysynth.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

// TestLoadEmptyPath verifies defaults without a file
func TestLoadEmptyPath(t *testing.T) {
	t.Setenv(constant.EnvSampleRate, "")
	t.Setenv(constant.EnvDriver, "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Audio.SampleRate != 44100 || cfg.Synth.Waveform != "piano" || cfg.Input.Velocity != 0.7 {
		t.Errorf("Expected defaults, got %+v", cfg)
	}
}

// TestLoadMergesFile verifies partial files keep unspecified defaults
func TestLoadMergesFile(t *testing.T) {
	t.Setenv(constant.EnvSampleRate, "")
	path := writeFile(t, `
audio:
  driver: "null"
  sample_rate: 48000
  format: f32
synth:
  waveform: sine
  envelope:
    release: 0.5
input:
  ui: tcell
  repeat_window: 0.08
  poll_interval: 2ms
  keys:
    - {key: z, frequency: 261.63}
    - {key: semicolon, frequency: 293.66}
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Audio.Driver != audio.DriverNull || cfg.Audio.SampleRate != 48000 || cfg.Audio.Format != audio.FormatF32 {
		t.Errorf("Unexpected audio section %+v", cfg.Audio)
	}
	if cfg.Audio.BlockSamples != 512 {
		t.Errorf("Expected default block samples kept, got %d", cfg.Audio.BlockSamples)
	}

	want := synth.DefaultADSR()
	want.Release = 0.5
	if cfg.Synth.Waveform != "sine" || cfg.Synth.Envelope != want {
		t.Errorf("Unexpected synth section %+v", cfg.Synth)
	}

	if cfg.Input.UI != "tcell" || cfg.Input.RepeatWindow != 0.08 || cfg.Input.PollInterval != 2*time.Millisecond {
		t.Errorf("Unexpected input section %+v", cfg.Input)
	}
	if len(cfg.Input.Keys) != 2 || cfg.Input.Keys[1].Key != "semicolon" {
		t.Errorf("Expected key list replaced, got %+v", cfg.Input.Keys)
	}
}

// TestLoadEnvOverridesFile verifies environment wins over the file
func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeFile(t, "audio:\n  sample_rate: 48000\n")
	t.Setenv(constant.EnvSampleRate, "22050")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Audio.SampleRate != 22050 {
		t.Errorf("Expected env rate 22050, got %d", cfg.Audio.SampleRate)
	}
}

// TestLoadErrors verifies parse and validation failures
func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected ErrNotExist, got %v", err)
	}

	if _, err := Load(writeFile(t, "audio: [unclosed")); err == nil {
		t.Error("Expected parse error")
	}

	if _, err := Load(writeFile(t, "audio:\n  format: u8\n")); !errors.Is(err, audio.ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig for bad format, got %v", err)
	}

	t.Setenv(constant.EnvChannels, "")
	if _, err := Load(writeFile(t, "audio:\n  channels: 12\n")); !errors.Is(err, audio.ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig for channels, got %v", err)
	}

	if _, err := Load(writeFile(t, "synth:\n  waveform: kazoo\n")); !errors.Is(err, synth.ErrUnknownWaveform) {
		t.Errorf("Expected ErrUnknownWaveform, got %v", err)
	}
}

// TestMarshalRoundTrip verifies the dump is loadable
func TestMarshalRoundTrip(t *testing.T) {
	data, err := Default().Marshal()
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	cfg, err := Load(writeFile(t, string(data)))
	if err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if cfg.Audio.Format != audio.FormatS16 || len(cfg.Input.Keys) != 10 {
		t.Errorf("Unexpected reloaded config %+v", cfg)
	}
}
