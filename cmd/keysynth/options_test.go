package main

import (
	"testing"

	"github.com/lixenwraith/keysynth/audio"
	"github.com/lixenwraith/keysynth/config"
)

// TestOptionsApply verifies flags override the loaded configuration
func TestOptionsApply(t *testing.T) {
	cfg := config.Default()
	opts := options{driver: "null", device: "hw:2", ui: "tcell", wave: "sine", requireDevice: true}

	if err := opts.apply(cfg); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if cfg.Audio.Driver != audio.DriverNull || cfg.Audio.Device != "hw:2" || cfg.Audio.AllowSilent {
		t.Errorf("Unexpected audio config %+v", cfg.Audio)
	}
	if cfg.Input.UI != "tcell" || cfg.Synth.Waveform != "sine" {
		t.Errorf("Unexpected ui/wave %q/%q", cfg.Input.UI, cfg.Synth.Waveform)
	}
}

// TestOptionsApplyEmptyKeepsConfig verifies unset flags change nothing
func TestOptionsApplyEmptyKeepsConfig(t *testing.T) {
	cfg := config.Default()
	if err := (options{}).apply(cfg); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	def := config.Default()
	if cfg.Audio != def.Audio || cfg.Synth != def.Synth {
		t.Error("Expected defaults untouched")
	}
}

// TestOptionsApplyInvalid verifies bad flag values are rejected
func TestOptionsApplyInvalid(t *testing.T) {
	for _, opts := range []options{{driver: "jack"}, {ui: "gtk"}, {wave: "kazoo"}} {
		if err := opts.apply(config.Default()); err == nil {
			t.Errorf("Expected error for %+v", opts)
		}
	}
}
