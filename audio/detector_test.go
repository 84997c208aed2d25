package audio

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"testing"

	"github.com/lixenwraith/keysynth/constant"
)

// TestBuildArgs verifies command lines follow rate, channels, format and device
func TestBuildArgs(t *testing.T) {
	s16 := SinkConfig{Device: constant.AudioDevice, SampleRate: 44100, Channels: 1, Format: FormatS16}
	f32 := SinkConfig{Device: "hw:1", SampleRate: 48000, Channels: 2, Format: FormatF32}

	tests := []struct {
		name string
		typ  BackendType
		cfg  SinkConfig
		want []string
	}{
		{"pacat s16", BackendPulse, s16, []string{"--raw", "--format=s16le", "--rate=44100", "--channels=1", "--latency-msec=50", "--playback"}},
		{"pacat f32 device", BackendPulse, f32, []string{"--raw", "--format=float32le", "--rate=48000", "--channels=2", "--latency-msec=50", "--playback", "--device=hw:1"}},
		{"pw-cat s16", BackendPipeWire, s16, []string{"--playback", "--format=s16", "--rate=44100", "--channels=1", "--latency=50ms", "-"}},
		{"pw-cat f32 device", BackendPipeWire, f32, []string{"--playback", "--format=f32", "--rate=48000", "--channels=2", "--latency=50ms", "--target=hw:1", "-"}},
		{"aplay s16", BackendALSA, s16, []string{"-t", "raw", "-f", "S16_LE", "-r", "44100", "-c", "1", "-q"}},
		{"aplay f32 device", BackendALSA, f32, []string{"-t", "raw", "-f", "FLOAT_LE", "-r", "48000", "-c", "2", "-q", "-D", "hw:1"}},
		{"sox f32", BackendSoX, f32, []string{"-t", "raw", "-e", "floating-point", "-b", "32", "-c", "2", "-r", "48000", "-", "-d", "-q"}},
		{"oss", BackendOSS, s16, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := buildArgs(tt.typ, tt.cfg); !slices.Equal(got, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}

	ff := buildArgs(BackendFFplay, f32)
	if !slices.Contains(ff, "f32le") || !slices.Contains(ff, "48000") || !slices.Contains(ff, "pipe:0") {
		t.Errorf("Unexpected ffplay args %v", ff)
	}
}

// fakePlayer installs an executable named name on an isolated PATH
// The script drains stdin like a real player
func fakePlayer(t *testing.T, name string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell players not available on windows")
	}
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\nexec /bin/cat > /dev/null\n"), 0o755); err != nil {
		t.Fatalf("write fake player: %v", err)
	}
	t.Setenv("PATH", dir)
	return path
}

// TestDetectBackends verifies only installed players are reported
func TestDetectBackends(t *testing.T) {
	path := fakePlayer(t, "aplay")
	cfg := DefaultAudioConfig().SinkConfig()

	found := DetectBackends(cfg)
	if runtime.GOOS == "freebsd" {
		t.Skip("OSS detection depends on /dev/dsp")
	}
	if len(found) != 1 {
		t.Fatalf("Expected 1 backend, got %d", len(found))
	}
	if found[0].Type != BackendALSA || found[0].Path != path {
		t.Errorf("Expected aplay at %s, got %+v", path, found[0])
	}

	t.Setenv("PATH", t.TempDir())
	if _, err := DetectBackend(cfg); !errors.Is(err, ErrNoAudioBackend) {
		t.Errorf("Expected ErrNoAudioBackend on empty PATH, got %v", err)
	}
}

// TestPipeSinkRestart verifies a dead player is restarted within the limit
func TestPipeSinkRestart(t *testing.T) {
	fakePlayer(t, "pacat")

	s := NewPipeSink()
	cfg := DefaultAudioConfig().SinkConfig()
	rate, err := s.Open(cfg)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer s.Close()

	if rate != cfg.SampleRate {
		t.Errorf("Expected rate %d, got %d", cfg.SampleRate, rate)
	}
	if s.Name() != "pipe:pacat" {
		t.Errorf("Expected name pipe:pacat, got %q", s.Name())
	}

	block := make([]byte, cfg.BlockBytes())
	if n, err := s.Write(block); err != nil || n != cfg.BlockSamples {
		t.Fatalf("Expected %d frames written, got %d (%v)", cfg.BlockSamples, n, err)
	}

	// Kill the player; writes must surface ErrPipeClosed
	s.cmd.Process.Kill()
	s.cmd.Wait()
	_, werr := s.Write(block)
	if !errors.Is(werr, ErrPipeClosed) {
		t.Fatalf("Expected ErrPipeClosed, got %v", werr)
	}

	if err := s.Recover(werr); err != nil {
		t.Fatalf("Expected restart, got %v", err)
	}
	if _, err := s.Write(block); err != nil {
		t.Errorf("Expected write after restart to succeed, got %v", err)
	}

	s.restarts = constant.MaxPipeRestarts
	if err := s.Recover(werr); err == nil {
		t.Error("Expected restart limit error")
	}

	other := errors.New("other")
	if err := s.Recover(other); err != other {
		t.Errorf("Expected non-pipe errors returned as is, got %v", err)
	}
}
