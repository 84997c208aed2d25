package audio

import (
	"os"
	"os/exec"
	"runtime"
	"strconv"

	"github.com/lixenwraith/keysynth/constant"
)

// pipeCandidates lists exec backends in priority order
var pipeCandidates = []struct {
	typ    BackendType
	name   string
	binary string
}{
	{BackendPulse, "pacat", "pacat"},
	{BackendPipeWire, "pw-cat", "pw-cat"},
	{BackendALSA, "aplay", "aplay"},
	{BackendSoX, "sox", "play"},
	{BackendFFplay, "ffplay", "ffplay"},
}

// DetectBackends returns every available pipe backend in priority order
// Priority: pacat > pw-cat > aplay > play (sox) > ffplay > OSS
func DetectBackends(cfg SinkConfig) []*BackendConfig {
	var found []*BackendConfig
	for _, c := range pipeCandidates {
		path, err := exec.LookPath(c.binary)
		if err != nil {
			continue
		}
		found = append(found, &BackendConfig{
			Type: c.typ,
			Name: c.name,
			Path: path,
			Args: buildArgs(c.typ, cfg),
		})
	}

	// FreeBSD OSS (direct device write, no exec needed)
	if runtime.GOOS == "freebsd" {
		if _, err := os.Stat("/dev/dsp"); err == nil {
			found = append(found, &BackendConfig{
				Type: BackendOSS,
				Name: "oss",
				Path: "/dev/dsp",
			})
		}
	}
	return found
}

// DetectBackend returns the highest priority pipe backend
func DetectBackend(cfg SinkConfig) (*BackendConfig, error) {
	if found := DetectBackends(cfg); len(found) > 0 {
		return found[0], nil
	}
	return nil, ErrNoAudioBackend
}

// buildArgs renders the command line for a raw little-endian stdin stream
func buildArgs(typ BackendType, cfg SinkConfig) []string {
	rate := strconv.Itoa(cfg.SampleRate)
	channels := strconv.Itoa(cfg.Channels)
	f32 := cfg.Format == FormatF32
	device := cfg.Device
	if device == constant.AudioDevice {
		device = ""
	}
	latency := strconv.FormatInt(constant.PipeLatency.Milliseconds(), 10)

	switch typ {
	case BackendPulse:
		format := "--format=s16le"
		if f32 {
			format = "--format=float32le"
		}
		args := []string{"--raw", format, "--rate=" + rate, "--channels=" + channels, "--latency-msec=" + latency, "--playback"}
		if device != "" {
			args = append(args, "--device="+device)
		}
		return args

	case BackendPipeWire:
		format := "--format=s16"
		if f32 {
			format = "--format=f32"
		}
		args := []string{"--playback", format, "--rate=" + rate, "--channels=" + channels, "--latency=" + latency + "ms"}
		if device != "" {
			args = append(args, "--target="+device)
		}
		return append(args, "-")

	case BackendALSA:
		format := "S16_LE"
		if f32 {
			format = "FLOAT_LE"
		}
		args := []string{"-t", "raw", "-f", format, "-r", rate, "-c", channels, "-q"}
		if device != "" {
			args = append(args, "-D", device)
		}
		return args

	case BackendSoX:
		encoding, bits := "signed", "16"
		if f32 {
			encoding, bits = "floating-point", "32"
		}
		return []string{"-t", "raw", "-e", encoding, "-b", bits, "-c", channels, "-r", rate, "-", "-d", "-q"}

	case BackendFFplay:
		format := "s16le"
		if f32 {
			format = "f32le"
		}
		return []string{
			"-nodisp",
			"-autoexit",
			"-f", format,
			"-ac", channels,
			"-ar", rate,
			"-probesize", "32",
			"-analyzeduration", "0",
			"-i", "pipe:0",
			"-loglevel", "quiet",
		}
	}
	return nil
}
