package audio

import (
	"errors"
	"fmt"
	"strings"
)

// SampleFormat is the on-the-wire encoding of one sample
type SampleFormat int

const (
	FormatS16 SampleFormat = iota // 16-bit signed little-endian, full scale 32767
	FormatF32                     // 32-bit IEEE float little-endian, full scale 1.0
)

// Bytes returns the size of one encoded sample
func (f SampleFormat) Bytes() int {
	if f == FormatF32 {
		return 4
	}
	return 2
}

func (f SampleFormat) String() string {
	switch f {
	case FormatS16:
		return "s16"
	case FormatF32:
		return "f32"
	default:
		return fmt.Sprintf("format(%d)", int(f))
	}
}

// ParseSampleFormat accepts s16/f32 and the common aliases
func ParseSampleFormat(s string) (SampleFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "s16", "s16le", "int16", "":
		return FormatS16, nil
	case "f32", "f32le", "float32", "float":
		return FormatF32, nil
	default:
		return 0, fmt.Errorf("%w: unsupported sample format %q", ErrInvalidConfig, s)
	}
}

// MarshalText implements encoding.TextMarshaler
func (f SampleFormat) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler, used by the YAML decoder
func (f *SampleFormat) UnmarshalText(text []byte) error {
	v, err := ParseSampleFormat(string(text))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// BackendType identifies a pipe backend
type BackendType int

const (
	BackendPulse BackendType = iota
	BackendPipeWire
	BackendALSA
	BackendSoX
	BackendFFplay
	BackendOSS
)

// BackendConfig describes a CLI audio backend
type BackendConfig struct {
	Type BackendType
	Name string
	Path string
	Args []string
}

// Sentinel errors
var (
	ErrInvalidConfig  = errors.New("invalid audio configuration")
	ErrDeviceSetup    = errors.New("audio device setup failed")
	ErrNoAudioBackend = errors.New("no compatible audio backend found")
	ErrUnderrun       = errors.New("audio buffer underrun")
	ErrPipeClosed     = errors.New("audio pipe closed")
	ErrStreamFailed   = errors.New("audio stream failed")
	ErrEngineRunning  = errors.New("audio engine already running")
	ErrSinkClosed     = errors.New("audio sink closed")
)
