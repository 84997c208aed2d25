package audio

import (
	"fmt"
	"log"
)

// SinkConfig is what a sink needs to open its device
type SinkConfig struct {
	Device       string
	SampleRate   int
	Channels     int
	Format       SampleFormat
	BlockSamples int
	BlockCount   int
}

// FrameBytes returns the size of one interleaved frame
func (c SinkConfig) FrameBytes() int {
	return c.Channels * c.Format.Bytes()
}

// BlockBytes returns the size of one full block
func (c SinkConfig) BlockBytes() int {
	return c.BlockSamples * c.FrameBytes()
}

// Sink is the audio output device
// Write blocks until the device accepts the block, which paces the render loop
type Sink interface {
	// Open negotiates the device and returns the actual sample rate
	Open(cfg SinkConfig) (int, error)
	// Write submits interleaved little-endian samples, returns frames accepted
	Write(block []byte) (int, error)
	// Recover attempts to resume after a Write error; nil means retry the block
	Recover(err error) error
	Close() error
	Name() string
}

// NewSink returns an unopened sink for cfg.Driver
func NewSink(cfg *Config) (Sink, error) {
	switch cfg.Driver {
	case DriverAuto, "":
		return newAutoSink(cfg.AllowSilent), nil
	case DriverSpeaker:
		return NewSpeakerSink(), nil
	case DriverOto:
		return NewOtoSink(), nil
	case DriverPipe:
		return NewPipeSink(), nil
	case DriverNull:
		return NewNullSink(true), nil
	default:
		return nil, fmt.Errorf("%w: unknown driver %q", ErrInvalidConfig, cfg.Driver)
	}
}

// autoSink opens the first driver that works
// Order: speaker > oto > pipe > null (only when silent output is allowed)
type autoSink struct {
	allowSilent bool
	active      Sink
}

func newAutoSink(allowSilent bool) *autoSink {
	return &autoSink{allowSilent: allowSilent}
}

func (a *autoSink) Open(cfg SinkConfig) (int, error) {
	candidates := []Sink{NewSpeakerSink(), NewOtoSink(), NewPipeSink()}
	if a.allowSilent {
		candidates = append(candidates, NewNullSink(true))
	}

	var lastErr error
	for _, s := range candidates {
		rate, err := s.Open(cfg)
		if err != nil {
			log.Printf("audio: %s unavailable: %v", s.Name(), err)
			lastErr = err
			continue
		}
		if s.Name() == DriverNull {
			log.Printf("audio: no output device, running silent")
		}
		a.active = s
		return rate, nil
	}
	return 0, fmt.Errorf("%w: %w", ErrNoAudioBackend, lastErr)
}

func (a *autoSink) Write(block []byte) (int, error) {
	if a.active == nil {
		return 0, ErrSinkClosed
	}
	return a.active.Write(block)
}

func (a *autoSink) Recover(err error) error {
	if a.active == nil {
		return ErrSinkClosed
	}
	return a.active.Recover(err)
}

func (a *autoSink) Close() error {
	if a.active == nil {
		return nil
	}
	err := a.active.Close()
	a.active = nil
	return err
}

func (a *autoSink) Name() string {
	if a.active == nil {
		return DriverAuto
	}
	return DriverAuto + ":" + a.active.Name()
}
