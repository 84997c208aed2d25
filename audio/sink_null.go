package audio

import (
	"sync/atomic"
	"time"
)

// NullSink discards blocks
// When paced, Write sleeps so blocks are consumed at the real-time rate
type NullSink struct {
	paced  bool
	cfg    SinkConfig
	start  time.Time
	frames uint64

	blocks atomic.Uint64
	open   atomic.Bool
}

// NewNullSink creates an unopened null sink
func NewNullSink(paced bool) *NullSink {
	return &NullSink{paced: paced}
}

// Name implements Sink
func (s *NullSink) Name() string {
	return DriverNull
}

// Open implements Sink
func (s *NullSink) Open(cfg SinkConfig) (int, error) {
	s.cfg = cfg
	s.start = time.Now()
	s.frames = 0
	s.open.Store(true)
	return cfg.SampleRate, nil
}

// Write implements Sink
func (s *NullSink) Write(block []byte) (int, error) {
	if !s.open.Load() {
		return 0, ErrSinkClosed
	}
	frames := len(block) / s.cfg.FrameBytes()
	s.frames += uint64(frames)
	s.blocks.Add(1)

	if s.paced {
		due := s.start.Add(time.Duration(s.frames) * time.Second / time.Duration(s.cfg.SampleRate))
		if d := time.Until(due); d > 0 {
			time.Sleep(d)
		}
	}
	return frames, nil
}

// Recover implements Sink
func (s *NullSink) Recover(err error) error {
	return err
}

// Close implements Sink
func (s *NullSink) Close() error {
	s.open.Store(false)
	return nil
}

// Blocks returns the number of blocks accepted
func (s *NullSink) Blocks() uint64 {
	return s.blocks.Load()
}
