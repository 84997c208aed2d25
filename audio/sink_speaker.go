package audio

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

// SpeakerSink plays through the beep speaker
// The speaker pulls stereo frames; mono blocks are duplicated to both sides
type SpeakerSink struct {
	mu    sync.Mutex
	cfg   SinkConfig
	queue *blockQueue
	open  bool

	scratch []byte // Owned by the speaker goroutine
}

// NewSpeakerSink creates an unopened speaker sink
func NewSpeakerSink() *SpeakerSink {
	return &SpeakerSink{}
}

// Name implements Sink
func (s *SpeakerSink) Name() string {
	return DriverSpeaker
}

// Open implements Sink
func (s *SpeakerSink) Open(cfg SinkConfig) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.open {
		return 0, fmt.Errorf("speaker already open")
	}

	sr := beep.SampleRate(cfg.SampleRate)
	if err := speaker.Init(sr, cfg.BlockSamples); err != nil {
		return 0, err
	}

	s.cfg = cfg
	s.queue = newBlockQueue(cfg.BlockCount, cfg.BlockBytes())
	s.open = true

	speaker.Play(&speakerStream{sink: s})
	return cfg.SampleRate, nil
}

// Write implements Sink
func (s *SpeakerSink) Write(block []byte) (int, error) {
	if s.queue == nil {
		return 0, ErrSinkClosed
	}
	if err := s.queue.push(block); err != nil {
		return 0, err
	}
	return len(block) / s.cfg.FrameBytes(), nil
}

// Recover implements Sink
// Underruns are cleared; anything else is fatal
func (s *SpeakerSink) Recover(err error) error {
	if errors.Is(err, ErrUnderrun) && s.queue != nil {
		s.queue.clearUnderrun()
		return nil
	}
	return err
}

// Close implements Sink
func (s *SpeakerSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open {
		return nil
	}
	s.queue.close()
	speaker.Clear()
	speaker.Close()
	s.open = false
	return nil
}

// speakerStream adapts the block queue to beep.Streamer
type speakerStream struct {
	sink *SpeakerSink
}

func (st *speakerStream) Stream(samples [][2]float64) (int, bool) {
	s := st.sink
	frame := s.cfg.FrameBytes()
	size := len(samples) * frame
	if cap(s.scratch) < size {
		s.scratch = make([]byte, size)
	}
	buf := s.scratch[:size]
	s.queue.read(buf)

	width := s.cfg.Format.Bytes()
	for i := range samples {
		off := i * frame
		left := getSample(buf[off:], s.cfg.Format)
		right := left
		if s.cfg.Channels > 1 {
			right = getSample(buf[off+width:], s.cfg.Format)
		}
		samples[i][0] = left
		samples[i][1] = right
	}
	return len(samples), true
}

func (st *speakerStream) Err() error {
	return nil
}
