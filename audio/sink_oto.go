package audio

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// Only one oto context may exist per process; it is created on first use and kept
var (
	otoMu   sync.Mutex
	otoCtx  *oto.Context
	otoOpts oto.NewContextOptions
)

func otoContext(opts oto.NewContextOptions) (*oto.Context, error) {
	otoMu.Lock()
	defer otoMu.Unlock()

	if otoCtx != nil {
		if otoOpts.SampleRate != opts.SampleRate || otoOpts.ChannelCount != opts.ChannelCount || otoOpts.Format != opts.Format {
			return nil, fmt.Errorf("oto context already open at %dHz/%dch", otoOpts.SampleRate, otoOpts.ChannelCount)
		}
		return otoCtx, nil
	}

	ctx, ready, err := oto.NewContext(&opts)
	if err != nil {
		return nil, err
	}
	<-ready

	otoCtx = ctx
	otoOpts = opts
	return ctx, nil
}

// OtoSink plays through an oto player reading raw bytes from the block queue
type OtoSink struct {
	mu     sync.Mutex
	cfg    SinkConfig
	queue  *blockQueue
	player *oto.Player
}

// NewOtoSink creates an unopened oto sink
func NewOtoSink() *OtoSink {
	return &OtoSink{}
}

// Name implements Sink
func (s *OtoSink) Name() string {
	return DriverOto
}

// Open implements Sink
func (s *OtoSink) Open(cfg SinkConfig) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.player != nil {
		return 0, fmt.Errorf("oto sink already open")
	}

	format := oto.FormatSignedInt16LE
	if cfg.Format == FormatF32 {
		format = oto.FormatFloat32LE
	}

	ctx, err := otoContext(oto.NewContextOptions{
		SampleRate:   cfg.SampleRate,
		ChannelCount: cfg.Channels,
		Format:       format,
		BufferSize:   time.Duration(cfg.BlockSamples) * time.Second / time.Duration(cfg.SampleRate),
	})
	if err != nil {
		return 0, err
	}

	s.cfg = cfg
	s.queue = newBlockQueue(cfg.BlockCount, cfg.BlockBytes())
	s.player = ctx.NewPlayer(queueReader{s.queue})
	s.player.SetBufferSize(cfg.BlockBytes())
	s.player.Play()

	return cfg.SampleRate, nil
}

// Write implements Sink
func (s *OtoSink) Write(block []byte) (int, error) {
	if s.queue == nil {
		return 0, ErrSinkClosed
	}
	if err := s.queue.push(block); err != nil {
		return 0, err
	}
	return len(block) / s.cfg.FrameBytes(), nil
}

// Recover implements Sink
func (s *OtoSink) Recover(err error) error {
	if errors.Is(err, ErrUnderrun) && s.queue != nil {
		s.queue.clearUnderrun()
		return nil
	}
	if s.player != nil {
		if perr := s.player.Err(); perr != nil {
			return fmt.Errorf("%w: %w", err, perr)
		}
	}
	return err
}

// Close implements Sink
// The shared context stays alive for later sinks
func (s *OtoSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.player == nil {
		return nil
	}
	s.queue.close()
	err := s.player.Close()
	s.player = nil
	return err
}

// queueReader is the io.Reader handed to the oto player
type queueReader struct {
	q *blockQueue
}

func (r queueReader) Read(p []byte) (int, error) {
	return r.q.read(p), nil
}
