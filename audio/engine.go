package audio

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/lixenwraith/keysynth/constant"
	"github.com/lixenwraith/keysynth/status"
)

// SampleFunc returns the mono sample at synthesis time t seconds
// Called once per sample period in strict time order from the render goroutine
type SampleFunc func(t float64) float64

// Stats is a point-in-time copy of the engine counters
type Stats struct {
	Samples    uint64
	Blocks     uint64
	Underruns  uint64
	Recoveries uint64
	Time       float64
}

// Engine renders samples into blocks and streams them to a sink
type Engine struct {
	config *Config
	sink   Sink
	fn     SampleFunc

	rate    atomic.Int64
	samples atomic.Uint64 // Synthesis clock, one tick per sample

	blocksWritten atomic.Uint64
	underruns     atomic.Uint64
	recoveries    atomic.Uint64

	running atomic.Bool
	errChan chan error

	mu     sync.Mutex // Serializes Start/Stop/SetSampleFunc
	stop   chan struct{}
	done   chan struct{}
	blocks [][]byte

	metrics *engineMetrics
}

// engineMetrics caches status pointers so the render loop writes atomics directly
type engineMetrics struct {
	blocks     *atomic.Int64
	underruns  *atomic.Int64
	recoveries *atomic.Int64
	clock      *status.AtomicFloat
	rate       *atomic.Int64
	sink       *status.AtomicString
	running    *atomic.Bool
}

// NewEngine validates cfg and binds the sink; nothing is opened until Start
func NewEngine(cfg *Config, sink Sink) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultAudioConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if sink == nil {
		return nil, fmt.Errorf("%w: nil sink", ErrInvalidConfig)
	}

	e := &Engine{
		config:  cfg,
		sink:    sink,
		errChan: make(chan error, 1),
	}
	e.rate.Store(int64(cfg.SampleRate))
	return e, nil
}

// SetSampleFunc registers the sample callback; nil renders silence
func (e *Engine) SetSampleFunc(fn SampleFunc) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.stop != nil {
		return ErrEngineRunning
	}
	e.fn = fn
	return nil
}

// SetStatus publishes engine counters into reg; call before Start
func (e *Engine) SetStatus(reg *status.Registry) {
	if reg == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	e.metrics = &engineMetrics{
		blocks:     reg.Ints.Get(status.KeyBlocksWritten),
		underruns:  reg.Ints.Get(status.KeyUnderruns),
		recoveries: reg.Ints.Get(status.KeyRecoveries),
		clock:      reg.Floats.Get(status.KeyClock),
		rate:       reg.Ints.Get(status.KeySampleRate),
		sink:       reg.Strings.Get(status.KeySink),
		running:    reg.Bools.Get(status.KeyRunning),
	}
}

// Start opens the sink and launches the render loop
func (e *Engine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.stop != nil {
		return ErrEngineRunning
	}

	sc := e.config.SinkConfig()
	rate, err := e.sink.Open(sc)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrDeviceSetup, e.sink.Name(), err)
	}
	if rate <= 0 {
		rate = sc.SampleRate
	}
	if rate != sc.SampleRate {
		log.Printf("audio: %s negotiated %dHz (requested %dHz)", e.sink.Name(), rate, sc.SampleRate)
	}

	e.rate.Store(int64(rate))
	e.samples.Store(0)
	e.blocksWritten.Store(0)
	e.underruns.Store(0)
	e.recoveries.Store(0)

	e.blocks = make([][]byte, e.config.BlockCount)
	for i := range e.blocks {
		e.blocks[i] = make([]byte, sc.BlockBytes())
	}

	// Drain a stale fatal error from a previous run
	select {
	case <-e.errChan:
	default:
	}

	if m := e.metrics; m != nil {
		m.rate.Store(int64(rate))
		m.sink.Store(e.sink.Name())
		m.running.Store(true)
	}

	e.stop = make(chan struct{})
	e.done = make(chan struct{})
	e.running.Store(true)

	go e.run(e.stop, e.done, e.fn)
	return nil
}

// Stop signals the render loop, waits for the current block, then closes the sink
// Idempotent
func (e *Engine) Stop() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.stop == nil {
		return nil
	}
	close(e.stop)
	<-e.done

	err := e.sink.Close()
	e.stop = nil
	e.done = nil
	e.blocks = nil
	return err
}

// Time returns the synthesis clock in seconds
func (e *Engine) Time() float64 {
	return float64(e.samples.Load()) / float64(e.rate.Load())
}

// SampleRate returns the rate actually negotiated with the device
func (e *Engine) SampleRate() int {
	return int(e.rate.Load())
}

// Running reports whether the render loop is active
func (e *Engine) Running() bool {
	return e.running.Load()
}

// Err delivers at most one fatal stream error per run
func (e *Engine) Err() <-chan error {
	return e.errChan
}

// SinkName returns the bound sink's name
func (e *Engine) SinkName() string {
	return e.sink.Name()
}

// Stats returns a copy of the counters
func (e *Engine) Stats() Stats {
	return Stats{
		Samples:    e.samples.Load(),
		Blocks:     e.blocksWritten.Load(),
		Underruns:  e.underruns.Load(),
		Recoveries: e.recoveries.Load(),
		Time:       e.Time(),
	}
}

// run is the render loop; it exits between blocks, never mid-callback
func (e *Engine) run(stop <-chan struct{}, done chan<- struct{}, fn SampleFunc) {
	defer close(done)
	defer func() {
		e.running.Store(false)
		if m := e.metrics; m != nil {
			m.running.Store(false)
		}
	}()

	format := e.config.Format
	channels := e.config.Channels
	width := format.Bytes()
	rate := float64(e.rate.Load())

	for idx := 0; ; idx = (idx + 1) % len(e.blocks) {
		select {
		case <-stop:
			return
		default:
		}

		block := e.blocks[idx]
		for off := 0; off < len(block); off += width * channels {
			v := 0.0
			if fn != nil {
				v = clip(fn(float64(e.samples.Load()) / rate))
			}
			for c := 0; c < channels; c++ {
				putSample(block[off+c*width:], format, v)
			}
			e.samples.Add(1)
		}

		if err := e.submit(block); err != nil {
			log.Printf("audio: %v", err)
			select {
			case e.errChan <- err:
			default:
			}
			return
		}

		if m := e.metrics; m != nil {
			m.blocks.Store(int64(e.blocksWritten.Load()))
			m.clock.Set(e.Time())
		}
	}
}

// submit writes block, recovering and retrying the same block on error
func (e *Engine) submit(block []byte) error {
	for attempt := 1; ; attempt++ {
		_, err := e.sink.Write(block)
		if err == nil {
			e.blocksWritten.Add(1)
			return nil
		}

		if errors.Is(err, ErrUnderrun) {
			n := e.underruns.Add(1)
			if m := e.metrics; m != nil {
				m.underruns.Store(int64(n))
			}
		}

		if attempt > constant.MaxRecoverAttempts {
			return fmt.Errorf("%w: %s: gave up after %d recoveries: %w", ErrStreamFailed, e.sink.Name(), constant.MaxRecoverAttempts, err)
		}
		if rerr := e.sink.Recover(err); rerr != nil {
			return fmt.Errorf("%w: %s: %w", ErrStreamFailed, e.sink.Name(), rerr)
		}

		n := e.recoveries.Add(1)
		if m := e.metrics; m != nil {
			m.recoveries.Store(int64(n))
		}
		log.Printf("audio: %s recovered from %v (attempt %d)", e.sink.Name(), err, attempt)
	}
}
