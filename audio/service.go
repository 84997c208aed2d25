package audio

import (
	"log"

	"github.com/lixenwraith/keysynth/status"
)

// Service wraps Engine as a service.Service
// The sink is chosen from the configured driver unless one was injected
type Service struct {
	config  *Config
	fn      SampleFunc
	metrics *status.Registry

	sink   Sink
	engine *Engine
}

// NewService creates the audio service; fn is the sample callback
func NewService(cfg *Config, fn SampleFunc, metrics *status.Registry) *Service {
	if cfg == nil {
		cfg = DefaultAudioConfig()
	}
	return &Service{
		config:  cfg,
		fn:      fn,
		metrics: metrics,
	}
}

// WithSink overrides driver selection
func (s *Service) WithSink(sink Sink) *Service {
	s.sink = sink
	return s
}

// Name implements Service
func (s *Service) Name() string {
	return "audio"
}

// Dependencies implements Service
func (s *Service) Dependencies() []string {
	return nil
}

// Init implements Service
// Validates configuration and builds the engine; the device is opened in Start
func (s *Service) Init() error {
	if err := s.config.Validate(); err != nil {
		return err
	}

	sink := s.sink
	if sink == nil {
		var err error
		if sink, err = NewSink(s.config); err != nil {
			return err
		}
	}

	engine, err := NewEngine(s.config, sink)
	if err != nil {
		return err
	}
	engine.SetStatus(s.metrics)
	if err := engine.SetSampleFunc(s.fn); err != nil {
		return err
	}
	s.engine = engine
	return nil
}

// Start implements Service
func (s *Service) Start() error {
	if err := s.engine.Start(); err != nil {
		return err
	}
	log.Printf("audio: streaming via %s at %dHz, %d ch %s, %dx%d blocks",
		s.engine.SinkName(), s.engine.SampleRate(), s.config.Channels, s.config.Format,
		s.config.BlockCount, s.config.BlockSamples)
	return nil
}

// Stop implements Service
func (s *Service) Stop() error {
	if s.engine == nil {
		return nil
	}
	return s.engine.Stop()
}

// Engine returns the underlying engine, nil before Init
func (s *Service) Engine() *Engine {
	return s.engine
}

// Time returns the synthesis clock, 0 before Init
func (s *Service) Time() float64 {
	if s.engine == nil {
		return 0
	}
	return s.engine.Time()
}

// Err forwards the engine's fatal error channel
func (s *Service) Err() <-chan error {
	if s.engine == nil {
		return nil
	}
	return s.engine.Err()
}
