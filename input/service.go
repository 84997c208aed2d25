package input

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"
	"sync"

	"github.com/lixenwraith/keysynth/status"
	"github.com/lixenwraith/keysynth/synth"
	"github.com/lixenwraith/keysynth/terminal"
)

// Source is a key source that also shows status and owns terminal state
type Source interface {
	KeySource
	Display
	Close() error
}

// SourceFactory opens the key source when the service starts
type SourceFactory func() (Source, error)

// Service runs the controller on its own goroutine
type Service struct {
	config   *Config
	registry *synth.Registry
	clock    Clock
	open     SourceFactory
	metrics  *status.Registry

	keys       *KeyTable
	source     Source
	controller *Controller

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan error
}

// NewService creates the input service; the clock is usually the audio service
func NewService(cfg *Config, reg *synth.Registry, clock Clock, open SourceFactory, metrics *status.Registry) *Service {
	if cfg == nil {
		cfg = DefaultInputConfig()
	}
	return &Service{
		config:   cfg,
		registry: reg,
		clock:    clock,
		open:     open,
		metrics:  metrics,
	}
}

// Name implements Service
func (s *Service) Name() string {
	return "input"
}

// Dependencies implements Service
// Onsets are stamped with the audio clock, so audio must be streaming first
func (s *Service) Dependencies() []string {
	return []string{"audio"}
}

// Init implements Service
func (s *Service) Init() error {
	if err := s.config.Validate(); err != nil {
		return fmt.Errorf("input config: %w", err)
	}
	keys, err := NewKeyTable(s.config.Keys)
	if err != nil {
		return err
	}
	s.keys = keys
	return nil
}

// Start implements Service - opens the source and launches the control loop
func (s *Service) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		return nil
	}

	src, err := s.open()
	if err != nil {
		return fmt.Errorf("key source: %w", err)
	}
	s.source = src

	s.controller = NewController(s.config, s.keys, s.registry, s.clock, src)
	s.controller.SetDisplay(src)
	s.controller.SetStatus(s.metrics)
	src.Show("Stopped")

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan error, 1)

	go s.runLoop(ctx, s.done)
	return nil
}

// runLoop restores the terminal before dying on a panic
func (s *Service) runLoop(ctx context.Context, done chan<- error) {
	defer func() {
		if r := recover(); r != nil {
			s.source.Close()
			terminal.EmergencyReset(os.Stdout)
			fmt.Fprintf(os.Stderr, "\r\n\x1b[31mCONTROL LOOP CRASHED: %v\x1b[0m\r\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
			os.Stderr.Sync()
			os.Exit(1)
		}
	}()

	done <- s.controller.Run(ctx)
	close(done)
}

// Done delivers the control loop result: nil on quit, the source error otherwise
func (s *Service) Done() <-chan error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

// Stop implements Service - cancels the loop and restores the terminal
func (s *Service) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel == nil {
		return nil
	}
	s.cancel()
	s.cancel = nil

	// Closed after the result is sent, so this returns even if the caller drained it
	<-s.done

	return s.source.Close()
}

// Controller returns the running controller, nil before Start
func (s *Service) Controller() *Controller {
	return s.controller
}
