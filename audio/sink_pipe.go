package audio

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"

	"github.com/lixenwraith/keysynth/constant"
)

// PipeSink streams raw samples into an external player's stdin
// FreeBSD OSS is written directly without a process
type PipeSink struct {
	cfg      SinkConfig
	backend  *BackendConfig
	restarts int

	cmd     *exec.Cmd
	stdin   io.WriteCloser
	ossFile *os.File
	w       io.Writer
}

// NewPipeSink creates an unopened pipe sink
func NewPipeSink() *PipeSink {
	return &PipeSink{}
}

// Name implements Sink
func (s *PipeSink) Name() string {
	if s.backend != nil {
		return DriverPipe + ":" + s.backend.Name
	}
	return DriverPipe
}

// Backend returns the detected backend, nil before Open
func (s *PipeSink) Backend() *BackendConfig {
	return s.backend
}

// Open implements Sink
func (s *PipeSink) Open(cfg SinkConfig) (int, error) {
	backend, err := DetectBackend(cfg)
	if err != nil {
		return 0, err
	}
	s.cfg = cfg
	s.backend = backend
	s.restarts = 0

	if err := s.start(); err != nil {
		return 0, err
	}
	return cfg.SampleRate, nil
}

func (s *PipeSink) start() error {
	if s.backend.Type == BackendOSS {
		f, err := os.OpenFile(s.backend.Path, os.O_WRONLY, 0)
		if err != nil {
			return err
		}
		s.ossFile = f
		s.w = f
		return nil
	}

	cmd := exec.Command(s.backend.Path, s.backend.Args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		stdin.Close()
		return fmt.Errorf("start %s: %w", s.backend.Name, err)
	}

	s.cmd = cmd
	s.stdin = stdin
	s.w = stdin
	return nil
}

func (s *PipeSink) stopProcess() {
	if s.stdin != nil {
		s.stdin.Close()
		s.stdin = nil
	}
	if s.ossFile != nil {
		s.ossFile.Close()
		s.ossFile = nil
	}
	if s.cmd != nil && s.cmd.Process != nil {
		s.cmd.Process.Kill()
		s.cmd.Wait()
	}
	s.cmd = nil
	s.w = nil
}

// Write implements Sink
// Blocks while the player's buffer is full
func (s *PipeSink) Write(block []byte) (int, error) {
	if s.w == nil {
		return 0, ErrSinkClosed
	}
	n, err := s.w.Write(block)
	frames := n / s.cfg.FrameBytes()
	if err != nil {
		return frames, fmt.Errorf("%w: %w", ErrPipeClosed, err)
	}
	return frames, nil
}

// Recover implements Sink
// A closed pipe restarts the player, up to MaxPipeRestarts times
func (s *PipeSink) Recover(err error) error {
	if !errors.Is(err, ErrPipeClosed) || s.backend == nil {
		return err
	}
	if s.restarts >= constant.MaxPipeRestarts {
		return fmt.Errorf("%s restart limit reached: %w", s.backend.Name, err)
	}
	s.restarts++

	s.stopProcess()
	if serr := s.start(); serr != nil {
		return fmt.Errorf("restart %s: %w", s.backend.Name, serr)
	}
	log.Printf("audio: restarted %s (%d/%d)", s.backend.Name, s.restarts, constant.MaxPipeRestarts)
	return nil
}

// Close implements Sink
func (s *PipeSink) Close() error {
	s.stopProcess()
	return nil
}
