package input

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync/atomic"
	"time"
	"unicode"

	"github.com/lixenwraith/keysynth/constant"
	"github.com/lixenwraith/keysynth/status"
	"github.com/lixenwraith/keysynth/synth"
)

// KeySource yields key presses without blocking; 0 means nothing pending
type KeySource interface {
	Poll() (rune, error)
}

// Display receives the one-line status
type Display interface {
	Show(line string)
}

// Clock is the synthesis clock used to stamp onsets
type Clock interface {
	Time() float64
}

const statusStopped = "Stopped"

// Controller turns key presses into note lifecycles in the registry
// It is the registry's only writer; Step and Run must not be called concurrently
type Controller struct {
	config   *Config
	keys     *KeyTable
	registry *synth.Registry
	clock    Clock
	source   KeySource
	display  Display

	// lastPress is the synthesis time of the latest press per held key
	lastPress map[rune]float64
	scratch   []rune

	notesOn      *atomic.Int64
	autoReleases *atomic.Int64
	lastNote     *status.AtomicString
}

// NewController wires the control loop; keys must come from the same config
func NewController(cfg *Config, keys *KeyTable, reg *synth.Registry, clock Clock, src KeySource) *Controller {
	if cfg == nil {
		cfg = DefaultInputConfig()
	}
	if keys == nil {
		keys = DefaultKeyTable()
	}
	return &Controller{
		config:    cfg,
		keys:      keys,
		registry:  reg,
		clock:     clock,
		source:    src,
		lastPress: make(map[rune]float64, keys.Len()),
		scratch:   make([]rune, 0, keys.Len()),
	}
}

// SetDisplay attaches a status line sink
func (c *Controller) SetDisplay(d Display) {
	c.display = d
}

// SetStatus publishes press counters into reg
func (c *Controller) SetStatus(reg *status.Registry) {
	if reg == nil {
		return
	}
	c.notesOn = reg.Ints.Get(status.KeyNotesOn)
	c.autoReleases = reg.Ints.Get(status.KeyAutoReleases)
	c.lastNote = reg.Strings.Get(status.KeyLastNote)
}

// Step performs one control tick: at most one key, then the idle check
// Returns true when the quit key was pressed
func (c *Controller) Step() (bool, error) {
	key, err := c.source.Poll()
	if err != nil {
		return false, err
	}

	now := c.clock.Time()
	if key != 0 {
		key = unicode.ToLower(key)
		if key == constant.QuitKey || key == constant.KeyCtrlC {
			return true, nil
		}
		if freq, ok := c.keys.Frequency(key); ok {
			c.press(key, freq, now)
		}
	}

	c.releaseIdle(now)
	return false, nil
}

// press triggers the note, or only refreshes the idle timer for a repeat inside the window
func (c *Controller) press(key rune, freq, now float64) {
	last, held := c.lastPress[key]
	c.lastPress[key] = now

	if held && c.config.RepeatWindow > 0 && now-last < c.config.RepeatWindow {
		if n, ok := c.registry.Get(key); ok && n.Active {
			return
		}
	}

	c.registry.Trigger(key, freq, c.config.Velocity, now)

	line := fmt.Sprintf("Playing: %.2fHz", freq)
	if c.notesOn != nil {
		c.notesOn.Add(1)
		c.lastNote.Store(line)
	}
	c.show(line)
}

// releaseIdle releases keys with no press for AutoRelease seconds
func (c *Controller) releaseIdle(now float64) {
	if len(c.lastPress) == 0 {
		return
	}

	c.scratch = c.scratch[:0]
	for key, last := range c.lastPress {
		if now-last >= c.config.AutoRelease {
			c.scratch = append(c.scratch, key)
		}
	}
	if len(c.scratch) == 0 {
		return
	}

	sort.Slice(c.scratch, func(i, j int) bool { return c.scratch[i] < c.scratch[j] })
	for _, key := range c.scratch {
		delete(c.lastPress, key)
		if c.registry.Release(key, now) && c.autoReleases != nil {
			c.autoReleases.Add(1)
		}
	}

	if len(c.lastPress) == 0 {
		c.show(statusStopped)
	}
}

// releaseAll ends every held note, used on quit and cancel
func (c *Controller) releaseAll() {
	c.registry.ReleaseAll(c.clock.Time())
	clear(c.lastPress)
	c.show(statusStopped)
}

func (c *Controller) show(line string) {
	if c.display != nil {
		c.display.Show(line)
	}
}

// Held returns the number of keys awaiting auto-release
func (c *Controller) Held() int {
	return len(c.lastPress)
}

// Run ticks every PollInterval until quit, cancellation or a source error
// A closed input (io.EOF) counts as quit
func (c *Controller) Run(ctx context.Context) error {
	ticker := time.NewTicker(c.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.releaseAll()
			return nil
		case <-ticker.C:
		}

		quit, err := c.Step()
		if err != nil {
			c.releaseAll()
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("key source: %w", err)
		}
		if quit {
			c.releaseAll()
			return nil
		}
	}
}
