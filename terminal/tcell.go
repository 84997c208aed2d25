package terminal

import (
	"fmt"
	"os"
	"runtime/debug"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/keysynth/constant"
)

// keyBuffer bounds keys queued between the reader goroutine and Poll
const keyBuffer = 64

var (
	styleTitle  = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleStatus = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleHelp   = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

// Tcell is a key source backed by a tcell screen
// A reader goroutine turns key events into runes; Poll never blocks
type Tcell struct {
	screen tcell.Screen
	title  string
	help   string

	keys chan rune
	done chan struct{}

	mu     sync.Mutex // Serializes drawing
	status string
	closed bool
}

// NewTcellScreen opens the real terminal screen
func NewTcellScreen(title, help string) (*Tcell, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("tcell screen: %w", err)
	}
	return NewTcell(screen, title, help)
}

// NewTcell initializes screen and starts reading events
func NewTcell(screen tcell.Screen, title, help string) (*Tcell, error) {
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("tcell init: %w", err)
	}
	screen.HideCursor()

	t := &Tcell{
		screen: screen,
		title:  title,
		help:   help,
		keys:   make(chan rune, keyBuffer),
		done:   make(chan struct{}),
	}
	t.draw()

	go t.readLoop()
	return t, nil
}

// readLoop forwards key runes until the screen is finalized
func (t *Tcell) readLoop() {
	defer close(t.done)

	defer func() {
		if r := recover(); r != nil {
			t.screen.Fini()
			EmergencyReset(os.Stdout)
			fmt.Fprintf(os.Stderr, "\r\n\x1b[31mKEY READER CRASHED: %v\x1b[0m\r\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
			os.Stderr.Sync()
			os.Exit(1)
		}
	}()

	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return
		}

		switch ev := ev.(type) {
		case *tcell.EventKey:
			var key rune
			switch ev.Key() {
			case tcell.KeyCtrlC:
				key = constant.KeyCtrlC
			case tcell.KeyRune:
				key = ev.Rune()
			default:
				continue
			}
			// Drop keys when the controller falls behind rather than stall the screen
			select {
			case t.keys <- key:
			default:
			}

		case *tcell.EventResize:
			t.screen.Sync()
			t.draw()
		}
	}
}

// Poll returns the next buffered key, or 0 when none is pending
func (t *Tcell) Poll() (rune, error) {
	select {
	case k := <-t.keys:
		return k, nil
	default:
		return 0, nil
	}
}

// Show replaces the status line
func (t *Tcell) Show(line string) {
	t.mu.Lock()
	t.status = line
	t.mu.Unlock()
	t.draw()
}

func (t *Tcell) draw() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return
	}

	t.screen.Clear()
	drawText(t.screen, 0, 0, t.title, styleTitle)
	drawText(t.screen, 0, 1, t.help, styleHelp)
	drawText(t.screen, 0, 3, t.status, styleStatus)
	t.screen.Show()
}

func drawText(s tcell.Screen, x, y int, text string, style tcell.Style) {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x++
	}
}

// Close finalizes the screen and waits for the reader
func (t *Tcell) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	t.mu.Unlock()

	t.screen.Fini()
	<-t.done
	return nil
}
