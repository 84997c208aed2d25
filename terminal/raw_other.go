//go:build !unix

package terminal

import (
	"io"
	"os"
)

// Raw is unavailable without unix poll; use Tcell instead
type Raw struct{}

// NewRaw always fails on this platform
func NewRaw(in *os.File, out io.Writer) (*Raw, error) {
	return nil, ErrNotTerminal
}

func (r *Raw) Poll() (rune, error) { return 0, io.EOF }

func (r *Raw) Show(line string) {}

func (r *Raw) Close() error { return nil }
