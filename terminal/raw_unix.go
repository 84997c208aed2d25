//go:build unix

package terminal

import (
	"io"
	"os"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// Raw reads single keystrokes from a raw-mode terminal without blocking
type Raw struct {
	in      *os.File
	out     io.Writer
	fd      int
	oldTerm *term.State
	buf     [1]byte
}

// NewRaw switches in to raw mode; status lines go to out
func NewRaw(in *os.File, out io.Writer) (*Raw, error) {
	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		return nil, ErrNotTerminal
	}

	old, err := term.MakeRaw(fd)
	if err != nil {
		return nil, err
	}
	return &Raw{in: in, out: out, fd: fd, oldTerm: old}, nil
}

// Poll returns the next key byte, or 0 when nothing is pending
func (r *Raw) Poll() (rune, error) {
	fds := []unix.PollFd{
		{Fd: int32(r.fd), Events: unix.POLLIN},
	}

	n, err := unix.Poll(fds, 0)
	if err != nil {
		if err == unix.EINTR {
			return 0, nil
		}
		return 0, err
	}
	if n == 0 {
		return 0, nil
	}

	rn, err := unix.Read(r.fd, r.buf[:])
	if err != nil {
		if err == unix.EINTR || err == unix.EAGAIN {
			return 0, nil
		}
		return 0, err
	}
	if rn == 0 {
		return 0, io.EOF
	}
	return rune(r.buf[0]), nil
}

// Show rewrites the current line; raw mode needs the explicit carriage return
func (r *Raw) Show(line string) {
	io.WriteString(r.out, "\r\x1b[2K"+line)
}

// Close restores the saved terminal state
func (r *Raw) Close() error {
	if r.oldTerm == nil {
		return nil
	}
	io.WriteString(r.out, "\r\n")
	err := term.Restore(r.fd, r.oldTerm)
	r.oldTerm = nil
	return err
}
