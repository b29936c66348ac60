//go:build !windows

package term

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/sys/unix"
	xt "golang.org/x/term"
)

// Session owns the terminal for the lifetime of the browser. The line
// discipline runs with echo and canonical mode off and VMIN=0/VTIME=0;
// reads stay logically blocking because ReadByte polls the descriptor
// before every read.
type Session struct {
	in   *os.File
	out  *os.File
	old  unix.Termios
	once sync.Once
}

// Open captures the current terminal attributes, switches the input to
// keystroke-at-a-time delivery, and hides and anchors the cursor. The
// caller must arrange for Release to run on every exit path.
func Open(in, out *os.File) (*Session, error) {
	fd := int(in.Fd())
	old, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		return nil, fmt.Errorf("terminal attributes: %w", err)
	}
	raw := *old
	raw.Lflag &^= unix.ECHO | unix.ICANON
	raw.Cc[unix.VMIN] = 0
	raw.Cc[unix.VTIME] = 0
	if err := unix.IoctlSetTermios(fd, unix.TCSETS, &raw); err != nil {
		return nil, fmt.Errorf("raw mode: %w", err)
	}
	s := &Session{in: in, out: out, old: *old}
	fmt.Fprint(out, hideCursor+savePos)
	return s, nil
}

// Release restores the terminal, exactly once no matter how many exit
// paths reach it. overflow is the last render's overflow line count;
// clear erases the rendered block instead of stepping past it so the
// shell prompt lands on a clean line either way.
func (s *Session) Release(overflow int, clear bool) {
	s.once.Do(func() {
		fmt.Fprint(s.out, showCursor)
		if clear {
			EraseBlock(s.out)
		} else {
			for l := 0; l <= overflow; l++ {
				fmt.Fprint(s.out, "\n")
			}
		}
		_ = unix.IoctlSetTermios(int(s.in.Fd()), unix.TCSETS, &s.old)
	})
}

// ReadByte blocks until one input byte is available. VMIN=0 makes the
// descriptor deliver zero-byte reads, so availability is gated on poll.
func (s *Session) ReadByte() (byte, error) {
	fd := int(s.in.Fd())
	buf := make([]byte, 1)
	for {
		fds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
		if _, err := unix.Poll(fds, -1); err != nil {
			if err == unix.EINTR {
				continue
			}
			return 0, fmt.Errorf("poll input: %w", err)
		}
		n, err := unix.Read(fd, buf)
		if n == 1 {
			return buf[0], nil
		}
		if err != nil && err != unix.EAGAIN {
			return 0, fmt.Errorf("read input: %w", err)
		}
	}
}

// Pending reports how many input bytes are already queued on the
// descriptor without blocking.
func (s *Session) Pending() (int, error) {
	return unix.IoctlGetInt(int(s.in.Fd()), unix.TIOCINQ)
}

// drain discards queued input so stale keystrokes cannot be mistaken for
// a cursor position reply. Best effort; unrelated input is lost rather
// than re-injected.
func (s *Session) drain() {
	n, err := s.Pending()
	if err != nil || n <= 0 {
		return
	}
	buf := make([]byte, n)
	_, _ = s.in.Read(buf)
}

// Size reports the terminal geometry, falling back to 80x24 when the
// query fails.
func (s *Session) Size() (cols, rows int) {
	w, h, _ := xt.GetSize(int(s.out.Fd()))
	if w <= 0 {
		w = 80
	}
	if h <= 0 {
		h = 24
	}
	return w, h
}

// Write lets the renderer treat the session as its output surface.
func (s *Session) Write(p []byte) (int, error) {
	return s.out.Write(p)
}
