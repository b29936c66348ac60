//go:build !windows

package term

import (
	"fmt"
	"io"
)

// Position is a 1-based cursor location as reported by the terminal.
type Position struct {
	Row, Col int
}

// CursorPosition asks the emulator where the cursor is and blocks until
// a well-formed reply arrives. A terminal that never answers stalls the
// caller; there is deliberately no timeout.
func (s *Session) CursorPosition() (Position, error) {
	s.drain()
	if _, err := fmt.Fprint(s.out, cursorQuery); err != nil {
		return Position{}, err
	}
	return ParsePosition(s)
}

type scanState int

const (
	seekEscape scanState = iota
	seekBracket
	readRow
	readCol
)

// ParsePosition consumes bytes until it sees ESC [ <digits> ; <digits> R.
// Any byte that breaks the grammar drops the scan back to seekEscape, so
// stray keystrokes mixed into the stream are skipped rather than fatal.
// Partial matches are discarded whole; digits never leak across restarts.
func ParsePosition(r io.ByteReader) (Position, error) {
	var pos Position
	state := seekEscape
	for {
		b, err := r.ReadByte()
		if err != nil {
			return Position{}, fmt.Errorf("cursor reply: %w", err)
		}
		switch state {
		case seekEscape:
			if b == 0x1b {
				state = seekBracket
			}
		case seekBracket:
			if b == '[' {
				pos = Position{}
				state = readRow
			} else {
				state = seekEscape
			}
		case readRow:
			switch {
			case b >= '0' && b <= '9':
				pos.Row = pos.Row*10 + int(b-'0')
			case b == ';':
				state = readCol
			default:
				state = seekEscape
			}
		case readCol:
			switch {
			case b >= '0' && b <= '9':
				pos.Col = pos.Col*10 + int(b-'0')
			case b == 'R':
				return pos, nil
			default:
				state = seekEscape
			}
		}
	}
}
