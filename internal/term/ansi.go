package term

import (
	"fmt"
	"io"
)

// Text attributes shared with the renderer.
const (
	Reset  = "\x1b[m"
	Bold   = "\x1b[1m"
	Invert = "\x1b[7m"
)

const (
	hideCursor = "\x1b[?25l"
	showCursor = "\x1b[?25h"
	savePos    = "\x1b[s"
	restorePos = "\x1b[u"
	eraseBelow = "\x1b[0J"
	eraseLine  = "\x1b[2K"

	cursorQuery = "\x1b[6n"
)

// EraseBlock returns the cursor to the saved anchor and erases everything
// rendered since: below the cursor and to the end of the anchor line.
func EraseBlock(w io.Writer) {
	fmt.Fprint(w, restorePos+eraseBelow+eraseLine)
}

// MoveTo positions the cursor at a 1-based row and column.
func MoveTo(w io.Writer, row, col int) {
	fmt.Fprintf(w, "\x1b[%d;%df", row, col)
}

// SavePosition stores the current cursor position in the terminal.
func SavePosition(w io.Writer) {
	fmt.Fprint(w, savePos)
}
