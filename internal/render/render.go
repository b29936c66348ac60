package render

import (
	"fmt"
	"io"
	"strings"

	runewidth "github.com/mattn/go-runewidth"

	"peek/internal/browse"
	"peek/internal/config"
	"peek/internal/term"
)

// Screen is the terminal surface the renderer draws on. term.Session
// implements it; tests substitute a scripted fake.
type Screen interface {
	io.Writer
	Size() (cols, rows int)
	CursorPosition() (term.Position, error)
}

// View is the navigation state one render presents. Draw wraps Selected
// into range and records the name it landed on; SelectedName is empty
// when the directory has no selectable entries.
type View struct {
	Path         string
	Selected     int
	SelectedName string
}

// State is the column accounting of one render pass. Overflow persists to
// correct the next erase; the other fields are scratch.
type State struct {
	Printed  int // columns used on the current line
	Wrapped  int // forced line breaks emitted
	Overflow int // lines the terminal scrolled past the saved anchor
}

const (
	delim       = "  "
	msgCantScan = "/could not scan/"
	msgEmpty    = "/empty/"
)

// Draw erases the previously rendered block, re-enumerates view.Path and
// renders the listing inline, then re-anchors the saved cursor position
// if the output scrolled the terminal. Scan failure and empty listings
// render as marker messages rather than entries.
func Draw(s Screen, view *View, opts config.Options) (State, error) {
	cols, _ := s.Size()
	listing := browse.Scan(view.Path, opts.ShowDotfiles)
	entries := listing.Entries

	// Wrap the selection into range before anything is printed. Moving
	// past either end lands on the opposite end.
	switch {
	case len(entries) == 0:
		view.Selected = 0
	case view.Selected < 0:
		view.Selected = len(entries) - 1
	case view.Selected >= len(entries):
		view.Selected = 0
	}
	view.SelectedName = ""

	term.EraseBlock(s)
	anchor, err := s.CursorPosition()
	if err != nil {
		return State{}, err
	}

	var st State
	if opts.ShowPath {
		fmt.Fprintf(s, "%s%s%s%s: ", term.Bold, term.Invert, view.Path, term.Reset)
		st.Printed += runewidth.StringWidth(view.Path) + 2
	}
	fmt.Fprint(s, term.Reset)

	switch {
	case listing.Unreadable:
		fmt.Fprint(s, msgCantScan+term.Reset+" ")
		st.Printed += runewidth.StringWidth(msgCantScan) + 1
	case len(entries) == 0:
		fmt.Fprint(s, msgEmpty+term.Reset+" ")
		st.Printed += runewidth.StringWidth(msgEmpty) + 1
	}

	for i, e := range entries {
		name := displayName(e.Name, opts.HexEscape)
		width := EntryWidth(name, opts.Indicators)
		if st.Printed+width >= cols {
			fmt.Fprint(s, "\n")
			st.Wrapped++
			st.Printed = 0
		}
		if i == view.Selected {
			view.SelectedName = e.Name
			fmt.Fprint(s, term.Invert)
		}
		if opts.Color && e.Color != "" {
			fmt.Fprint(s, e.Color)
		}
		fmt.Fprint(s, name)
		st.Printed += runewidth.StringWidth(name)
		fmt.Fprint(s, term.Reset)
		if opts.Indicators && e.Indicator != 0 {
			fmt.Fprintf(s, "%c", e.Indicator)
			st.Printed++
		}
		fmt.Fprint(s, delim)
		st.Printed += len(delim)
	}

	// If the render pushed past the bottom of the screen the terminal
	// scrolled and the saved anchor now points at the wrong row. Compute
	// how far and re-save the anchor that many lines up.
	after, err := s.CursorPosition()
	if err != nil {
		return State{}, err
	}
	total := st.Printed + st.Wrapped*cols
	st.Overflow = total / cols
	if st.Overflow > 0 {
		term.MoveTo(s, after.Row-st.Overflow, anchor.Col)
		term.SavePosition(s)
	}
	return st, nil
}

// EntryWidth is the rendered width of one entry: the display width of its
// sanitized name, one cell for the indicator when indicators are on, and
// the inter-entry delimiter.
func EntryWidth(name string, indicators bool) int {
	w := runewidth.StringWidth(name) + len(delim)
	if indicators {
		w++
	}
	return w
}

// displayName drops or hex-escapes control bytes. The walk is byte-wise
// so multi-byte runes pass through untouched.
func displayName(name string, hex bool) string {
	var b strings.Builder
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c > 0x1f && c != 0x7f:
			b.WriteByte(c)
		case hex:
			fmt.Fprintf(&b, "/%02X/", c)
		}
	}
	return b.String()
}
