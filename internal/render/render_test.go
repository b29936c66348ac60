package render

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"peek/internal/config"
	"peek/internal/term"
)

// fakeScreen records everything Draw writes and replays scripted cursor
// positions, defaulting to 1;1.
type fakeScreen struct {
	bytes.Buffer
	cols      int
	positions []term.Position
	calls     int
}

func (f *fakeScreen) Size() (int, int) { return f.cols, 24 }

func (f *fakeScreen) CursorPosition() (term.Position, error) {
	p := term.Position{Row: 1, Col: 1}
	if f.calls < len(f.positions) {
		p = f.positions[f.calls]
	}
	f.calls++
	return p, nil
}

var ansiRe = regexp.MustCompile(`\x1b\[[0-9;?]*[A-Za-z]`)

func stripANSI(s string) string { return ansiRe.ReplaceAllString(s, "") }

func touch(t *testing.T, dir string, files ...string) {
	t.Helper()
	for _, f := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, f), []byte("x"), 0o644))
	}
}

func TestDrawWrapsBeforeColumnLimit(t *testing.T) {
	tmp := t.TempDir()
	touch(t, tmp, "aa", "bb", "cc", "dd")

	s := &fakeScreen{cols: 10}
	view := &View{Path: tmp}
	st, err := Draw(s, view, config.Options{})
	require.NoError(t, err)

	// Each entry takes 4 columns; the third would hit the limit on a
	// 10-column terminal, so it starts a new line.
	assert.Equal(t, "aa  bb  \ncc  dd  ", stripANSI(s.String()))
	assert.Equal(t, 1, st.Wrapped)
	assert.Equal(t, 8, st.Printed)
	assert.Equal(t, "aa", view.SelectedName)
}

func TestDrawWrapPointsMatchColumnSimulation(t *testing.T) {
	tmp := t.TempDir()
	names := []string{"Makefile", "go.mod", "go.sum", "main.go", "readme"}
	touch(t, tmp, names...)

	for _, indicators := range []bool{false, true} {
		cols := 26
		s := &fakeScreen{cols: cols}
		_, err := Draw(s, &View{Path: tmp}, config.Options{Indicators: indicators})
		require.NoError(t, err)

		// Reference column accounting: width is name + indicator slot
		// (when enabled) + delimiter, a break resets the counter.
		printed, wraps := 0, 0
		for _, n := range names {
			w := EntryWidth(n, indicators)
			if printed+w >= cols {
				wraps++
				printed = 0
			}
			printed += len(n) + 2
		}
		got := len(regexp.MustCompile(`\n`).FindAllString(s.String(), -1))
		assert.Equal(t, wraps, got, "indicators=%v", indicators)
	}
}

func TestDrawIdempotentForUnchangedDirectory(t *testing.T) {
	tmp := t.TempDir()
	touch(t, tmp, "alpha", "beta", "gamma")

	run := func() (string, State) {
		s := &fakeScreen{cols: 20}
		st, err := Draw(s, &View{Path: tmp, Selected: 1}, config.Options{})
		require.NoError(t, err)
		return s.String(), st
	}
	out1, st1 := run()
	out2, st2 := run()
	assert.Equal(t, out1, out2)
	assert.Equal(t, st1, st2)
}

func TestDrawSelectionWrapsPastEitherEnd(t *testing.T) {
	tmp := t.TempDir()
	touch(t, tmp, "a", "b", "c")

	view := &View{Path: tmp, Selected: -1}
	_, err := Draw(&fakeScreen{cols: 40}, view, config.Options{})
	require.NoError(t, err)
	assert.Equal(t, 2, view.Selected)
	assert.Equal(t, "c", view.SelectedName)

	view = &View{Path: tmp, Selected: 3}
	_, err = Draw(&fakeScreen{cols: 40}, view, config.Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, view.Selected)
	assert.Equal(t, "a", view.SelectedName)
}

func TestDrawHighlightsSelectedEntry(t *testing.T) {
	tmp := t.TempDir()
	touch(t, tmp, "a", "b")

	s := &fakeScreen{cols: 40}
	_, err := Draw(s, &View{Path: tmp, Selected: 1}, config.Options{})
	require.NoError(t, err)
	assert.Contains(t, s.String(), term.Invert+"b")
	assert.NotContains(t, s.String(), term.Invert+"a")
}

func TestDrawEmptyDirectoryMarker(t *testing.T) {
	s := &fakeScreen{cols: 40}
	view := &View{Path: t.TempDir(), Selected: 5}
	_, err := Draw(s, view, config.Options{})
	require.NoError(t, err)
	assert.Contains(t, stripANSI(s.String()), "/empty/")
	assert.Equal(t, 0, view.Selected)
	assert.Empty(t, view.SelectedName)
}

func TestDrawUnreadableDirectoryMarker(t *testing.T) {
	s := &fakeScreen{cols: 40}
	view := &View{Path: filepath.Join(t.TempDir(), "missing")}
	_, err := Draw(s, view, config.Options{})
	require.NoError(t, err)
	assert.Contains(t, stripANSI(s.String()), "/could not scan/")
	assert.Empty(t, view.SelectedName)
}

func TestDrawPathHeader(t *testing.T) {
	tmp := t.TempDir()
	touch(t, tmp, "a")

	s := &fakeScreen{cols: 400}
	st, err := Draw(s, &View{Path: tmp}, config.Options{ShowPath: true})
	require.NoError(t, err)
	assert.Contains(t, stripANSI(s.String()), tmp+": ")
	// Header accounting counts visible columns only, not escape bytes.
	assert.Equal(t, len(tmp)+2+3, st.Printed)
}

func TestDrawUnprintableBytes(t *testing.T) {
	tmp := t.TempDir()
	touch(t, tmp, "a\rb")

	s := &fakeScreen{cols: 40}
	_, err := Draw(s, &View{Path: tmp}, config.Options{HexEscape: true})
	require.NoError(t, err)
	assert.Contains(t, stripANSI(s.String()), "a/0D/b")

	s = &fakeScreen{cols: 40}
	_, err = Draw(s, &View{Path: tmp}, config.Options{})
	require.NoError(t, err)
	assert.Contains(t, stripANSI(s.String()), "ab")
	assert.NotContains(t, s.String(), "\r")
}

func TestDrawColorToggle(t *testing.T) {
	tmp := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(tmp, "sub"), 0o755))

	s := &fakeScreen{cols: 40}
	_, err := Draw(s, &View{Path: tmp}, config.Options{Color: true})
	require.NoError(t, err)
	assert.Contains(t, s.String(), "\x1b[34;1m")

	s = &fakeScreen{cols: 40}
	_, err = Draw(s, &View{Path: tmp}, config.Options{Color: false})
	require.NoError(t, err)
	assert.NotContains(t, s.String(), "\x1b[34;1m")
}

func TestDrawIndicators(t *testing.T) {
	tmp := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(tmp, "sub"), 0o755))

	s := &fakeScreen{cols: 40}
	_, err := Draw(s, &View{Path: tmp}, config.Options{Indicators: true})
	require.NoError(t, err)
	assert.Contains(t, stripANSI(s.String()), "sub/")

	s = &fakeScreen{cols: 40}
	_, err = Draw(s, &View{Path: tmp}, config.Options{})
	require.NoError(t, err)
	assert.NotContains(t, stripANSI(s.String()), "sub/")
}

func TestDrawOverflowReanchorsSavedPosition(t *testing.T) {
	tmp := t.TempDir()
	touch(t, tmp, "aaaaaaaa", "bbbbbbbb", "cccccccc")

	s := &fakeScreen{
		cols: 10,
		// Anchor query, then the post-render query after scrolling.
		positions: []term.Position{{Row: 5, Col: 1}, {Row: 9, Col: 1}},
	}
	st, err := Draw(s, &View{Path: tmp}, config.Options{})
	require.NoError(t, err)

	// Every 10-column entry forces a break and fills a full line:
	// 10 + 3*10 columns over a 10-column terminal is 4 overflow lines.
	assert.Equal(t, 4, st.Overflow)
	assert.Contains(t, s.String(), "\x1b[5;1f\x1b[s")
}

func TestDrawNoReanchorWithoutOverflow(t *testing.T) {
	tmp := t.TempDir()
	touch(t, tmp, "a")

	s := &fakeScreen{cols: 40}
	st, err := Draw(s, &View{Path: tmp}, config.Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, st.Overflow)
	assert.NotContains(t, s.String(), "\x1b[s")
}
