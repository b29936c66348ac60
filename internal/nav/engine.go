package nav

import (
	"fmt"
	"os"
	"sync/atomic"

	"peek/internal/browse"
	"peek/internal/config"
	"peek/internal/launch"
	"peek/internal/render"
)

// Input is the keystroke source. term.Session satisfies it; tests script
// byte sequences instead.
type Input interface {
	ReadByte() (byte, error)
	Pending() (int, error)
}

// Engine drives the browse loop: one keystroke, one state transition,
// one render. It owns the current directory and the selection.
type Engine struct {
	screen   render.Screen
	input    Input
	opts     config.Options
	view     render.View
	state    render.State
	overflow atomic.Int32       // last render's overflow, read by the signal path
	restore  func(overflow int) // terminal release, run before in-process exec
}

// New builds an engine rooted at startPath, which must already be
// canonical. Selection starts at the first entry.
func New(screen render.Screen, input Input, restore func(int), startPath string, opts config.Options) *Engine {
	return &Engine{
		screen:  screen,
		input:   input,
		opts:    opts,
		restore: restore,
		view:    render.View{Path: startPath},
	}
}

// Overflow is the last render's overflow line count, needed by the
// terminal release to step past the rendered block. Safe to call from
// the signal goroutine while the run loop renders.
func (e *Engine) Overflow() int {
	return int(e.overflow.Load())
}

type action int

const (
	actNone action = iota
	actParent
	actDescend
	actLeft
	actRight
	actEdit
	actOpen
	actExec
	actQuit
)

// actionFor maps a single key byte. Arrow sequences are resolved by
// readAction before lookup; anything unmapped is ignored.
func actionFor(b byte) action {
	switch b {
	case 'K', 'k':
		return actParent
	case 'J', 'j', '\n', '\r':
		return actDescend
	case 'H', 'h':
		return actLeft
	case 'L', 'l':
		return actRight
	case 'E', 'e':
		return actEdit
	case 'O', 'o':
		return actOpen
	case 'X', 'x':
		return actExec
	case 'Q', 'q':
		return actQuit
	}
	return actNone
}

// readAction blocks for the next keystroke. An ESC with no queued
// follow-up byte is the escape key itself and quits; ESC [ A/B/C/D are
// the arrow keys.
func (e *Engine) readAction() (action, error) {
	b, err := e.input.ReadByte()
	if err != nil {
		return actNone, fmt.Errorf("read key: %w", err)
	}
	if b != 0x1b {
		return actionFor(b), nil
	}
	if n, err := e.input.Pending(); err != nil || n == 0 {
		return actQuit, nil
	}
	b, err = e.input.ReadByte()
	if err != nil {
		return actNone, fmt.Errorf("read key: %w", err)
	}
	if b != '[' {
		return actQuit, nil
	}
	b, err = e.input.ReadByte()
	if err != nil {
		return actNone, fmt.Errorf("read key: %w", err)
	}
	switch b {
	case 'A':
		return actParent, nil
	case 'B':
		return actDescend, nil
	case 'C':
		return actRight, nil
	case 'D':
		return actLeft, nil
	}
	return actNone, nil
}

// Run renders once and then blocks on keystrokes until quit or hand-off.
// Directory-change failures are fatal; the caller restores the terminal
// and reports them.
func (e *Engine) Run() error {
	if err := e.draw(); err != nil {
		return err
	}
	for {
		act, err := e.readAction()
		if err != nil {
			return err
		}
		switch act {
		case actNone:
			continue
		case actQuit:
			return nil
		case actParent:
			if err := e.changeDir(".."); err != nil {
				return err
			}
		case actDescend:
			if err := e.changeDir(e.view.SelectedName); err != nil {
				return err
			}
		case actLeft:
			e.view.Selected--
		case actRight:
			e.view.Selected++
		case actEdit:
			return e.replaceWith(editorProgram())
		case actOpen:
			return e.openForked()
		case actExec:
			return e.execSelection()
		}
		if err := e.draw(); err != nil {
			return err
		}
	}
}

func (e *Engine) draw() error {
	st, err := render.Draw(e.screen, &e.view, e.opts)
	if err != nil {
		return err
	}
	e.state = st
	e.overflow.Store(int32(st.Overflow))
	return nil
}

// changeDir enters target and resets the selection. Descending does not
// pre-validate the target; a selected non-directory fails canonicalization
// here and surfaces as a fatal error.
func (e *Engine) changeDir(target string) error {
	path, err := browse.ChangeDir(e.view.Path, target)
	if err != nil {
		return err
	}
	debugf("cd %s", path)
	e.view.Path = path
	e.view.Selected = 0
	e.view.SelectedName = ""
	return nil
}

func (e *Engine) selectedPath() (string, error) {
	return browse.Resolve(e.view.Path, e.view.SelectedName)
}

// replaceWith hands the selected path to program and replaces this
// process. The deferred release never runs past a successful exec, so the
// terminal is restored here first.
func (e *Engine) replaceWith(program string) error {
	path, err := e.selectedPath()
	if err != nil {
		return err
	}
	debugf("exec %s %s", program, path)
	e.restore(e.state.Overflow)
	return launch.Replace(program, path)
}

// execSelection runs the selected path itself as a program, no arguments.
func (e *Engine) execSelection() error {
	path, err := e.selectedPath()
	if err != nil {
		return err
	}
	debugf("exec %s", path)
	e.restore(e.state.Overflow)
	return launch.Replace(path)
}

// openForked hands the selected path to the opener in a forked child and
// ends the browse loop; the parent exits normally while the child runs.
func (e *Engine) openForked() error {
	path, err := e.selectedPath()
	if err != nil {
		return err
	}
	debugf("fork %s %s", openerProgram(), path)
	return launch.Fork(openerProgram(), path)
}

const (
	defaultEditor = "/usr/bin/vim"
	defaultOpener = "/usr/bin/xdg-open"
)

func editorProgram() string {
	if v := os.Getenv("PEEK_EDITOR"); v != "" {
		return v
	}
	return defaultEditor
}

func openerProgram() string {
	if v := os.Getenv("PEEK_OPENER"); v != "" {
		return v
	}
	return defaultOpener
}

func debugf(format string, a ...any) {
	if os.Getenv("PEEK_DEBUG") == "" {
		return
	}
	fmt.Fprintf(os.Stderr, "peek: "+format+"\n", a...)
}
