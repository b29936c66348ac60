package browse

import (
	"io/fs"

	"golang.org/x/sys/unix"
)

// Kind is the filesystem entry type the listing distinguishes.
type Kind int

const (
	KindUnknown Kind = iota
	KindFifo
	KindCharDevice
	KindDir
	KindBlockDevice
	KindRegular
	KindSymlink
	KindSocket
)

// Entry is one directory listing row. Color and Indicator are derived
// from the entry type, or from an execute-permission probe when the type
// alone says nothing useful.
type Entry struct {
	Name      string
	Kind      Kind
	Color     string // 16-color SGR sequence, empty for plain entries
	Indicator byte   // trailing type marker, 0 for none
}

var kindColors = map[Kind]string{
	KindFifo:        "\x1b[33m",
	KindCharDevice:  "\x1b[33;1m",
	KindDir:         "\x1b[34;1m",
	KindBlockDevice: "\x1b[33;1m",
	KindSymlink:     "\x1b[36;1m",
	KindSocket:      "\x1b[35;1m",
}

var kindIndicators = map[Kind]byte{
	KindDir:     '/',
	KindSymlink: '@',
	KindSocket:  '=',
}

const (
	execColor     = "\x1b[32;1m"
	execIndicator = '*'
)

func kindOf(mode fs.FileMode) Kind {
	switch {
	case mode.IsRegular():
		return KindRegular
	case mode&fs.ModeDir != 0:
		return KindDir
	case mode&fs.ModeSymlink != 0:
		return KindSymlink
	case mode&fs.ModeNamedPipe != 0:
		return KindFifo
	case mode&fs.ModeSocket != 0:
		return KindSocket
	case mode&fs.ModeCharDevice != 0:
		return KindCharDevice
	case mode&fs.ModeDevice != 0:
		return KindBlockDevice
	default:
		return KindUnknown
	}
}

// Classify builds the listing entry for name inside dir. Regular and
// unreported kinds fall back to probing execute permission on the full
// path, once per entry per scan.
func Classify(dir, name string, mode fs.FileMode) Entry {
	e := Entry{Name: name, Kind: kindOf(mode)}
	if color, ok := kindColors[e.Kind]; ok {
		e.Color = color
		e.Indicator = kindIndicators[e.Kind]
		return e
	}
	if path, err := Resolve(dir, name); err == nil {
		if unix.Access(path, unix.X_OK) == nil {
			e.Color = execColor
			e.Indicator = execIndicator
		}
	}
	return e
}
