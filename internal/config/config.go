package config

// Options is the parsed flag structure handed to every component. There
// is no process-wide configuration state; callers pass this explicitly.
type Options struct {
	ShowDotfiles bool // -a: show entries starting with .
	Color        bool // cleared by -B
	ClearOnExit  bool // -c: erase the listing instead of stepping past it
	ShowPath     bool // -d: print the current directory before the listing
	Indicators   bool // -F: append ls style type indicators
	HexEscape    bool // -x: print unprintable bytes as /XX/
}

// Default returns the options in effect when no flags are given.
func Default() Options {
	return Options{Color: true}
}
