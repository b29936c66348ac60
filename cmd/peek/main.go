//go:build !windows

package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	xt "golang.org/x/term"

	"peek/internal/browse"
	"peek/internal/config"
	"peek/internal/nav"
	"peek/internal/term"
)

var version = "0.0.0-dev"

const usageLine = "Usage: peek [-aBcdFhx] [<directory>]"

const helpText = usageLine + `
Interactive exploration of directories on the command line.

Flags:
  -a	Show files starting with . (hidden by default)
  -B	Don't output color.
  -c	Clear listing on exit.
  -d	Print current directory path before listing.
  -F	Append ls style indicators to the end of entries.
  -h	Print this message and exit.
  -x	Print unprintable characters as hex.  Carriage return would be /0D/.
  -version	Print version and exit.

Keys:
   E	Edit selected entry.
   O	Open selected entry.
   X	Execute selected entry.
   Q	Quit.
   K|Up           Go up a directory.
   J|Down|Enter   Open selected directory.
   H|Left         Move selection left.
   L|Right        Move selection right.
`

func main() {
	opts, startDir := parseFlags()

	if !xt.IsTerminal(int(os.Stdin.Fd())) || !xt.IsTerminal(int(os.Stdout.Fd())) {
		fatal("stdin and stdout must be a terminal")
	}
	start, err := browse.ChangeDir("", startDir)
	if err != nil {
		fatal("%v", err)
	}

	sess, err := term.Open(os.Stdin, os.Stdout)
	if err != nil {
		fatal("%v", err)
	}
	release := func(overflow int) { sess.Release(overflow, opts.ClearOnExit) }

	eng := nav.New(sess, sess, release, start, opts)

	// The release must also run when a signal, not a keystroke, ends the
	// session. Release is once-only, so racing the normal path is fine.
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigc
		release(eng.Overflow())
		os.Exit(1)
	}()

	err = eng.Run()
	release(eng.Overflow())
	if err != nil {
		fatal("%v", err)
	}
}

func parseFlags() (config.Options, string) {
	opts := config.Default()
	fs := flag.NewFlagSet("peek", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s\nTry 'peek -h' for more information.\n", usageLine)
	}
	fs.BoolVar(&opts.ShowDotfiles, "a", false, "show files starting with .")
	noColor := fs.Bool("B", false, "don't output color")
	fs.BoolVar(&opts.ClearOnExit, "c", false, "clear listing on exit")
	fs.BoolVar(&opts.ShowPath, "d", false, "print current directory before listing")
	fs.BoolVar(&opts.Indicators, "F", false, "append type indicators to entries")
	fs.BoolVar(&opts.HexEscape, "x", false, "print unprintable characters as hex")
	help := fs.Bool("h", false, "print this message and exit")
	showVersion := fs.Bool("version", false, "print version and exit")
	if err := fs.Parse(os.Args[1:]); err != nil {
		os.Exit(1)
	}
	if *help {
		fmt.Fprint(os.Stdout, helpText)
		os.Exit(0)
	}
	if *showVersion {
		fmt.Fprintf(os.Stdout, "peek %s\n", version)
		os.Exit(0)
	}
	dir := "."
	if fs.NArg() > 0 {
		dir = fs.Arg(0)
	}
	opts.Color = !*noColor
	return opts, dir
}

func fatal(format string, a ...any) {
	fmt.Fprintf(os.Stderr, "peek: "+format+"\n", a...)
	os.Exit(1)
}
