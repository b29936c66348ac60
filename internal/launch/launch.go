//go:build !windows

package launch

import (
	"fmt"
	"os"
	"os/exec"

	"golang.org/x/sys/unix"
)

// Replace swaps the current process image for program, invoked as
// `program [args...]`. The terminal must already be restored; nothing
// after a successful call runs. The returned error therefore always
// means the exec failed.
func Replace(program string, args ...string) error {
	argv := append([]string{program}, args...)
	if err := unix.Exec(program, argv, os.Environ()); err != nil {
		return fmt.Errorf("%s failed to execute: %w", program, err)
	}
	return nil
}

// Fork starts program with path as its argument and returns without
// waiting on it. The child shares the terminal's standard streams. It is
// reaped on a background goroutine so a still-running parent never
// accumulates zombies and never blocks its input loop.
func Fork(program, path string) error {
	cmd := exec.Command(program, path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("could not start process for %s: %w", program, err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}
