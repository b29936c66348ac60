package browse

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

var (
	// ErrPathTooLong reports a resolved path over the platform limit.
	ErrPathTooLong = errors.New("path too long")
	// ErrNotDirectory reports an attempt to enter a non-directory.
	ErrNotDirectory = errors.New("not a directory")
)

// Resolve joins dir and suffix with a single separator. An absolute
// suffix stands on its own and replaces dir entirely.
func Resolve(dir, suffix string) (string, error) {
	joined := suffix
	if !filepath.IsAbs(suffix) && dir != "" {
		joined = dir + "/" + suffix
	}
	if len(joined) >= unix.PathMax {
		return "", fmt.Errorf("%s/%s: %w", dir, suffix, ErrPathTooLong)
	}
	return joined, nil
}

// ChangeDir resolves target against current and canonicalizes the result,
// following symlinks and collapsing . and .. segments. The canonical path
// is built in a fresh string and only returned on success, so a failed
// change leaves the caller's current path intact. Targets that exist but
// are not directories are rejected.
func ChangeDir(current, target string) (string, error) {
	next, err := Resolve(current, target)
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(next)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", next, err)
	}
	canon, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("enter %s: %w", abs, err)
	}
	info, err := os.Stat(canon)
	if err != nil {
		return "", fmt.Errorf("enter %s: %w", canon, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("enter %s: %w", canon, ErrNotDirectory)
	}
	return canon, nil
}
