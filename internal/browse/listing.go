package browse

import (
	"os"
	"sort"
)

// Listing is one enumeration of a directory. Unreadable distinguishes a
// failed scan from a genuinely empty directory; the two render as
// different marker messages.
type Listing struct {
	Entries    []Entry
	Unreadable bool
}

// visible applies the dotfile filter. The literal . and .. entries are
// never shown, flag or not.
func visible(name string, showDotfiles bool) bool {
	if len(name) == 0 || name[0] != '.' {
		return true
	}
	if !showDotfiles {
		return false
	}
	return name != "." && name != ".."
}

// Scan enumerates dir in byte-wise alphabetical order (capitals sort
// before lowercase), filters it, and classifies every surviving entry.
// Nothing is cached across scans; the listing is rebuilt per render.
func Scan(dir string, showDotfiles bool) Listing {
	dirents, err := os.ReadDir(dir)
	if err != nil {
		return Listing{Unreadable: true}
	}
	entries := make([]Entry, 0, len(dirents))
	for _, d := range dirents {
		if !visible(d.Name(), showDotfiles) {
			continue
		}
		entries = append(entries, Classify(dir, d.Name(), d.Type()))
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})
	return Listing{Entries: entries}
}
