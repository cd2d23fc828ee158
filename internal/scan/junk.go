package scan

import "strings"

// PartialCopyPrefix starts the name of the temp file a copy is written to
// before it is renamed into place. Files left behind by an interrupted copy
// are junk.
const PartialCopyPrefix = ".scanrecon-partial-"

// DefaultJunk lists OS-generated files that never count as scans.
var DefaultJunk = []string{"Thumbs.db", ".DS_Store"}

// JunkSet is a set of literal file names excluded from every comparison and
// transfer. Matching is exact and applies to the base name only.
type JunkSet map[string]struct{}

// NewJunkSet builds a JunkSet from DefaultJunk plus extra names.
// Blank entries and entries starting with '#' are skipped.
func NewJunkSet(extra ...string) JunkSet {
	s := make(JunkSet, len(DefaultJunk)+len(extra))
	for _, name := range DefaultJunk {
		s[name] = struct{}{}
	}
	for _, name := range extra {
		name = strings.TrimSpace(name)
		if name == "" || strings.HasPrefix(name, "#") {
			continue
		}
		s[name] = struct{}{}
	}
	return s
}

// Contains reports whether name is a junk file name or a leftover partial copy.
func (s JunkSet) Contains(name string) bool {
	if strings.HasPrefix(name, PartialCopyPrefix) {
		return true
	}
	_, ok := s[name]
	return ok
}
