package scan

import (
	"errors"
	"fmt"
)

// ErrNotDirectory is wrapped by NotFoundError when a root path exists but is
// not a directory.
var ErrNotDirectory = errors.New("not a directory")

// ErrDestinationInSource is wrapped by StructuralError when a sync
// destination is the source root or a directory below it.
var ErrDestinationInSource = errors.New("destination is inside the source tree")

// NotFoundError reports a root path that is missing or cannot be read.
// It aborts the whole operation.
type NotFoundError struct {
	Path string
	Err  error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("root not found: %s: %v", e.Path, e.Err)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

// MalformedNameError reports a file name that does not fit the identifier
// shape expected by ParseIdentifier.
type MalformedNameError struct {
	FileName string
	Reason   string
}

func (e *MalformedNameError) Error() string {
	return fmt.Sprintf("malformed file name %q: %s", e.FileName, e.Reason)
}

// StructuralError reports a destination root that could not be created or
// overlaps the source.
// It aborts the whole operation.
type StructuralError struct {
	Path string
	Err  error
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("cannot prepare destination %s: %v", e.Path, e.Err)
}

func (e *StructuralError) Unwrap() error { return e.Err }

// CopyFailure records a single file that could not be copied.
// Copy failures never abort a sync.
type CopyFailure struct {
	File   string // source-relative path
	Reason string
	Err    error
}
