package scan

import (
	"context"
	"io"
)

// ReportArchive stores finished report files under a name.
type ReportArchive interface {
	// Put stores size bytes read from r under name, replacing any
	// earlier report with the same name.
	Put(ctx context.Context, name string, r io.Reader, size int64) error

	// Location describes where name is (or would be) stored, for logs.
	Location(name string) string
}
