package archive

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"scanrecon/internal/scan"
)

// MultiArchive stores every report in each of its archives in turn.
// The first failure stops the fan-out.
type MultiArchive struct {
	archives []scan.ReportArchive
}

func NewMultiArchive(archives ...scan.ReportArchive) *MultiArchive {
	return &MultiArchive{archives: archives}
}

func (m *MultiArchive) Put(ctx context.Context, name string, r io.Reader, size int64) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read report: %w", err)
	}
	for _, a := range m.archives {
		if err := a.Put(ctx, name, bytes.NewReader(data), size); err != nil {
			return err
		}
	}
	return nil
}

func (m *MultiArchive) Location(name string) string {
	locs := make([]string, len(m.archives))
	for i, a := range m.archives {
		locs[i] = a.Location(name)
	}
	return strings.Join(locs, ", ")
}

var _ scan.ReportArchive = (*MultiArchive)(nil)
