// Package archive stores reconciliation reports on local disk or in S3.
package archive

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"scanrecon/internal/scan"
)

// FileSystemArchive keeps reports as files in a single directory.
type FileSystemArchive struct {
	dir string
}

// NewFileSystemArchive creates the report directory if needed.
func NewFileSystemArchive(dir string) (*FileSystemArchive, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create report directory: %w", err)
	}
	return &FileSystemArchive{dir: dir}, nil
}

// Put writes the report atomically (temp file + rename).
func (a *FileSystemArchive) Put(_ context.Context, name string, r io.Reader, size int64) error {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid report name %q", name)
	}
	destPath := filepath.Join(a.dir, name)

	tmpFile, err := os.CreateTemp(a.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	written, err := io.Copy(tmpFile, r)
	if err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write report: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if written != size {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", size, written)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return fmt.Errorf("failed to set report permissions: %w", err)
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}

// Location returns the report's file path.
func (a *FileSystemArchive) Location(name string) string {
	return filepath.Join(a.dir, name)
}

var _ scan.ReportArchive = (*FileSystemArchive)(nil)
