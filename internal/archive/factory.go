package archive

import (
	"context"
	"fmt"

	"scanrecon/internal/config"
	"scanrecon/internal/scan"
)

// NewArchiveFromConfig returns the local report directory archive, fanned
// out to S3 when a bucket is configured.
func NewArchiveFromConfig(ctx context.Context, cfg config.ReportConfig) (scan.ReportArchive, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("report archive requires dir to be set")
	}
	local, err := NewFileSystemArchive(cfg.Dir)
	if err != nil {
		return nil, err
	}
	if cfg.S3Bucket == "" {
		return local, nil
	}

	remote, err := NewS3Archive(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewMultiArchive(local, remote), nil
}
