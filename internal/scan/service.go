package scan

import (
	"errors"
	"io/fs"
	"path/filepath"
	"regexp"
	"strings"
)

// KeyMode selects how PlanSync decides a source file is already present at
// the destination.
type KeyMode string

const (
	// KeyByPath matches files on their path relative to each root.
	KeyByPath KeyMode = "path"
	// KeyByName matches files on their bare file name anywhere in the tree,
	// which is how the lab's older copy scripts behaved.
	KeyByName KeyMode = "name"
)

// FolderPattern describes the names of the scan collections SyncTree walks:
// a literal prefix, a run of digits, a literal suffix.
type FolderPattern struct {
	Prefix string
	Suffix string
}

// DefaultFolderPattern matches names such as "scans_2021_jpg".
var DefaultFolderPattern = FolderPattern{Prefix: "scans_", Suffix: "_jpg"}

// Regexp compiles the pattern.
func (p FolderPattern) Regexp() *regexp.Regexp {
	return regexp.MustCompile("^" + regexp.QuoteMeta(p.Prefix) + `(\d+)` + regexp.QuoteMeta(p.Suffix) + "$")
}

// SyncOptions configures the TreeSynchronizer side of the service.
type SyncOptions struct {
	KeyMode KeyMode
	Folders FolderPattern
}

// Service reconciles scan rosters against harvest records and keeps scan
// trees synchronized between storage locations.
type Service struct {
	fsmgr    FilesystemManager
	junk     JunkSet
	progress ProgressReporter
	logger   Logger
	opts     SyncOptions
}

// NewService creates a new Service with the provided dependencies.
// A nil progress reporter or logger discards output; zero options fall back
// to KeyByPath and DefaultFolderPattern.
func NewService(fsmgr FilesystemManager, junk JunkSet, progress ProgressReporter, logger Logger, opts SyncOptions) *Service {
	if progress == nil {
		progress = NopProgress{}
	}
	if junk == nil {
		junk = NewJunkSet()
	}
	if logger == nil {
		logger = NewNopLogger()
	}
	if opts.KeyMode == "" {
		opts.KeyMode = KeyByPath
	}
	if opts.Folders == (FolderPattern{}) {
		opts.Folders = DefaultFolderPattern
	}
	return &Service{
		fsmgr:    fsmgr,
		junk:     junk,
		progress: progress,
		logger:   logger,
		opts:     opts,
	}
}

// resolveRoot resolves an existing directory or fails with NotFoundError.
func (s *Service) resolveRoot(rawPath string) (*Path, error) {
	root, err := s.fsmgr.Resolve(rawPath)
	if err != nil {
		return nil, &NotFoundError{Path: rawPath, Err: err}
	}
	if !root.IsDir() {
		return nil, &NotFoundError{Path: root.String(), Err: ErrNotDirectory}
	}
	return root, nil
}

// ensureRoot resolves a destination directory, creating it when it does not
// exist yet. Only the leaf is created.
func (s *Service) ensureRoot(rawPath string) (*Path, error) {
	root, err := s.fsmgr.Resolve(rawPath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, &StructuralError{Path: rawPath, Err: err}
		}
		if err := s.fsmgr.Mkdir(rawPath); err != nil {
			return nil, &StructuralError{Path: rawPath, Err: err}
		}
		s.logger.Info("destination created", "path", rawPath)
		if root, err = s.fsmgr.Resolve(rawPath); err != nil {
			return nil, &StructuralError{Path: rawPath, Err: err}
		}
	}
	if !root.IsDir() {
		return nil, &StructuralError{Path: root.String(), Err: ErrNotDirectory}
	}
	return root, nil
}

// checkDisjoint fails with a StructuralError when destRoot is src itself or
// lies inside it. The source walk would otherwise pick up earlier copies.
func checkDisjoint(src *Path, destRoot string) error {
	dst, err := filepath.Abs(destRoot)
	if err != nil {
		return &StructuralError{Path: destRoot, Err: err}
	}
	rel, err := filepath.Rel(src.String(), dst)
	if err != nil {
		return nil
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return nil
	}
	return &StructuralError{Path: dst, Err: ErrDestinationInSource}
}
