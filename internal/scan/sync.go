package scan

import (
	"fmt"
	"path"
	"path/filepath"
	"sort"
)

// SyncPlan lists what a sync would do. ToCopy holds source-relative paths;
// DestinationOnly holds destination-relative paths. Both are sorted.
type SyncPlan struct {
	KeyMode         KeyMode
	ToCopy          []string
	DestinationOnly []string
}

// SyncResult summarizes an executed plan.
type SyncResult struct {
	Copied      int
	BytesCopied int64
	Failures    []CopyFailure
}

// SubfolderResult is the outcome of syncing one scan collection in SyncTree.
type SubfolderResult struct {
	Name        string
	Source      string
	Destination string
	Plan        *SyncPlan
	Result      *SyncResult
}

// PlanSync compares the trees under sourceRoot and destRoot.
// destRoot is created when absent, so this is not a pure read. A destRoot
// at or below sourceRoot is rejected with a StructuralError.
func (s *Service) PlanSync(sourceRoot, destRoot string) (*SyncPlan, error) {
	src, err := s.resolveRoot(sourceRoot)
	if err != nil {
		return nil, err
	}
	if err := checkDisjoint(src, destRoot); err != nil {
		return nil, err
	}
	dst, err := s.ensureRoot(destRoot)
	if err != nil {
		return nil, err
	}

	srcFiles, err := s.listTree(src)
	if err != nil {
		return nil, err
	}
	dstFiles, err := s.listTree(dst)
	if err != nil {
		return nil, err
	}

	plan := &SyncPlan{KeyMode: s.opts.KeyMode}
	srcKeys := s.keySet(srcFiles)
	dstKeys := s.keySet(dstFiles)
	for _, f := range srcFiles {
		if _, ok := dstKeys[s.key(f)]; !ok {
			plan.ToCopy = append(plan.ToCopy, f)
		}
	}
	for _, f := range dstFiles {
		if _, ok := srcKeys[s.key(f)]; !ok {
			plan.DestinationOnly = append(plan.DestinationOnly, f)
		}
	}

	s.logger.Info("sync planned",
		"source", src.String(),
		"destination", dst.String(),
		"mode", string(plan.KeyMode),
		"to_copy", len(plan.ToCopy),
		"destination_only", len(plan.DestinationOnly),
	)
	return plan, nil
}

// listTree returns the sorted, non-junk relative paths under root.
func (s *Service) listTree(root *Path) ([]string, error) {
	entries, err := s.fsmgr.FindFiles(root)
	if err != nil {
		return nil, &NotFoundError{Path: root.String(), Err: err}
	}
	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if s.junk.Contains(path.Base(e.RelativePath)) {
			continue
		}
		files = append(files, e.RelativePath)
	}
	sort.Strings(files)
	return files, nil
}

func (s *Service) key(relativePath string) string {
	if s.opts.KeyMode == KeyByName {
		return path.Base(relativePath)
	}
	return relativePath
}

func (s *Service) keySet(files []string) map[string]struct{} {
	keys := make(map[string]struct{}, len(files))
	for _, f := range files {
		keys[s.key(f)] = struct{}{}
	}
	return keys
}

// ExecuteSync copies every ToCopy entry from sourceRoot to the same relative
// location under destRoot. Individual failures are collected and do not stop
// the run; only an unusable source or destination root returns an error.
func (s *Service) ExecuteSync(plan *SyncPlan, sourceRoot, destRoot string) (*SyncResult, error) {
	src, err := s.resolveRoot(sourceRoot)
	if err != nil {
		return nil, err
	}
	if err := checkDisjoint(src, destRoot); err != nil {
		return nil, err
	}
	dst, err := s.ensureRoot(destRoot)
	if err != nil {
		return nil, err
	}

	result := &SyncResult{}
	s.progress.Start(filepath.Base(dst.String()), len(plan.ToCopy))
	defer s.progress.Finish()

	for _, rel := range plan.ToCopy {
		from := filepath.Join(src.String(), filepath.FromSlash(rel))
		to := filepath.Join(dst.String(), filepath.FromSlash(rel))

		n, err := s.fsmgr.CopyFile(from, to)
		s.progress.Advance(rel, n)
		if err != nil {
			s.logger.Warn("copy failed", "file", rel, "error", err)
			result.Failures = append(result.Failures, CopyFailure{
				File:   rel,
				Reason: err.Error(),
				Err:    err,
			})
			continue
		}
		result.Copied++
		result.BytesCopied += n
		s.logger.Debug("file copied", "file", rel, "bytes", n)
	}

	s.logger.Info("sync executed",
		"destination", dst.String(),
		"copied", result.Copied,
		"failed", len(result.Failures),
	)
	return result, nil
}

// SyncTree syncs every scan collection directly under fromRoot into the
// folder of the same name under toRoot. When confirm is non-nil it is asked
// before each subfolder after the first; declining stops the run and the
// completed results are returned.
func (s *Service) SyncTree(fromRoot, toRoot string, confirm Confirmer) ([]SubfolderResult, error) {
	from, err := s.resolveRoot(fromRoot)
	if err != nil {
		return nil, err
	}

	names, err := s.fsmgr.ListDirs(from)
	if err != nil {
		return nil, &NotFoundError{Path: from.String(), Err: err}
	}

	re := s.opts.Folders.Regexp()
	var matched []string
	for _, name := range names {
		if re.MatchString(name) {
			matched = append(matched, name)
		}
	}
	s.logger.Info("scan collections found", "root", from.String(), "count", len(matched))

	if len(matched) > 0 {
		if _, err := s.ensureRoot(toRoot); err != nil {
			return nil, err
		}
	}

	var results []SubfolderResult
	for i, name := range matched {
		srcDir := filepath.Join(from.String(), name)
		dstDir := filepath.Join(toRoot, name)

		plan, err := s.PlanSync(srcDir, dstDir)
		if err != nil {
			return results, fmt.Errorf("planning %s: %w", name, err)
		}
		res, err := s.ExecuteSync(plan, srcDir, dstDir)
		if err != nil {
			return results, fmt.Errorf("syncing %s: %w", name, err)
		}
		results = append(results, SubfolderResult{
			Name:        name,
			Source:      srcDir,
			Destination: dstDir,
			Plan:        plan,
			Result:      res,
		})

		if confirm == nil || i == len(matched)-1 {
			continue
		}
		proceed, err := confirm.Confirm(&results[len(results)-1], matched[i+1])
		if err != nil {
			return results, fmt.Errorf("confirmation: %w", err)
		}
		if !proceed {
			s.logger.Info("sync stopped by user", "completed", len(results), "skipped", len(matched)-len(results))
			break
		}
	}

	return results, nil
}
