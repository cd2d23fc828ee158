package scan

import (
	"errors"
	"fmt"
	"path"
)

// BatchComparison compares one batch of scans against its harvest records.
// Counts are record counts; Missing and Unexpected collapse duplicates.
type BatchComparison struct {
	BatchLabel    string
	ExpectedCount int
	ObservedCount int
	MissingCount  int
	Missing       []string
	Unexpected    []string
}

// Reconciliation is the result of comparing a whole roster.
type Reconciliation struct {
	PerBatch                  []BatchComparison
	BatchesMissingEntirely    []string
	BatchesUnexpectedEntirely []string
	// Malformed holds the relative paths of files whose names could not be parsed.
	Malformed []string
}

// Enumerate lists every scan file under rootPath.
// The directory part of each file's relative path becomes its batch label.
// Junk files are dropped; files with unparseable names are logged and listed
// in Roster.Malformed instead of Records.
func (s *Service) Enumerate(rootPath string) (*Roster, error) {
	root, err := s.resolveRoot(rootPath)
	if err != nil {
		return nil, err
	}

	entries, err := s.fsmgr.FindFiles(root)
	if err != nil {
		return nil, &NotFoundError{Path: root.String(), Err: err}
	}

	roster := &Roster{Root: root.String()}
	for _, e := range entries {
		name := path.Base(e.RelativePath)
		if s.junk.Contains(name) {
			continue
		}

		id, err := ParseIdentifier(name)
		if err != nil {
			var malformed *MalformedNameError
			if !errors.As(err, &malformed) {
				return nil, fmt.Errorf("parsing %s: %w", e.RelativePath, err)
			}
			s.logger.Warn("skipping malformed file name", "path", e.RelativePath, "reason", malformed.Reason)
			roster.Malformed = append(roster.Malformed, MalformedFile{RelativePath: e.RelativePath, Err: malformed})
			continue
		}

		roster.Records = append(roster.Records, FileRecord{
			BatchLabel:   batchLabelOf(e.RelativePath),
			FileName:     name,
			Identifier:   id,
			RelativePath: e.RelativePath,
		})
	}

	s.logger.Info("roster enumerated", "root", root.String(), "files", len(roster.Records), "malformed", len(roster.Malformed))
	return roster, nil
}

// batchLabelOf returns the directory part of a slash-separated relative path,
// or "" for files at the root.
func batchLabelOf(relativePath string) string {
	dir := path.Dir(relativePath)
	if dir == "." {
		return ""
	}
	return dir
}

// CompareBatch compares the roster and the expected records of one batch.
func CompareBatch(roster *Roster, expected *ExpectedSet, batchLabel string) BatchComparison {
	var observed orderedSet
	observedCount := 0
	for _, rec := range roster.Records {
		if rec.BatchLabel != batchLabel {
			continue
		}
		observedCount++
		observed.add(rec.Identifier)
	}

	var want orderedSet
	expectedIDs := expected.Identifiers(batchLabel)
	for _, id := range expectedIDs {
		want.add(id)
	}

	cmp := BatchComparison{
		BatchLabel:    batchLabel,
		ExpectedCount: len(expectedIDs),
		ObservedCount: observedCount,
		Missing:       difference(want.items, &observed),
		Unexpected:    difference(observed.items, &want),
	}
	cmp.MissingCount = len(cmp.Missing)
	return cmp
}

// CompareAll runs CompareBatch for every batch present in the roster and
// reports batches that exist on only one side.
func CompareAll(roster *Roster, expected *ExpectedSet) *Reconciliation {
	rec := &Reconciliation{}

	var onDisk orderedSet
	for _, label := range roster.Batches() {
		onDisk.add(label)
		rec.PerBatch = append(rec.PerBatch, CompareBatch(roster, expected, label))
		if !expected.Has(label) {
			rec.BatchesUnexpectedEntirely = append(rec.BatchesUnexpectedEntirely, label)
		}
	}

	for _, label := range expected.Batches() {
		if !onDisk.has(label) {
			rec.BatchesMissingEntirely = append(rec.BatchesMissingEntirely, label)
		}
	}

	for _, m := range roster.Malformed {
		rec.Malformed = append(rec.Malformed, m.RelativePath)
	}

	return rec
}

// difference returns the items of a not in b, in a's order.
func difference(a []string, b *orderedSet) []string {
	var out []string
	for _, v := range a {
		if !b.has(v) {
			out = append(out, v)
		}
	}
	return out
}
