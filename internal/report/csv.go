// Package report renders reconciliations and sync outcomes for people:
// the CSV report file and the console tables and progress display.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"scanrecon/internal/scan"
)

// Header is the column row of the CSV report.
var Header = []string{"batchName", "expectedCount", "observedCount", "missingCount", "missing", "unexpected"}

// Section titles written after the per-batch rows.
const (
	missingBatchesTitle    = "Batches in harvest records but not on disk"
	unexpectedBatchesTitle = "Batches on disk but not in harvest records"
	malformedFilesTitle    = "Files skipped because their names could not be parsed"
	identifierListSep      = " "
)

// CSVSink writes a reconciliation as a CSV report: one row per batch, then
// one free-text section per batch-level difference. Sections with nothing
// to list are still written so readers can tell "none" from "not checked".
type CSVSink struct {
	w io.Writer
}

func NewCSVSink(w io.Writer) *CSVSink {
	return &CSVSink{w: w}
}

func (s *CSVSink) WriteReconciliation(rec *scan.Reconciliation) error {
	cw := csv.NewWriter(s.w)

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("writing report header: %w", err)
	}
	for _, b := range rec.PerBatch {
		row := []string{
			displayLabel(b.BatchLabel),
			strconv.Itoa(b.ExpectedCount),
			strconv.Itoa(b.ObservedCount),
			strconv.Itoa(b.MissingCount),
			strings.Join(b.Missing, identifierListSep),
			strings.Join(b.Unexpected, identifierListSep),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing batch %q: %w", b.BatchLabel, err)
		}
	}

	sections := []struct {
		title string
		items []string
	}{
		{missingBatchesTitle, rec.BatchesMissingEntirely},
		{unexpectedBatchesTitle, rec.BatchesUnexpectedEntirely},
		{malformedFilesTitle, rec.Malformed},
	}
	for _, sec := range sections {
		if err := writeSection(cw, sec.title, sec.items); err != nil {
			return err
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing report: %w", err)
	}
	return nil
}

func writeSection(cw *csv.Writer, title string, items []string) error {
	rows := [][]string{{}, {title + ":"}}
	if len(items) == 0 {
		rows = append(rows, []string{"(none)"})
	}
	for _, item := range items {
		rows = append(rows, []string{displayLabel(item)})
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("writing section %q: %w", title, err)
	}
	return nil
}

// displayLabel names the root batch, whose label is empty.
func displayLabel(label string) string {
	if label == "" {
		return "(root)"
	}
	return label
}

var _ scan.ReportSink = (*CSVSink)(nil)
