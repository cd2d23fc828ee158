// Package harvest loads the harvest records export that scans are
// reconciled against.
package harvest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"scanrecon/internal/config"
	"scanrecon/internal/scan"
)

// Options names the columns holding the batch label and identifier.
type Options struct {
	BatchColumn      string
	IdentifierColumn string
	Comma            rune
}

// DefaultOptions matches the lab's harvest export.
var DefaultOptions = Options{BatchColumn: "garden", IdentifierColumn: "letno", Comma: ','}

// OptionsFromConfig builds Options from the [harvest] config section,
// falling back to DefaultOptions for empty values.
func OptionsFromConfig(cfg config.HarvestConfig) Options {
	opts := DefaultOptions
	if cfg.BatchColumn != "" {
		opts.BatchColumn = cfg.BatchColumn
	}
	if cfg.IdentifierColumn != "" {
		opts.IdentifierColumn = cfg.IdentifierColumn
	}
	if r := []rune(cfg.Comma); len(r) == 1 {
		opts.Comma = r[0]
	}
	return opts
}

// Load reads harvest records from r. The first row is the header; columns
// are matched case-insensitively. Rows with an empty identifier are skipped.
func Load(r io.Reader, opts Options) ([]scan.ExpectedRecord, error) {
	cr := csv.NewReader(r)
	cr.Comma = opts.Comma
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("harvest records are empty")
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	batchIdx, err := columnIndex(header, opts.BatchColumn)
	if err != nil {
		return nil, err
	}
	idIdx, err := columnIndex(header, opts.IdentifierColumn)
	if err != nil {
		return nil, err
	}

	var records []scan.ExpectedRecord
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading harvest records: %w", err)
		}
		if idIdx >= len(row) || batchIdx >= len(row) {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("line %d: expected at least %d fields, got %d", line, max(idIdx, batchIdx)+1, len(row))
		}

		id := strings.TrimSpace(row[idIdx])
		if id == "" {
			continue
		}
		records = append(records, scan.ExpectedRecord{
			BatchLabel: strings.TrimSpace(row[batchIdx]),
			Identifier: id,
		})
	}
	return records, nil
}

// LoadFile opens path and loads its harvest records.
func LoadFile(path string, opts Options) ([]scan.ExpectedRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open harvest records: %w", err)
	}
	defer f.Close()

	records, err := Load(f, opts)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return records, nil
}

func columnIndex(header []string, name string) (int, error) {
	for i, h := range header {
		// Spreadsheet exports sometimes prefix the first header with a BOM.
		h = strings.TrimPrefix(strings.TrimSpace(h), "\ufeff")
		if strings.EqualFold(h, name) {
			return i, nil
		}
	}
	return -1, fmt.Errorf("column %q not found in header %v", name, header)
}
