package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"scanrecon/internal/scan"
)

// maxListed caps how many identifiers a table cell shows before eliding.
const maxListed = 5

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(title string, headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := range headers {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	// go-pretty wraps a title to the table width, so it goes on its own line.
	if title == "" {
		return tw.Render()
	}
	return title + "\n" + tw.Render()
}

// elide joins up to maxListed items and counts the rest.
func elide(items []string) string {
	if len(items) <= maxListed {
		return strings.Join(items, " ")
	}
	return fmt.Sprintf("%s (+%d more)", strings.Join(items[:maxListed], " "), len(items)-maxListed)
}

// TableSink prints a reconciliation summary as console tables.
type TableSink struct {
	w io.Writer
}

func NewTableSink(w io.Writer) *TableSink {
	return &TableSink{w: w}
}

func (s *TableSink) WriteReconciliation(rec *scan.Reconciliation) error {
	rows := make([][]string, 0, len(rec.PerBatch))
	for _, b := range rec.PerBatch {
		rows = append(rows, []string{
			displayLabel(b.BatchLabel),
			strconv.Itoa(b.ExpectedCount),
			strconv.Itoa(b.ObservedCount),
			strconv.Itoa(b.MissingCount),
			elide(b.Missing),
			elide(b.Unexpected),
		})
	}
	out := renderTable("Reconciliation",
		[]string{"Batch", "Expected", "Observed", "Missing", "Missing IDs", "Unexpected IDs"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignLeft, alignLeft},
	)
	if _, err := fmt.Fprintln(s.w, out); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}

	lines := []struct {
		label string
		items []string
	}{
		{"Batches not on disk", rec.BatchesMissingEntirely},
		{"Batches not in harvest records", rec.BatchesUnexpectedEntirely},
		{"Malformed file names", rec.Malformed},
	}
	for _, l := range lines {
		if len(l.items) == 0 {
			continue
		}
		labels := make([]string, len(l.items))
		for i, item := range l.items {
			labels[i] = displayLabel(item)
		}
		if _, err := fmt.Fprintf(s.w, "%s (%d): %s\n", l.label, len(labels), strings.Join(labels, ", ")); err != nil {
			return fmt.Errorf("writing summary: %w", err)
		}
	}
	return nil
}

var _ scan.ReportSink = (*TableSink)(nil)

// RenderPlan prints what a sync would copy and what exists only at the
// destination.
func RenderPlan(w io.Writer, plan *scan.SyncPlan) error {
	rows := make([][]string, 0, len(plan.ToCopy)+len(plan.DestinationOnly))
	for _, f := range plan.ToCopy {
		rows = append(rows, []string{"copy", f})
	}
	for _, f := range plan.DestinationOnly {
		rows = append(rows, []string{"destination only", f})
	}
	title := fmt.Sprintf("Sync plan (%s keys): %d to copy, %d destination only",
		plan.KeyMode, len(plan.ToCopy), len(plan.DestinationOnly))
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, title)
		return err
	}
	_, err := fmt.Fprintln(w, renderTable(title, []string{"Action", "File"}, rows, nil))
	return err
}

// RenderSyncResults prints one row per synced collection, followed by every
// copy failure. Failures are never left out.
func RenderSyncResults(w io.Writer, results []scan.SubfolderResult) error {
	rows := make([][]string, 0, len(results))
	var failures [][]string
	var totalBytes int64
	for _, r := range results {
		rows = append(rows, []string{
			r.Name,
			strconv.Itoa(len(r.Plan.ToCopy)),
			strconv.Itoa(r.Result.Copied),
			strconv.Itoa(len(r.Result.Failures)),
			strconv.Itoa(len(r.Plan.DestinationOnly)),
			humanize.Bytes(uint64(r.Result.BytesCopied)),
		})
		totalBytes += r.Result.BytesCopied
		for _, f := range r.Result.Failures {
			failures = append(failures, []string{r.Name, f.File, f.Reason})
		}
	}

	out := renderTable(fmt.Sprintf("Sync results: %s copied", humanize.Bytes(uint64(totalBytes))),
		[]string{"Folder", "Planned", "Copied", "Failed", "Dest only", "Size"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight},
	)
	if _, err := fmt.Fprintln(w, out); err != nil {
		return err
	}

	if len(failures) > 0 {
		out := renderTable("Copy failures", []string{"Folder", "File", "Reason"}, failures, nil)
		if _, err := fmt.Fprintln(w, out); err != nil {
			return err
		}
	}
	return nil
}

// RenderHistory prints recorded runs, newest first.
func RenderHistory(w io.Writer, runs []*scan.Run, now time.Time) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "No runs recorded.")
		return err
	}

	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		duration := "-"
		if r.FinishedAt.Valid {
			duration = r.FinishedAt.Time.Sub(r.StartedAt).Round(time.Millisecond).String()
		}
		rows = append(rows, []string{
			strconv.FormatInt(r.ID, 10),
			r.Operation,
			r.Status,
			humanize.RelTime(r.StartedAt, now, "ago", "from now"),
			duration,
			r.Parameters,
			r.Summary,
		})
	}
	out := renderTable("",
		[]string{"#", "Operation", "Status", "Started", "Duration", "Parameters", "Summary"},
		rows,
		[]columnAlignment{alignRight},
	)
	_, err := fmt.Fprintln(w, out)
	return err
}
