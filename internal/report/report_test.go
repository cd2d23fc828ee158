package report

import (
	"bytes"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"scanrecon/internal/scan"
	"scanrecon/internal/testutil"
)

func sampleReconciliation() *scan.Reconciliation {
	return &scan.Reconciliation{
		PerBatch: []scan.BatchComparison{
			{
				BatchLabel:    "321",
				ExpectedCount: 3,
				ObservedCount: 2,
				MissingCount:  1,
				Missing:       []string{"C-7"},
				Unexpected:    []string{"ZZ-9", "Q-1"},
			},
			{BatchLabel: "400", ExpectedCount: 1, ObservedCount: 1},
		},
		BatchesMissingEntirely:    []string{"500"},
		BatchesUnexpectedEntirely: []string{""},
		Malformed:                 []string{"321/bad.jpg"},
	}
}

func TestCSVSink_WriteReconciliation(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := NewCSVSink(&buf).WriteReconciliation(sampleReconciliation()); err != nil {
		t.Fatalf("WriteReconciliation() error = %v", err)
	}

	want := strings.Join([]string{
		"batchName,expectedCount,observedCount,missingCount,missing,unexpected",
		"321,3,2,1,C-7,ZZ-9 Q-1",
		"400,1,1,0,,",
		"",
		"Batches in harvest records but not on disk:",
		"500",
		"",
		"Batches on disk but not in harvest records:",
		"(root)",
		"",
		"Files skipped because their names could not be parsed:",
		"321/bad.jpg",
		"",
	}, "\n")
	if got := buf.String(); got != want {
		t.Errorf("report =\n%s\nwant\n%s", got, want)
	}
}

func TestCSVSink_EmptySectionsSayNone(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := NewCSVSink(&buf).WriteReconciliation(&scan.Reconciliation{}); err != nil {
		t.Fatalf("WriteReconciliation() error = %v", err)
	}
	if got := strings.Count(buf.String(), "(none)"); got != 3 {
		t.Errorf("found %d (none) markers, want 3:\n%s", got, buf.String())
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestCSVSink_WriteError(t *testing.T) {
	t.Parallel()
	if err := NewCSVSink(failingWriter{}).WriteReconciliation(sampleReconciliation()); err == nil {
		t.Fatal("WriteReconciliation() expected error")
	}
}

func TestTableSink_WriteReconciliation(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := NewTableSink(&buf).WriteReconciliation(sampleReconciliation()); err != nil {
		t.Fatalf("WriteReconciliation() error = %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "Reconciliation\n") {
		t.Errorf("summary should start with its title line:\n%s", out)
	}
	for _, want := range []string{"321", "ZZ-9 Q-1", "Batches not on disk (1): 500", "Batches not in harvest records (1): (root)", "Malformed file names (1): 321/bad.jpg"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestElide(t *testing.T) {
	t.Parallel()

	if got := elide([]string{"a", "b"}); got != "a b" {
		t.Errorf("elide() = %q", got)
	}
	got := elide([]string{"1", "2", "3", "4", "5", "6", "7"})
	if got != "1 2 3 4 5 (+2 more)" {
		t.Errorf("elide() = %q", got)
	}
}

func TestRenderSyncResults(t *testing.T) {
	t.Parallel()

	results := []scan.SubfolderResult{
		{
			Name:   "scans_2021_jpg",
			Plan:   &scan.SyncPlan{ToCopy: []string{"a.jpg", "b.jpg"}},
			Result: &scan.SyncResult{Copied: 1, BytesCopied: 2048, Failures: []scan.CopyFailure{{File: "b.jpg", Reason: "permission denied"}}},
		},
	}

	var buf bytes.Buffer
	if err := RenderSyncResults(&buf, results); err != nil {
		t.Fatalf("RenderSyncResults() error = %v", err)
	}
	out := buf.String()
	if title, _, _ := strings.Cut(out, "\n"); title != "Sync results: 2.0 kB copied" {
		t.Errorf("first line = %q", title)
	}
	for _, want := range []string{"scans_2021_jpg", "2.0 kB", "Copy failures", "b.jpg", "permission denied"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderPlan(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	plan := &scan.SyncPlan{KeyMode: scan.KeyByPath, ToCopy: []string{"a/1.jpg"}, DestinationOnly: []string{"old.jpg"}}
	if err := RenderPlan(&buf, plan); err != nil {
		t.Fatalf("RenderPlan() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{"1 to copy, 1 destination only", "a/1.jpg", "old.jpg"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	title, _, _ := strings.Cut(out, "\n")
	if title != "Sync plan (path keys): 1 to copy, 1 destination only" {
		t.Errorf("first line = %q, want the unwrapped plan title", title)
	}
}

func TestRenderHistory(t *testing.T) {
	t.Parallel()

	now := testutil.FixedClock().Now()
	runs := []*scan.Run{
		{
			ID:         2,
			Operation:  "sync",
			Status:     "running",
			StartedAt:  now.Add(-time.Minute),
			Parameters: "from=/a to=/b",
		},
		{
			ID:         1,
			Operation:  "reconcile",
			Status:     "success",
			StartedAt:  now.Add(-2 * time.Hour),
			FinishedAt: sql.NullTime{Time: now.Add(-2*time.Hour + 1500*time.Millisecond), Valid: true},
			Summary:    "batches=2 missing=1",
		},
	}

	var buf bytes.Buffer
	if err := RenderHistory(&buf, runs, now); err != nil {
		t.Fatalf("RenderHistory() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{"reconcile", "1.5s", "2 hours ago", "batches=2 missing=1", "from=/a to=/b"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	if err := RenderHistory(&buf, nil, now); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "No runs recorded.") {
		t.Errorf("empty history output = %q", buf.String())
	}
}

func TestLogProgress(t *testing.T) {
	t.Parallel()

	p := NewLogProgress(scan.NewNopLogger())
	p.Start("scans_2021_jpg", 2)
	p.Advance("a.jpg", 10)
	p.Advance("b.jpg", 0)
	p.Finish()

	if p.done != 2 || p.bytes != 10 {
		t.Errorf("done = %d, bytes = %d", p.done, p.bytes)
	}
}

func TestBarProgress(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	p := NewBarProgress(&buf)
	p.Start("scans_2021_jpg", 2)
	p.Advance("a.jpg", 10)
	p.Advance("b.jpg", 10)
	p.Finish()

	if !strings.Contains(buf.String(), "scans_2021_jpg") {
		t.Errorf("bar output missing label: %q", buf.String())
	}
	p.Advance("late.jpg", 1) // after Finish is a no-op
}
