package app

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"scanrecon/internal/archive"
	"scanrecon/internal/config"
	"scanrecon/internal/database"
	"scanrecon/internal/fs"
	"scanrecon/internal/harvest"
	"scanrecon/internal/report"
	"scanrecon/internal/scan"
)

// ScanApp is the application layer between the CLI and scan.Service.
// It constructs all dependencies from config, exposes high-level operations
// that accept raw string paths, and records each run in the history database.
type ScanApp struct {
	cfg     *config.Config
	db      scan.RunStore
	archive scan.ReportArchive
	service *scan.Service
	logger  scan.Logger
	clock   scan.Clock
	op      *RunOperation
	out     io.Writer
	logFile *os.File
}

// Deps are the collaborators of a ScanApp. NewScanApp builds them from
// config; tests supply their own.
type Deps struct {
	DB       scan.RunStore
	FS       scan.FilesystemManager
	Archive  scan.ReportArchive
	Progress scan.ProgressReporter
	Logger   scan.Logger
	Clock    scan.Clock
	IDs      scan.IDGenerator
	Out      io.Writer
}

// NewScanApp creates a fully wired ScanApp from the given config.
// operation identifies the CLI command being run (e.g. "reconcile", "sync").
// Console output goes to out. The caller must call Close when done.
func NewScanApp(ctx context.Context, cfg *config.Config, operation string, out io.Writer) (*ScanApp, error) {
	db, err := database.NewDatabaseFromConfig(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("creating database: %w", err)
	}

	if err := db.CheckMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database schema out of date: %w", err)
	}

	arch, err := archive.NewArchiveFromConfig(ctx, cfg.Report)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating report archive: %w", err)
	}

	ids := scan.UUIDGenerator{}
	runID := ids.New()
	logger, logFile, err := newLogger(cfg.LogDir, runID)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	adapter := &slogAdapter{l: logger}

	a, err := newScanApp(cfg, operation, runID, Deps{
		DB:       db,
		FS:       fs.NewOSFilesystemManager(),
		Archive:  arch,
		Progress: report.NewProgressReporter(os.Stderr, adapter),
		Logger:   adapter,
		Clock:    scan.RealClock{},
		IDs:      ids,
		Out:      out,
	})
	if err != nil {
		db.Close()
		logFile.Close()
		return nil, err
	}
	a.logFile = logFile
	return a, nil
}

// NewScanAppWithDeps creates a ScanApp from explicit dependencies.
func NewScanAppWithDeps(cfg *config.Config, operation string, deps Deps) (*ScanApp, error) {
	return newScanApp(cfg, operation, deps.IDs.New(), deps)
}

func newScanApp(cfg *config.Config, operation, runID string, deps Deps) (*ScanApp, error) {
	junk, err := junkFromConfig(cfg.Filesystem)
	if err != nil {
		return nil, err
	}

	out := deps.Out
	if out == nil {
		out = io.Discard
	}

	svc := scan.NewService(deps.FS, junk, deps.Progress, deps.Logger, scan.SyncOptions{
		KeyMode: scan.KeyMode(cfg.Sync.KeyMode),
		Folders: scan.FolderPattern{Prefix: cfg.Sync.FolderPrefix, Suffix: cfg.Sync.FolderSuffix},
	})

	return &ScanApp{
		cfg:     cfg,
		db:      deps.DB,
		archive: deps.Archive,
		service: svc,
		logger:  deps.Logger,
		clock:   deps.Clock,
		op:      NewRunOperation(runID, operation),
		out:     out,
	}, nil
}

// junkFromConfig merges the configured junk names and the optional junk file.
func junkFromConfig(cfg config.FilesystemConfig) (scan.JunkSet, error) {
	names := append([]string{}, cfg.Junk...)
	if cfg.JunkFile != "" {
		extra, err := fs.ParseJunkFile(cfg.JunkFile)
		if err != nil {
			return nil, fmt.Errorf("reading junk file: %w", err)
		}
		names = append(names, extra...)
	}
	return scan.NewJunkSet(names...), nil
}

// RunID returns the ID of the current run.
func (a *ScanApp) RunID() string {
	return a.op.RunID
}

// begin records the start of the run with its parameters.
func (a *ScanApp) begin(params ...string) error {
	if a.op.Persisted() {
		return nil
	}
	a.op.Parameters = strings.Join(params, " ")
	run, err := a.db.CreateRun(a.op.RunID, a.op.Operation, a.op.Parameters, a.clock.Now())
	if err != nil {
		return fmt.Errorf("recording run: %w", err)
	}
	a.op.ID = run.ID
	return nil
}

// fail marks the run as failed and passes err through.
func (a *ScanApp) fail(err error) error {
	a.op.Status = StatusError
	a.op.Summary = err.Error()
	return err
}

// ReconcileOutcome is what Reconcile produced.
type ReconcileOutcome struct {
	Reconciliation *scan.Reconciliation
	ReportName     string
	ReportLocation string
}

// Reconcile enumerates the scans under rootPath, compares them with the
// harvest records in harvestPath, stores the CSV report in the archive and
// prints a summary table.
func (a *ScanApp) Reconcile(ctx context.Context, rootPath, harvestPath string) (*ReconcileOutcome, error) {
	if err := a.begin("root="+rootPath, "harvest="+harvestPath); err != nil {
		return nil, err
	}

	records, err := harvest.LoadFile(harvestPath, harvest.OptionsFromConfig(a.cfg.Harvest))
	if err != nil {
		return nil, a.fail(err)
	}
	expected := scan.NewExpectedSet(records)

	roster, err := a.service.Enumerate(rootPath)
	if err != nil {
		return nil, a.fail(err)
	}
	rec := scan.CompareAll(roster, expected)

	var buf bytes.Buffer
	if err := report.NewCSVSink(&buf).WriteReconciliation(rec); err != nil {
		return nil, a.fail(err)
	}
	name := a.reportName()
	if err := a.archive.Put(ctx, name, bytes.NewReader(buf.Bytes()), int64(buf.Len())); err != nil {
		return nil, a.fail(fmt.Errorf("storing report: %w", err))
	}
	location := a.archive.Location(name)
	a.logger.Info("report stored", "location", location)

	if err := report.NewTableSink(a.out).WriteReconciliation(rec); err != nil {
		return nil, a.fail(err)
	}

	missing := 0
	for _, b := range rec.PerBatch {
		missing += b.MissingCount
	}
	a.op.Summary = fmt.Sprintf("batches=%d missing=%d batches_not_on_disk=%d batches_not_in_records=%d malformed=%d",
		len(rec.PerBatch), missing, len(rec.BatchesMissingEntirely), len(rec.BatchesUnexpectedEntirely), len(rec.Malformed))

	return &ReconcileOutcome{Reconciliation: rec, ReportName: name, ReportLocation: location}, nil
}

func (a *ScanApp) reportName() string {
	ts := a.clock.Now().UTC().Format("20060102T150405Z")
	return fmt.Sprintf("reconcile-%s-%s.csv", ts, a.op.RunID)
}

// Plan computes what Sync would copy without copying. The destination root
// is still created when absent.
func (a *ScanApp) Plan(sourceRoot, destRoot string) (*scan.SyncPlan, error) {
	if err := a.begin("from="+sourceRoot, "to="+destRoot, "dry-run"); err != nil {
		return nil, err
	}
	plan, err := a.service.PlanSync(sourceRoot, destRoot)
	if err != nil {
		return nil, a.fail(err)
	}
	a.op.Summary = fmt.Sprintf("to_copy=%d destination_only=%d", len(plan.ToCopy), len(plan.DestinationOnly))
	if err := report.RenderPlan(a.out, plan); err != nil {
		return nil, a.fail(err)
	}
	return plan, nil
}

// Sync copies every file missing under destRoot from sourceRoot.
func (a *ScanApp) Sync(sourceRoot, destRoot string) (*scan.SubfolderResult, error) {
	if err := a.begin("from="+sourceRoot, "to="+destRoot); err != nil {
		return nil, err
	}
	plan, err := a.service.PlanSync(sourceRoot, destRoot)
	if err != nil {
		return nil, a.fail(err)
	}
	res, err := a.service.ExecuteSync(plan, sourceRoot, destRoot)
	if err != nil {
		return nil, a.fail(err)
	}

	result := scan.SubfolderResult{
		Name:        filepath.Base(sourceRoot),
		Source:      sourceRoot,
		Destination: destRoot,
		Plan:        plan,
		Result:      res,
	}
	a.summarizeSync([]scan.SubfolderResult{result})
	if err := report.RenderSyncResults(a.out, []scan.SubfolderResult{result}); err != nil {
		return nil, a.fail(err)
	}
	return &result, nil
}

// SyncTree syncs every scan collection folder under fromRoot into toRoot.
// Results of completed folders are returned even when err is non-nil.
func (a *ScanApp) SyncTree(fromRoot, toRoot string, confirm scan.Confirmer) ([]scan.SubfolderResult, error) {
	if err := a.begin("from="+fromRoot, "to="+toRoot); err != nil {
		return nil, err
	}
	results, err := a.service.SyncTree(fromRoot, toRoot, confirm)
	a.summarizeSync(results)
	if rerr := report.RenderSyncResults(a.out, results); rerr != nil && err == nil {
		err = rerr
	}
	if err != nil {
		a.fail(err)
		a.op.Summary = fmt.Sprintf("folders=%d error=%v", len(results), err)
		return results, err
	}
	return results, nil
}

func (a *ScanApp) summarizeSync(results []scan.SubfolderResult) {
	copied, failed := 0, 0
	var bytesCopied int64
	for _, r := range results {
		copied += r.Result.Copied
		failed += len(r.Result.Failures)
		bytesCopied += r.Result.BytesCopied
	}
	if failed > 0 {
		a.op.Status = StatusPartial
	}
	a.op.Summary = fmt.Sprintf("folders=%d copied=%d failed=%d bytes=%d", len(results), copied, failed, bytesCopied)
}

// GetHistory returns the most recent runs. It does not record a run itself.
func (a *ScanApp) GetHistory(limit int) ([]*scan.Run, error) {
	return a.db.ListRuns(limit)
}

// Now returns the app clock's current time.
func (a *ScanApp) Now() time.Time {
	return a.clock.Now()
}

// Close finalizes the run record and closes all resources.
func (a *ScanApp) Close() error {
	var firstErr error

	if a.op.Persisted() {
		if err := a.db.FinishRun(a.op.ID, a.op.Status, a.op.Summary, a.clock.Now()); err != nil {
			firstErr = fmt.Errorf("finishing run: %w", err)
		}
		a.logger.Info("run finished", "operation", a.op.Operation, "status", a.op.Status, "summary", a.op.Summary)
	}

	if err := a.db.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("closing database: %w", err)
	}

	if a.logFile != nil {
		a.logFile.Close()
	}

	return firstErr
}
