package database

import (
	"path/filepath"
	"testing"
	"time"
)

// newTestDB creates a new in-memory database with schema applied.
func newTestDB(t *testing.T) *SQLiteDatabase {
	t.Helper()

	db, err := NewSQLiteDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create database: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
	})
	return db
}

func TestSQLiteDatabase_CreateRun(t *testing.T) {
	db := newTestDB(t)
	started := time.Date(2024, 9, 2, 8, 0, 0, 0, time.UTC)

	run, err := db.CreateRun("run-1", "reconcile", "root=/scans", started)
	if err != nil {
		t.Fatalf("CreateRun() error = %v", err)
	}
	if run.ID == 0 {
		t.Error("expected non-zero ID")
	}
	if run.Status != "running" {
		t.Errorf("Status = %q, want %q", run.Status, "running")
	}

	if _, err := db.CreateRun("run-1", "sync", "", started); err == nil {
		t.Error("expected error for duplicate run ID")
	}
}

func TestSQLiteDatabase_FinishRun(t *testing.T) {
	t.Run("records outcome", func(t *testing.T) {
		db := newTestDB(t)
		started := time.Date(2024, 9, 2, 8, 0, 0, 0, time.UTC)

		run, err := db.CreateRun("run-1", "sync", "from=/a to=/b", started)
		if err != nil {
			t.Fatalf("CreateRun() error = %v", err)
		}
		if err := db.FinishRun(run.ID, "success", "copied=3 failed=0", started.Add(time.Minute)); err != nil {
			t.Fatalf("FinishRun() error = %v", err)
		}

		runs, err := db.ListRuns(10)
		if err != nil {
			t.Fatalf("ListRuns() error = %v", err)
		}
		if len(runs) != 1 {
			t.Fatalf("got %d runs, want 1", len(runs))
		}
		got := runs[0]
		if got.Status != "success" {
			t.Errorf("Status = %q, want %q", got.Status, "success")
		}
		if got.Summary != "copied=3 failed=0" {
			t.Errorf("Summary = %q, want %q", got.Summary, "copied=3 failed=0")
		}
		if !got.FinishedAt.Valid {
			t.Fatal("expected FinishedAt to be set")
		}
		if d := got.FinishedAt.Time.Sub(got.StartedAt); d != time.Minute {
			t.Errorf("duration = %v, want %v", d, time.Minute)
		}
	})

	t.Run("unknown run is an error", func(t *testing.T) {
		db := newTestDB(t)
		if err := db.FinishRun(42, "success", "", time.Now()); err == nil {
			t.Fatal("FinishRun() expected error for unknown run")
		}
	})
}

func TestSQLiteDatabase_ListRuns(t *testing.T) {
	db := newTestDB(t)
	started := time.Date(2024, 9, 2, 8, 0, 0, 0, time.UTC)

	for i, op := range []string{"reconcile", "sync", "synctree"} {
		if _, err := db.CreateRun(op+"-run", op, "", started.Add(time.Duration(i)*time.Hour)); err != nil {
			t.Fatalf("CreateRun() error = %v", err)
		}
	}

	runs, err := db.ListRuns(2)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
	if runs[0].Operation != "synctree" || runs[1].Operation != "sync" {
		t.Errorf("order = [%s %s], want newest first", runs[0].Operation, runs[1].Operation)
	}
	if runs[1].FinishedAt.Valid {
		t.Error("unfinished run should have no FinishedAt")
	}
}

func TestSQLiteDatabase_CheckMigrations(t *testing.T) {
	db := newTestDB(t)
	if err := db.CheckMigrations(); err != nil {
		t.Errorf("CheckMigrations() error = %v", err)
	}
}

func TestSQLiteDatabase_FileBacked(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")

	db, err := NewSQLiteDatabase(path)
	if err != nil {
		t.Fatalf("NewSQLiteDatabase() error = %v", err)
	}
	if _, err := db.CreateRun("run-1", "reconcile", "", time.Now()); err != nil {
		t.Fatalf("CreateRun() error = %v", err)
	}
	db.Close()

	reopened, err := NewSQLiteDatabase(path)
	if err != nil {
		t.Fatalf("reopening: %v", err)
	}
	defer reopened.Close()

	runs, err := reopened.ListRuns(10)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(runs) != 1 || runs[0].RunID != "run-1" {
		t.Errorf("runs after reopen = %+v, want one run-1", runs)
	}
	if reopened.Path() != path {
		t.Errorf("Path() = %q, want %q", reopened.Path(), path)
	}
}
