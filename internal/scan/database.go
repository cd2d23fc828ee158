package scan

import (
	"database/sql"
	"time"
)

// Run is one recorded invocation of a reconcile or sync operation.
type Run struct {
	ID         int64
	RunID      string
	Operation  string
	Parameters string
	StartedAt  time.Time
	FinishedAt sql.NullTime
	Status     string
	Summary    string
}

// RunStore persists the history of runs.
type RunStore interface {
	// CreateRun records the start of a run and returns it with its ID set.
	CreateRun(runID, operation, parameters string, startedAt time.Time) (*Run, error)

	// FinishRun records the outcome of a run.
	FinishRun(id int64, status, summary string, finishedAt time.Time) error

	// ListRuns returns the most recent runs, newest first.
	ListRuns(limit int) ([]*Run, error)

	// CheckMigrations verifies the schema is current.
	CheckMigrations() error

	// Close closes the database connection.
	Close() error
}
