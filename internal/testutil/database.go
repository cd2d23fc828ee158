package testutil

import (
	"testing"

	"scanrecon/internal/database"
	"scanrecon/internal/scan"
)

// NewTestRunStore creates a new in-memory SQLite run store with schema applied.
// The database is automatically closed when the test completes.
func NewTestRunStore(t *testing.T) scan.RunStore {
	t.Helper()

	db, err := database.NewSQLiteDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}
