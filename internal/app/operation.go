package app

// Run statuses recorded in the history database.
const (
	StatusSuccess = "success"
	StatusPartial = "partial" // finished, but some files failed to copy
	StatusError   = "error"
)

// RunOperation tracks a CLI operation for the run history.
// Operations are created in memory with ID=0 and persisted when the
// operation actually starts work; read-only commands never persist.
type RunOperation struct {
	ID         int64
	RunID      string
	Operation  string
	Parameters string
	Status     string
	Summary    string
}

// NewRunOperation creates a new in-memory run operation.
func NewRunOperation(runID, operation string) *RunOperation {
	return &RunOperation{
		RunID:     runID,
		Operation: operation,
		Status:    StatusSuccess,
	}
}

// Persisted returns true if this operation has been saved to the database.
func (op *RunOperation) Persisted() bool {
	return op.ID != 0
}
