package scan

// ProgressReporter receives incremental progress while files are copied.
type ProgressReporter interface {
	// Start announces a copy batch of total files.
	Start(label string, total int)
	// Advance is called once per attempted file, whether or not it succeeded.
	Advance(file string, bytes int64)
	// Finish closes the current batch.
	Finish()
}

// NopProgress discards progress.
type NopProgress struct{}

func (NopProgress) Start(string, int)     {}
func (NopProgress) Advance(string, int64) {}
func (NopProgress) Finish()               {}

// Confirmer decides whether SyncTree moves on to the next subfolder.
// Confirm may block for as long as it likes; there is no timeout.
type Confirmer interface {
	Confirm(done *SubfolderResult, next string) (bool, error)
}

// ConfirmFunc adapts a function to the Confirmer interface.
type ConfirmFunc func(done *SubfolderResult, next string) (bool, error)

func (f ConfirmFunc) Confirm(done *SubfolderResult, next string) (bool, error) {
	return f(done, next)
}
