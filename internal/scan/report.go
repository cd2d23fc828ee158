package scan

// ReportSink receives finished reconciliations.
type ReportSink interface {
	WriteReconciliation(rec *Reconciliation) error
}
