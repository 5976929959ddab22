package constants

// RunStatus is the canonical status for rows in extraction_run.
type RunStatus string

// Stable values (store these exact strings in DB).
const (
	RunStatusRunning   RunStatus = "RUNNING"   // text extraction or parsing in progress
	RunStatusExtracted RunStatus = "EXTRACTED" // both pipelines completed
	RunStatusFailed    RunStatus = "FAILED"    // terminal failure
)
