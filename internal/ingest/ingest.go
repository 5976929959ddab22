// Package ingest discovers documents on disk and feeds them to the
// processing queue.
package ingest

import (
	"context"

	"github.com/google/uuid"
)

// FileResult is the per-document outcome.
type FileResult struct {
	Path       string
	RunID      uuid.UUID
	Proposals  int
	Directors  int
	Notices    []string
	OutputPath string
	Err        string
}

// DirStats summarizes a directory run.
type DirStats struct {
	Scanned   uint32
	Matched   uint32
	Succeeded uint32
	Failed    uint32
}

// Ingestor is the behavior the CLI depends on.
type Ingestor interface {
	// IngestPath processes a single document.
	IngestPath(ctx context.Context, path string) (FileResult, error)
	// IngestDirectory processes all matching documents under root.
	IngestDirectory(ctx context.Context, root string, includeExts []string, skipHidden bool) ([]FileResult, DirStats, error)
}
