package async

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrQueueClosed = errors.New("queue is shutting down")

// Job is one document waiting to be processed.
type Job struct {
	Path        string
	SubmittedAt time.Time
	TraceID     string
	// Done, when set, receives exactly one JobResult for this job.
	Done chan<- JobResult
}

// JobResult is the outcome of processing one Job.
type JobResult struct {
	Job        Job
	RunID      uuid.UUID
	Proposals  int
	Directors  int
	Notices    []string
	OutputPath string
	Duration   time.Duration
	Err        error
}

type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	Shutdown(ctx context.Context)
}
