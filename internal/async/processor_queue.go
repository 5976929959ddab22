package async

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/agm-extractor/internal/export"
	"github.com/joseph-ayodele/agm-extractor/internal/pipeline"
)

// ProcessorQueue runs documents from disk through a pipeline.Processor on a
// fixed pool of workers and writes one workbook per document.
type ProcessorQueue struct {
	proc     *pipeline.Processor
	exporter *export.Service
	logger   *slog.Logger
	workers  int
	timeout  time.Duration
	outDir   string
	onResult func(JobResult)

	ch   chan Job
	wg   sync.WaitGroup
	once sync.Once

	mu     sync.RWMutex
	closed bool
}

type Option func(*ProcessorQueue)

func WithWorkers(n int) Option {
	return func(q *ProcessorQueue) {
		if n > 0 {
			q.workers = n
		}
	}
}

func WithQueueSize(n int) Option {
	return func(q *ProcessorQueue) {
		if n > 0 {
			q.ch = make(chan Job, n)
		}
	}
}

func WithProcessTimeout(d time.Duration) Option {
	return func(q *ProcessorQueue) {
		if d > 0 {
			q.timeout = d
		}
	}
}

// WithOutputDir sets where workbooks are written. Empty means next to the
// source document.
func WithOutputDir(dir string) Option {
	return func(q *ProcessorQueue) {
		q.outDir = dir
	}
}

// WithResultHandler registers a callback invoked from the worker goroutine
// after every job.
func WithResultHandler(fn func(JobResult)) Option {
	return func(q *ProcessorQueue) {
		q.onResult = fn
	}
}

func NewProcessorQueue(proc *pipeline.Processor, exporter *export.Service, logger *slog.Logger, opts ...Option) *ProcessorQueue {
	if logger == nil {
		logger = slog.Default()
	}
	if exporter == nil {
		exporter = export.NewService(logger)
	}
	q := &ProcessorQueue{
		proc:     proc,
		exporter: exporter,
		logger:   logger,
		workers:  4,
		timeout:  3 * time.Minute,
		ch:       make(chan Job, 64),
	}
	for _, o := range opts {
		o(q)
	}
	q.start()
	return q
}

func (q *ProcessorQueue) start() {
	q.once.Do(func() {
		for i := 0; i < q.workers; i++ {
			q.wg.Add(1)
			go func(workerID int) {
				defer q.wg.Done()
				q.logger.Debug("worker started", "worker_id", workerID)

				for job := range q.ch {
					res := q.handle(job)
					if res.Err != nil {
						q.logger.Error("processing failed", "worker_id", workerID, "path", job.Path, "error", res.Err)
					} else {
						q.logger.Info("processed document", "worker_id", workerID, "path", job.Path,
							"run_id", res.RunID, "output", res.OutputPath, "duration_ms", res.Duration.Milliseconds())
					}
					if q.onResult != nil {
						q.onResult(res)
					}
					if job.Done != nil {
						job.Done <- res
					}
				}

				q.logger.Debug("worker stopped", "worker_id", workerID)
			}(i + 1)
		}
	})
}

func (q *ProcessorQueue) handle(job Job) (res JobResult) {
	start := time.Now()
	res.Job = job
	defer func() { res.Duration = time.Since(start) }()

	ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
	defer cancel()

	content, err := os.ReadFile(job.Path)
	if err != nil {
		res.Err = fmt.Errorf("read %s: %w", job.Path, err)
		return res
	}

	out, err := q.proc.Process(ctx, pipeline.Document{Name: job.Path, Content: content})
	res.RunID = out.RunID
	if err != nil {
		res.Err = err
		return res
	}
	res.Proposals = len(out.Proposals)
	res.Directors = len(out.Directors)
	res.Notices = out.Notices

	wb, err := q.exporter.WorkbookXLSX(out.Proposals, out.Directors)
	if err != nil {
		res.Err = err
		return res
	}
	dest := q.outputPath(job.Path)
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		res.Err = fmt.Errorf("create output dir: %w", err)
		return res
	}
	if err := os.WriteFile(dest, wb, 0o644); err != nil {
		res.Err = fmt.Errorf("write workbook: %w", err)
		return res
	}
	res.OutputPath = dest
	return res
}

// outputPath maps /in/report.pdf to <outDir>/report.xlsx.
func (q *ProcessorQueue) outputPath(src string) string {
	base := filepath.Base(src)
	name := strings.TrimSuffix(base, filepath.Ext(base)) + ".xlsx"
	if q.outDir == "" {
		return filepath.Join(filepath.Dir(src), name)
	}
	return filepath.Join(q.outDir, name)
}

// Enqueue blocks while the queue is full until ctx is done.
func (q *ProcessorQueue) Enqueue(ctx context.Context, job Job) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		q.logger.Warn("cannot enqueue: queue is shutting down", "path", job.Path)
		return ErrQueueClosed
	}
	if job.SubmittedAt.IsZero() {
		job.SubmittedAt = time.Now()
	}
	if job.TraceID == "" {
		job.TraceID = uuid.NewString()
	}
	select {
	case q.ch <- job:
		q.logger.Debug("queued document for processing", "path", job.Path, "trace_id", job.TraceID)
		return nil
	default:
	}
	q.logger.Warn("queue full, applying backpressure", "path", job.Path)
	select {
	case q.ch <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown stops accepting jobs and waits for queued ones to drain.
func (q *ProcessorQueue) Shutdown(ctx context.Context) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.ch)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() { defer close(done); q.wg.Wait() }()

	select {
	case <-ctx.Done():
		q.logger.Warn("shutdown interrupted by context")
	case <-done:
		q.logger.Info("queue drained, shutdown complete")
	}
}
