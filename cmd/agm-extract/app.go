package main

import (
	"context"
	"log/slog"

	"github.com/joseph-ayodele/agm-extractor/internal/async"
	"github.com/joseph-ayodele/agm-extractor/internal/common"
	"github.com/joseph-ayodele/agm-extractor/internal/doctext"
	"github.com/joseph-ayodele/agm-extractor/internal/export"
	"github.com/joseph-ayodele/agm-extractor/internal/pipeline"
	"github.com/joseph-ayodele/agm-extractor/internal/repository"
)

// app holds the wired components shared by the subcommands.
type app struct {
	cfg      *common.Config
	logger   *slog.Logger
	db       *repository.DB
	runs     repository.RunRepository
	proc     *pipeline.Processor
	exporter *export.Service
}

// newApp wires text extraction, run history (when DB_URL is set) and the
// processor.
func newApp(ctx context.Context, cfg *common.Config) (*app, error) {
	logger := slog.Default()
	a := &app{cfg: cfg, logger: logger, exporter: export.NewService(logger)}

	if cfg.Database.DSN != "" {
		db, err := openDB(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		a.db = db
		a.runs = repository.NewRunRepository(db, logger)
	} else {
		logger.Debug("run history disabled: DB_URL not set")
	}

	extractor := doctext.NewExtractor(doctext.Config{
		Method:    cfg.Extraction.Method,
		Pdftotext: cfg.Extraction.Pdftotext,
		MaxPages:  cfg.Extraction.MaxPages,
	}, logger)
	a.proc = pipeline.NewProcessor(logger, extractor, a.runs)
	return a, nil
}

func openDB(ctx context.Context, cfg *common.Config, logger *slog.Logger) (*repository.DB, error) {
	return repository.Open(ctx, repository.Config{
		DSN:             cfg.Database.DSN,
		MaxConns:        cfg.Database.MaxConns,
		MaxConnLifetime: cfg.Database.MaxConnLifetime,
		DialTimeout:     cfg.Database.DialTimeout,
	}, logger)
}

// newQueue builds the worker pool used by batch and watch.
func (a *app) newQueue(outDir string, workers int, onResult func(async.JobResult)) *async.ProcessorQueue {
	return async.NewProcessorQueue(a.proc, a.exporter, a.logger,
		async.WithWorkers(workers),
		async.WithQueueSize(a.cfg.Batch.QueueSize),
		async.WithProcessTimeout(a.cfg.Batch.ProcessTimeout),
		async.WithOutputDir(outDir),
		async.WithResultHandler(onResult),
	)
}

func (a *app) close() {
	if a.db != nil {
		a.db.Close(a.logger)
	}
}
