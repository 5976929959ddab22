// Package pipeline runs one document through text extraction and both
// record pipelines.
package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/joseph-ayodele/agm-extractor/constants"
	"github.com/joseph-ayodele/agm-extractor/internal/common"
	"github.com/joseph-ayodele/agm-extractor/internal/doctext"
	"github.com/joseph-ayodele/agm-extractor/internal/repository"
	"github.com/joseph-ayodele/agm-extractor/internal/votes"
)

// Notices reported when a pipeline finds no records.
const (
	NoticeNoProposals = "No proposals were found in the document."
	NoticeNoDirectors = "No director election results were found in the document."
)

// TextExtractor is stage 1: document bytes -> text.
type TextExtractor interface {
	Extract(ctx context.Context, name string, content []byte) (doctext.ExtractionResult, error)
}

type Document struct {
	Name    string
	Content []byte
}

type Result struct {
	RunID     uuid.UUID // uuid.Nil when no run repository is configured
	Proposals []votes.Proposal
	Directors []votes.Director
	Notices   []string
	Pages     int
	Method    string
	Warnings  []string
}

// Processor coordinates text extraction then the proposal and director
// pipelines, recording each run when a repository is set.
type Processor struct {
	Logger *slog.Logger
	Text   TextExtractor
	Runs   repository.RunRepository
}

func NewProcessor(logger *slog.Logger, text TextExtractor, runs repository.RunRepository) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{Logger: logger, Text: text, Runs: runs}
}

// Process extracts both record sets from doc. Text extraction failures are
// fatal and produce no records; empty record sets only add notices.
func (p *Processor) Process(ctx context.Context, doc Document) (Result, error) {
	start := time.Now()
	var res Result

	if p.Runs != nil {
		run, err := p.Runs.Start(ctx, repository.StartRun{
			SourceName:    filepath.Base(doc.Name),
			ContentSHA256: checksum(doc.Content),
			Format:        constants.MapExtToFormat(constants.NormalizeExt(filepath.Ext(doc.Name))),
		})
		if err != nil {
			// run history is best effort; extraction still proceeds
			p.Logger.Warn("processor.run.start_failed", "name", doc.Name, "err", err)
		} else {
			res.RunID = run.ID
			ctx = common.WithRunID(ctx, run.ID.String())
		}
	}

	text, err := p.Text.Extract(ctx, doc.Name, doc.Content)
	if err != nil {
		p.Logger.Error("processor.extract.failed", "name", doc.Name, "run_id", res.RunID, "err", err)
		p.finishFailure(ctx, res.RunID, err)
		return res, err
	}
	res.Pages = text.Pages
	res.Method = text.Method
	res.Warnings = text.Warnings

	// Both pipelines only read the text, so they share it without locking.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		res.Proposals = votes.ParseProposals(text.Text)
		return nil
	})
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		res.Directors = votes.ParseDirectors(text.Text)
		return nil
	})
	if err := g.Wait(); err != nil {
		p.Logger.Error("processor.parse.aborted", "name", doc.Name, "run_id", res.RunID, "err", err)
		p.finishFailure(ctx, res.RunID, err)
		res.Proposals, res.Directors = nil, nil
		return res, err
	}

	if len(res.Proposals) == 0 {
		res.Notices = append(res.Notices, NoticeNoProposals)
	}
	if len(res.Directors) == 0 {
		res.Notices = append(res.Notices, NoticeNoDirectors)
	}

	if p.Runs != nil && res.RunID != uuid.Nil {
		counts := repository.RunCounts{
			Method:    res.Method,
			Pages:     res.Pages,
			Proposals: len(res.Proposals),
			Directors: len(res.Directors),
		}
		if err := p.Runs.FinishSuccess(ctx, res.RunID, counts); err != nil {
			p.Logger.Warn("processor.run.finish_failed", "run_id", res.RunID, "err", err)
		}
	}

	p.Logger.Info("processor.ok",
		"name", doc.Name,
		"run_id", res.RunID,
		"method", res.Method,
		"pages", res.Pages,
		"proposals", len(res.Proposals),
		"directors", len(res.Directors),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return res, nil
}

func (p *Processor) finishFailure(ctx context.Context, runID uuid.UUID, cause error) {
	if p.Runs == nil || runID == uuid.Nil {
		return
	}
	// a cancelled request still gets its run marked failed
	if err := p.Runs.FinishFailure(context.WithoutCancel(ctx), runID, cause.Error()); err != nil {
		p.Logger.Warn("processor.run.finish_failed", "run_id", runID, "err", err)
	}
}

func checksum(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
