package ingest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/agm-extractor/internal/async"
)

type Usecase struct {
	Queue  async.Queue
	Logger *slog.Logger
}

func NewUsecase(q async.Queue, logger *slog.Logger) *Usecase {
	if logger == nil {
		logger = slog.Default()
	}
	return &Usecase{Queue: q, Logger: logger}
}

// IngestPath queues one document and waits for its result.
func (u *Usecase) IngestPath(ctx context.Context, path string) (FileResult, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return FileResult{Path: path}, fmt.Errorf("abs path: %w", err)
	}
	if !AllowedExt(filepath.Ext(abs)) {
		return FileResult{Path: abs}, fmt.Errorf("unsupported or missing extension: %q", filepath.Ext(abs))
	}
	done := make(chan async.JobResult, 1)
	if err := u.Queue.Enqueue(ctx, async.Job{Path: abs, Done: done}); err != nil {
		return FileResult{Path: abs}, err
	}
	select {
	case res := <-done:
		fr := toFileResult(res)
		if res.Err != nil {
			return fr, res.Err
		}
		return fr, nil
	case <-ctx.Done():
		return FileResult{Path: abs}, ctx.Err()
	}
}

// IngestDirectory walks root, filters by includeExts (or defaults), skips hidden if requested,
// and queues each document. Returns per-file results in walk order plus aggregate stats.
func (u *Usecase) IngestDirectory(ctx context.Context, root string, includeExts []string, skipHidden bool) ([]FileResult, DirStats, error) {
	if strings.TrimSpace(root) == "" {
		return nil, DirStats{}, errors.New("root path is required")
	}
	exts := extSet(includeExts)

	var (
		results []FileResult
		paths   []string
		stats   DirStats
	)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		stats.Scanned++
		if walkErr != nil {
			results = append(results, FileResult{Path: path, Err: walkErr.Error()})
			stats.Failed++
			return nil // continue walking
		}
		if skipHidden && path != root && IsHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !allowed(path, exts) {
			return nil
		}
		stats.Matched++
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return results, stats, fmt.Errorf("walk: %w", err)
	}

	done := make(chan async.JobResult, len(paths))
	queued := 0
	for _, p := range paths {
		if err := u.Queue.Enqueue(ctx, async.Job{Path: p, Done: done}); err != nil {
			results = append(results, FileResult{Path: p, Err: err.Error()})
			stats.Failed++
			continue
		}
		queued++
	}

	byPath := make(map[string]FileResult, queued)
	for i := 0; i < queued; i++ {
		select {
		case res := <-done:
			byPath[res.Job.Path] = toFileResult(res)
		case <-ctx.Done():
			return results, stats, ctx.Err()
		}
	}
	for _, p := range paths {
		fr, ok := byPath[p]
		if !ok {
			continue
		}
		if fr.Err != "" {
			stats.Failed++
		} else {
			stats.Succeeded++
		}
		results = append(results, fr)
	}
	u.Logger.Info("directory processed", "root", root,
		"matched", stats.Matched, "succeeded", stats.Succeeded, "failed", stats.Failed)
	return results, stats, nil
}

func toFileResult(res async.JobResult) FileResult {
	fr := FileResult{
		Path:       res.Job.Path,
		RunID:      res.RunID,
		Proposals:  res.Proposals,
		Directors:  res.Directors,
		Notices:    res.Notices,
		OutputPath: res.OutputPath,
	}
	if res.Err != nil {
		fr.Err = res.Err.Error()
	}
	return fr
}
