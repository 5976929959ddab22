package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/agm-extractor/internal/async"
	"github.com/joseph-ayodele/agm-extractor/internal/ingest"
)

var (
	watchOut         string
	watchWorkers     int
	watchInitialScan bool
)

var watchCmd = &cobra.Command{
	Use:   "watch <dir>...",
	Short: "Watch directories and extract documents as they arrive",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runWatch,
}

func init() {
	f := watchCmd.Flags()
	f.StringVar(&watchOut, "out", "", "output directory (env OUTPUT_DIR)")
	f.IntVar(&watchWorkers, "workers", 0, "number of workers (env BATCH_WORKERS)")
	f.BoolVar(&watchInitialScan, "initial-scan", false, "also process documents already present")
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.close()

	out := cmd.OutOrStdout()
	q := a.newQueue(
		flagOr(cmd, "out", watchOut, cfg.Batch.OutputDir),
		flagOr(cmd, "workers", watchWorkers, cfg.Batch.Workers),
		func(r async.JobResult) {
			if r.Err != nil {
				fmt.Fprintf(out, "FAILED %s: %v\n", r.Job.Path, r.Err)
				return
			}
			fmt.Fprintf(out, "ok %s -> %s (%d proposals, %d director results)\n",
				r.Job.Path, r.OutputPath, r.Proposals, r.Directors)
			if len(r.Notices) > 0 {
				fmt.Fprintf(out, "   notice: %s\n", strings.Join(r.Notices, " "))
			}
		},
	)

	events, errs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
		Roots:       args,
		InitialScan: watchInitialScan,
		Debounce:    cfg.Batch.Debounce,
		SkipHidden:  true,
		Logger:      a.logger,
	})
	if err != nil {
		return err
	}
	a.logger.Info("watching for documents", "roots", args)

	for events != nil || errs != nil {
		select {
		case path, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if err := q.Enqueue(ctx, async.Job{Path: path}); err != nil {
				a.logger.Warn("enqueue failed", "path", path, "err", err)
			}
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			a.logger.Warn("watch error", "err", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Batch.ProcessTimeout+5*time.Second)
	defer cancel()
	q.Shutdown(shutdownCtx)
	return nil
}
