package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/agm-extractor/internal/ingest"
)

var (
	batchOut           string
	batchWorkers       int
	batchExts          []string
	batchIncludeHidden bool
)

var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Extract every supported document under a directory",
	Long: `batch walks <dir>, processes every .pdf and .txt document on a bounded
worker pool and writes one <name>.xlsx per document into --out.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	f := batchCmd.Flags()
	f.StringVar(&batchOut, "out", "", "output directory (env OUTPUT_DIR)")
	f.IntVar(&batchWorkers, "workers", 0, "number of workers (env BATCH_WORKERS)")
	f.StringSliceVar(&batchExts, "ext", nil, "extensions to include (default pdf,txt)")
	f.BoolVar(&batchIncludeHidden, "include-hidden", false, "also process hidden files and directories")
}

func runBatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.close()

	outDir := flagOr(cmd, "out", batchOut, cfg.Batch.OutputDir)
	workers := flagOr(cmd, "workers", batchWorkers, cfg.Batch.Workers)

	q := a.newQueue(outDir, workers, nil)
	defer q.Shutdown(context.Background())

	u := ingest.NewUsecase(q, a.logger)
	results, stats, err := u.IngestDirectory(ctx, args[0], batchExts, !batchIncludeHidden)
	printResults(cmd.OutOrStdout(), results)
	fmt.Fprintf(cmd.OutOrStdout(), "\nscanned=%d matched=%d succeeded=%d failed=%d\n",
		stats.Scanned, stats.Matched, stats.Succeeded, stats.Failed)
	if err != nil {
		return err
	}
	if stats.Failed > 0 {
		return fmt.Errorf("%d of %d documents failed", stats.Failed, stats.Matched)
	}
	return nil
}

func printResults(w io.Writer, results []ingest.FileResult) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PATH\tPROPOSALS\tDIRECTORS\tOUTPUT\tERROR")
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%s\n", r.Path, r.Proposals, r.Directors, r.OutputPath, r.Err)
	}
	_ = tw.Flush()
}

// flagOr returns the flag value when the user set it, otherwise the configured one.
func flagOr[T any](cmd *cobra.Command, name string, flagVal, cfgVal T) T {
	if cmd.Flags().Changed(name) {
		return flagVal
	}
	return cfgVal
}
