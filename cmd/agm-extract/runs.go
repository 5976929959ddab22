package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/agm-extractor/internal/common"
	"github.com/joseph-ayodele/agm-extractor/internal/entity"
	"github.com/joseph-ayodele/agm-extractor/internal/repository"
)

var (
	runsLimit int
	runsJSON  bool
)

var runsCmd = &cobra.Command{
	Use:   "runs [id]",
	Short: "List recorded extraction runs, or show one run",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRuns,
}

func init() {
	runsCmd.Flags().IntVar(&runsLimit, "limit", repository.DefaultListLimit, "maximum number of runs to list")
	runsCmd.Flags().BoolVar(&runsJSON, "json", false, "print JSON instead of a table")
}

func runRuns(cmd *cobra.Command, args []string) error {
	if cfg.Database.DSN == "" {
		return common.NewAppError(common.CodeConfig, "DB_URL is required to read run history", common.ErrInvalidInput)
	}
	ctx := cmd.Context()
	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.close()

	var runs []*entity.Run
	if len(args) == 1 {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return common.NewAppError(common.CodeInvalidInput, "run id must be a UUID", common.ErrInvalidInput)
		}
		run, err := a.runs.Get(ctx, id)
		if err != nil {
			return err
		}
		runs = append(runs, run)
	} else if runs, err = a.runs.List(ctx, runsLimit); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if runsJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSOURCE\tSTATUS\tMETHOD\tPAGES\tPROPOSALS\tDIRECTORS\tSTARTED\tERROR")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%d\t%s\t%s\n",
			r.ID, r.SourceName, r.Status, r.Method, r.Pages, r.Proposals, r.Directors,
			r.StartedAt.Local().Format(time.DateTime), r.ErrorMessage)
	}
	return tw.Flush()
}
