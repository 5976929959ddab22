package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/agm-extractor/internal/common"
)

var dbHealthCmd = &cobra.Command{
	Use:   "dbhealth",
	Short: "Check that the run-history database is reachable and migrated",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if cfg.Database.DSN == "" {
			return common.NewAppError(common.CodeConfig, "DB_URL env var is required", common.ErrInvalidInput)
		}
		ctx := cmd.Context()
		db, err := openDB(ctx, cfg, slog.Default())
		if err != nil {
			return fmt.Errorf("opening DB: %w", err)
		}
		defer db.Close(nil)

		if err := db.HealthCheck(ctx, time.Second); err != nil {
			return fmt.Errorf("DB health: FAIL (%w)", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "DB health: OK (%s)\n", db.Dialect)
		return nil
	},
}
