package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/joseph-ayodele/agm-extractor/internal/common"
)

var (
	cfgFile   string
	logLevel  string
	logFormat string

	// cfg is loaded once per invocation by the root PersistentPreRunE.
	cfg *common.Config
)

var rootCmd = &cobra.Command{
	Use:   "agm-extract",
	Short: "Extract proposal and director voting results from AGM documents",
	Long: `agm-extract reads AGM result documents (PDF or already-extracted text),
finds every shareholder proposal and director election block, and writes the
vote counts to a workbook with a "Proposal Sheet" and a "Non-Proposal Sheet".`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (yaml, json or toml); environment variables override it")
	pf.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (env LOG_LEVEL)")
	pf.StringVar(&logFormat, "log-format", "", "log format: text or json (env LOG_FORMAT)")
	_ = viper.BindPFlag("LOG_LEVEL", pf.Lookup("log-level"))
	_ = viper.BindPFlag("LOG_FORMAT", pf.Lookup("log-format"))

	rootCmd.AddCommand(extractCmd, batchCmd, watchCmd, runsCmd, serveCmd, dbHealthCmd, versionCmd)
}

func initConfig() {
	if cfgFile == "" {
		return
	}
	viper.SetConfigFile(cfgFile)
	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintln(os.Stderr, "warning: could not read config file:", err)
	}
}

func loadConfig(cmd *cobra.Command, _ []string) error {
	cfg = common.LoadConfig(viper.GetViper())
	if err := cfg.Validate(); err != nil {
		return err
	}
	slog.SetDefault(common.NewLogger(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format))
	return nil
}
