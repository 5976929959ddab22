package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/agm-extractor/internal/common"
	"github.com/joseph-ayodele/agm-extractor/internal/export"
	"github.com/joseph-ayodele/agm-extractor/internal/pipeline"
)

var (
	extractOut    string
	extractFormat string
)

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Extract voting results from one document into a workbook",
	Args:  cobra.ExactArgs(1),
	RunE:  runExtract,
}

func init() {
	extractCmd.Flags().StringVarP(&extractOut, "out", "o", "", `output path; "-" writes to stdout (default agm_data.<format>)`)
	extractCmd.Flags().StringVar(&extractFormat, "format", "xlsx", "output format: xlsx or json")
}

func runExtract(cmd *cobra.Command, args []string) error {
	format := strings.ToLower(extractFormat)
	if format != "xlsx" && format != "json" {
		return common.NewAppError(common.CodeInvalidInput, "--format must be xlsx or json", common.ErrInvalidInput)
	}

	ctx, cancel := common.WithTimeout(cmd.Context(), cfg.Extraction.Timeout)
	defer cancel()

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.close()

	content, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}

	res, err := a.proc.Process(ctx, pipeline.Document{Name: args[0], Content: content})
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if format == "json" {
		err = a.exporter.WriteJSON(&buf, res.Proposals, res.Directors)
	} else {
		err = a.exporter.WriteWorkbook(&buf, res.Proposals, res.Directors)
	}
	if err != nil {
		return err
	}

	out := extractOut
	if out == "" {
		out = export.FileNameFor(format)
	}
	if err := writeOutput(cmd.OutOrStdout(), out, buf.Bytes()); err != nil {
		return err
	}
	for _, n := range res.Notices {
		fmt.Fprintln(cmd.ErrOrStderr(), "notice:", n)
	}
	if out != "-" {
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d proposals, %d director results, %d pages via %s)\n",
			out, len(res.Proposals), len(res.Directors), res.Pages, res.Method)
	}
	return nil
}

func writeOutput(stdout io.Writer, path string, data []byte) error {
	if path == "-" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
