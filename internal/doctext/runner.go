package doctext

import (
	"bytes"
	"context"
	"log/slog"
	"os/exec"
	"time"
)

// stderrLogCap bounds how much pdftotext stderr ends up in a log line.
const stderrLogCap = 4 << 10

// Runner lets us stub external commands in tests.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

// execRunner runs converter binaries and reports through the extractor's logger.
type execRunner struct {
	logger *slog.Logger
}

func (r execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	started := time.Now()
	err := cmd.Run()
	elapsed := time.Since(started)

	if err != nil {
		r.logger.Error("converter.exec.failed",
			"converter", name,
			"argc", len(args),
			"exit_code", cmd.ProcessState.ExitCode(),
			"duration_ms", elapsed.Milliseconds(),
			"stderr", clip(stderr.String(), stderrLogCap),
			"error", err,
		)
		return stdout.Bytes(), stderr.Bytes(), err
	}
	r.logger.Debug("converter.exec.ok",
		"converter", name,
		"duration_ms", elapsed.Milliseconds(),
		"stdout_bytes", stdout.Len(),
	)
	return stdout.Bytes(), stderr.Bytes(), nil
}

func clip(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + " [clipped]"
}
