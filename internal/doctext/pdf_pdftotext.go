package doctext

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/agm-extractor/internal/common"
)

// pdfToText shells out to poppler's pdftotext. The binary needs a file path,
// so content is spooled to a temp file first.
func (e *Extractor) pdfToText(ctx context.Context, content []byte) (text string, pages int, warnings []string, err error) {
	tmp, err := os.CreateTemp("", "agm-pdftotext-*.pdf")
	if err != nil {
		return "", 0, nil, fmt.Errorf("create temp file: %w", err)
	}
	defer func(path string) {
		if rmErr := os.Remove(path); rmErr != nil {
			e.logger.Warn("failed to remove temp file", "path", path, "error", rmErr)
		}
	}(tmp.Name())

	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		return "", 0, nil, fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", 0, nil, fmt.Errorf("close temp file: %w", err)
	}

	// pdftotext -layout -enc UTF-8 -eol unix [-l N] <path> -
	args := []string{"-layout", "-enc", "UTF-8", "-eol", "unix"}
	if e.cfg.MaxPages > 0 {
		args = append(args, "-l", strconv.Itoa(e.cfg.MaxPages))
	}
	args = append(args, tmp.Name(), "-")

	out, errb, err := e.runner.Run(ctx, e.cfg.Pdftotext, args...)
	if err != nil {
		return "", 0, []string{string(errb)}, fmt.Errorf("%w: pdftotext: %v", common.ErrUnreadableDocument, err)
	}

	// A form-feed \f terminates every page
	raw := strings.TrimSuffix(string(out), "\f")
	if strings.TrimSpace(raw) == "" && !strings.Contains(string(out), "\f") {
		return "", 0, nil, nil
	}
	split := strings.Split(raw, "\f")
	texts := make([]string, 0, len(split))
	for _, p := range split {
		texts = append(texts, strings.TrimRight(p, "\n"))
	}
	return joinPages(texts), len(split), nil, nil
}
