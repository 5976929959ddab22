// Package doctext turns an uploaded document into one plain-text string.
package doctext

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/joseph-ayodele/agm-extractor/constants"
	"github.com/joseph-ayodele/agm-extractor/internal/common"
)

type Config struct {
	Method    string // common.MethodNative | MethodPdfcpu | MethodPdftotext; empty -> native
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
	MaxPages  int    // 0 = no limit
}

type ExtractionResult struct {
	Text     string
	Pages    int
	Format   string // constants.PDF | constants.TXT
	Method   string // "pdf-native" | "pdf-pdfcpu" | "pdf-pdftotext" | "txt"
	Duration time.Duration
	Warnings []string
}

type Extractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Method == "" {
		cfg.Method = common.MethodNative
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	return &Extractor{cfg: cfg, runner: execRunner{logger: logger}, logger: logger}
}

// WithRunner swaps the command runner used by the pdftotext method.
func (e *Extractor) WithRunner(r Runner) *Extractor {
	e.runner = r
	return e
}

// ExtractReader reads the whole stream and extracts it; see Extract.
func (e *Extractor) ExtractReader(ctx context.Context, name string, r io.Reader) (ExtractionResult, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return ExtractionResult{}, common.UnreadableError(name, fmt.Errorf("%w: %v", common.ErrUnreadableDocument, err))
	}
	return e.Extract(ctx, name, content)
}

// Extract picks a strategy based on the file extension of name. Pages are
// joined with "\n". A document that cannot be opened or has no pages is a
// fatal error wrapping common.ErrUnreadableDocument or common.ErrNoPages; a
// readable document without any text yields "" and no error.
func (e *Extractor) Extract(ctx context.Context, name string, content []byte) (ExtractionResult, error) {
	start := time.Now()
	ext := constants.NormalizeExt(filepath.Ext(name))
	e.logger.Debug("starting text extraction", "name", name, "method", e.cfg.Method, "ext", ext, "bytes", len(content))

	if len(content) == 0 {
		return ExtractionResult{}, common.UnreadableError(name, fmt.Errorf("%w: empty content", common.ErrUnreadableDocument))
	}

	var (
		res ExtractionResult
		err error
	)
	switch constants.MapExtToFormat(ext) {
	case constants.PDF:
		res, err = e.extractPDF(ctx, content)
		res.Format = constants.PDF
	case constants.TXT:
		res = ExtractionResult{Text: normalize(string(content)), Pages: 1, Format: constants.TXT, Method: "txt"}
	default:
		e.logger.Error("unsupported document extension", "extension", ext)
		return ExtractionResult{}, common.NewAppError(common.CodeUnsupportedFormat, fmt.Sprintf("extension %q", ext), common.ErrUnsupportedFormat)
	}
	res.Duration = time.Since(start)
	if err != nil {
		e.logger.Error("text extraction failed", "name", name, "method", e.cfg.Method, "error", err)
		return res, common.UnreadableError(name, err)
	}

	e.logger.Debug("text extraction ok",
		"name", name,
		"method", res.Method,
		"pages", res.Pages,
		"chars", len(res.Text),
		"duration_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}

func (e *Extractor) extractPDF(ctx context.Context, content []byte) (ExtractionResult, error) {
	var (
		text  string
		pages int
		warns []string
		err   error
	)
	switch e.cfg.Method {
	case common.MethodPdfcpu:
		text, pages, warns, err = e.pdfcpuText(content)
	case common.MethodPdftotext:
		text, pages, warns, err = e.pdfToText(ctx, content)
	default:
		text, pages, warns, err = e.nativeText(content)
	}
	res := ExtractionResult{
		Text:     normalize(text),
		Pages:    pages,
		Method:   "pdf-" + e.cfg.Method,
		Warnings: warns,
	}
	if err != nil {
		return res, err
	}
	if pages == 0 {
		return res, common.ErrNoPages
	}
	if strings.TrimSpace(res.Text) == "" {
		res.Warnings = append(res.Warnings, fmt.Sprintf("no text found on %d page(s)", pages))
		e.logger.Warn("pdf has no extractable text", "method", e.cfg.Method, "pages", pages)
	}
	return res, nil
}
