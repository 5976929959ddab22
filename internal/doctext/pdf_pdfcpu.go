package doctext

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/joseph-ayodele/agm-extractor/internal/common"
)

var rePageSuffix = regexp.MustCompile(`(\d+)\.txt$`)

// pdfcpuText validates the document with pdfcpu, then decodes the text
// operators of each page content stream.
func (e *Extractor) pdfcpuText(content []byte) (text string, pages int, warnings []string, err error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	pages, err = api.PageCount(bytes.NewReader(content), conf)
	if err != nil {
		return "", 0, nil, fmt.Errorf("%w: %v", common.ErrUnreadableDocument, err)
	}
	if pages == 0 {
		return "", 0, nil, nil
	}

	tmpDir, err := os.MkdirTemp("", "agm-pdfcpu-*")
	if err != nil {
		return "", 0, nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	inFile := filepath.Join(tmpDir, "document.pdf")
	if err := os.WriteFile(inFile, content, 0o600); err != nil {
		return "", 0, nil, fmt.Errorf("write temp file: %w", err)
	}
	outDir := filepath.Join(tmpDir, "content")
	if err := os.Mkdir(outDir, 0o700); err != nil {
		return "", 0, nil, fmt.Errorf("create content dir: %w", err)
	}

	var selected []string
	if e.cfg.MaxPages > 0 && pages > e.cfg.MaxPages {
		selected = []string{fmt.Sprintf("1-%d", e.cfg.MaxPages)}
		warnings = append(warnings, fmt.Sprintf("page limit %d reached, %d page(s) skipped", e.cfg.MaxPages, pages-e.cfg.MaxPages))
	}
	if err := api.ExtractContentFile(inFile, outDir, selected, conf); err != nil {
		return "", pages, warnings, fmt.Errorf("%w: extract content: %v", common.ErrUnreadableDocument, err)
	}

	entries, err := os.ReadDir(outDir)
	if err != nil {
		return "", pages, warnings, fmt.Errorf("read content dir: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.SliceStable(names, func(i, j int) bool { return pageNumber(names[i]) < pageNumber(names[j]) })

	texts := make([]string, 0, len(names))
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(outDir, name))
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		texts = append(texts, decodeContentStream(string(data)))
	}
	return joinPages(texts), pages, warnings, nil
}

func pageNumber(name string) int {
	m := rePageSuffix.FindStringSubmatch(name)
	if m == nil {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	return n
}
