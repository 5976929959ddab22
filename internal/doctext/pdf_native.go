package doctext

import (
	"bytes"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/joseph-ayodele/agm-extractor/internal/common"
)

// nativeText reads page text with ledongthuc/pdf (pure Go). Lines come from
// glyph positions so text placed with Td/TD/T* keeps its line breaks.
func (e *Extractor) nativeText(content []byte) (text string, pages int, warnings []string, err error) {
	// the reader panics on some malformed cross-reference tables
	defer func() {
		if r := recover(); r != nil {
			text, pages, warnings = "", 0, nil
			err = fmt.Errorf("%w: malformed pdf: %v", common.ErrUnreadableDocument, r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", 0, nil, fmt.Errorf("%w: open pdf: %v", common.ErrUnreadableDocument, err)
	}

	pages = r.NumPage()
	if pages == 0 {
		return "", 0, nil, nil
	}
	limit := pages
	if e.cfg.MaxPages > 0 && limit > e.cfg.MaxPages {
		limit = e.cfg.MaxPages
		warnings = append(warnings, fmt.Sprintf("page limit %d reached, %d page(s) skipped", limit, pages-limit))
	}

	texts := make([]string, 0, limit)
	for i := 1; i <= limit; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			warnings = append(warnings, fmt.Sprintf("page %d: missing page object", i))
			continue
		}
		glyphs, perr := pageGlyphs(page)
		if perr != nil {
			warnings = append(warnings, fmt.Sprintf("page %d: %v", i, perr))
			continue
		}
		texts = append(texts, glyphLines(glyphs))
	}
	return joinPages(texts), pages, warnings, nil
}

// pageGlyphs returns the positioned glyphs of one page; a page whose
// content stream trips the reader becomes an error instead of failing the
// whole document.
func pageGlyphs(page pdf.Page) (glyphs []pdf.Text, err error) {
	defer func() {
		if r := recover(); r != nil {
			glyphs, err = nil, fmt.Errorf("content stream: %v", r)
		}
	}()
	return page.Content().Text, nil
}

type textRun struct {
	x, y float64
	text strings.Builder
}

// glyphLines rebuilds line structure from glyph positions. Glyphs that
// share a baseline form a run in stream order; runs are laid out top of
// the page first (PDF y grows upwards), left to right within a row.
func glyphLines(glyphs []pdf.Text) string {
	var (
		runs    []*textRun
		cur     *textRun
		lastEnd float64
	)
	for _, g := range glyphs {
		if g.S == "" || g.S == "\n" {
			continue
		}
		tol := g.FontSize / 2
		if tol <= 0 {
			tol = 1
		}
		switch {
		case cur == nil || math.Abs(g.Y-cur.y) > tol:
			cur = &textRun{x: g.X, y: g.Y}
			runs = append(runs, cur)
		case g.X-lastEnd > tol && !strings.HasSuffix(cur.text.String(), " "):
			cur.text.WriteByte(' ')
		}
		cur.text.WriteString(g.S)
		lastEnd = g.X + g.W
	}

	sort.SliceStable(runs, func(i, j int) bool {
		ri, rj := math.Round(runs[i].y), math.Round(runs[j].y)
		if ri != rj {
			return ri > rj
		}
		return runs[i].x < runs[j].x
	})

	var (
		lines []string
		line  strings.Builder
		row   float64
	)
	flush := func() {
		if s := strings.TrimSpace(line.String()); s != "" {
			lines = append(lines, s)
		}
		line.Reset()
	}
	for i, run := range runs {
		if i > 0 && math.Round(run.y) != row {
			flush()
		}
		row = math.Round(run.y)
		if line.Len() > 0 {
			line.WriteByte(' ')
		}
		line.WriteString(run.text.String())
	}
	flush()
	return strings.Join(lines, "\n")
}
