package doctext

import (
	"regexp"
	"strings"
	"unicode"
)

var reCRLF = regexp.MustCompile(`\r\n?`)

// normalize unifies line endings, turns form feeds into line breaks and
// Unicode space separators (NBSP, thin space) into plain spaces. Runs of
// spaces are left alone; field patterns already tolerate them.
func normalize(s string) string {
	if s == "" {
		return s
	}
	s = reCRLF.ReplaceAllString(s, "\n")
	s = strings.ReplaceAll(s, "\f", "\n")
	return strings.Map(func(r rune) rune {
		if r != ' ' && unicode.Is(unicode.Zs, r) {
			return ' '
		}
		return r
	}, s)
}

// joinPages concatenates page texts, each followed by "\n". Pages without text are skipped.
func joinPages(pages []string) string {
	var b strings.Builder
	for _, p := range pages {
		if p == "" {
			continue
		}
		b.WriteString(p)
		b.WriteString("\n")
	}
	return b.String()
}
