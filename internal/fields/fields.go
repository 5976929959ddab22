// Package fields pulls single values out of a text block with labeled patterns.
//
// Every pattern is searched across the whole block, not per line, so PDF text
// with irregular wrapping still matches. If a label repeats inside one block the
// first occurrence wins; later occurrences are ignored.
package fields

import (
	"regexp"
	"strings"
)

// space is a whitespace class that also covers Unicode spacing such as NBSP,
// which PDF extractors often emit between words.
const space = `[\s\p{Z}\x{85}]`

// Value expressions. Each holds exactly one capture group.
const (
	// Integer is a run of digits and thousands separators, captured verbatim.
	Integer = `([\d,]+)`
	// IntegerOrSentinel also accepts the "Nil" and "-" placeholders.
	IntegerOrSentinel = `([\d,]+|Nil|-)`
	// Quoted is the text between a pair of double quotes.
	Quoted = `"([^"]+)"`
)

var (
	leadingYear = regexp.MustCompile(`^` + space + `*(\d{4})`)
	leadingLine = regexp.MustCompile(`^` + space + `*([^\n]+)`)
)

// Pattern is a compiled labeled pattern with one capture group.
type Pattern struct {
	Label string
	re    *regexp.Regexp
}

// NewPattern builds a case-insensitive pattern for label followed by an
// optional ":" or "-" separator and the value expression. Spaces in label
// match any (possibly empty) whitespace run, hyphens match any run of hyphens
// and whitespace.
func NewPattern(label, value string) (*Pattern, error) {
	re, err := regexp.Compile(`(?i)` + labelExpr(label) + space + `*[:\-]?` + space + `*` + value)
	if err != nil {
		return nil, err
	}
	return &Pattern{Label: label, re: re}, nil
}

// MustPattern is like NewPattern but panics on error.
func MustPattern(label, value string) *Pattern {
	p, err := NewPattern(label, value)
	if err != nil {
		panic("fields: " + err.Error())
	}
	return p
}

// Find returns the first captured value in block, or "" if the label is absent.
func (p *Pattern) Find(block string) string {
	return first(p.re, block)
}

// First returns the first captured value of p in block, or "".
func First(block string, p *Pattern) string {
	if p == nil {
		return ""
	}
	return p.Find(block)
}

// LeadingYear returns the 4-digit run at the start of block (after whitespace), or "".
func LeadingYear(block string) string {
	return first(leadingYear, block)
}

// NameLine returns the first non-empty line of block, trimmed, or "".
func NameLine(block string) string {
	return strings.TrimSpace(first(leadingLine, block))
}

func first(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}

func labelExpr(label string) string {
	var b strings.Builder
	for i, word := range strings.Fields(label) {
		if i > 0 {
			b.WriteString(space + `*`)
		}
		parts := strings.Split(word, "-")
		for j, part := range parts {
			if j > 0 {
				b.WriteString(`[-\s\p{Z}\x{85}]*`)
			}
			b.WriteString(regexp.QuoteMeta(part))
		}
	}
	return b.String()
}
