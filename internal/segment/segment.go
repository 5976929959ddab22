// Package segment splits document text into the blocks that follow a marker phrase.
package segment

import (
	"errors"
	"iter"
	"regexp"
	"strings"
)

// space matches Unicode spacing (NBSP, thin space, ...) as well as ASCII whitespace.
const space = `[\s\p{Z}\x{85}]`

// ErrEmptyMarker is returned when a marker phrase has no non-space characters.
var ErrEmptyMarker = errors.New("marker phrase is empty")

// Marker is a compiled block-start phrase. Matching ignores case and every run
// of spaces in the phrase matches any run of whitespace in the text.
type Marker struct {
	phrase string
	re     *regexp.Regexp
}

// NewMarker compiles phrase into a Marker.
func NewMarker(phrase string) (*Marker, error) {
	words := strings.Fields(phrase)
	if len(words) == 0 {
		return nil, ErrEmptyMarker
	}
	for i, w := range words {
		words[i] = regexp.QuoteMeta(w)
	}
	re, err := regexp.Compile(`(?i)` + strings.Join(words, space+`+`))
	if err != nil {
		return nil, err
	}
	return &Marker{phrase: phrase, re: re}, nil
}

// MustMarker is like NewMarker but panics on error. Use it for package-level markers.
func MustMarker(phrase string) *Marker {
	m, err := NewMarker(phrase)
	if err != nil {
		panic("segment: " + err.Error())
	}
	return m
}

// Phrase returns the phrase the marker was built from.
func (m *Marker) Phrase() string { return m.phrase }

// Blocks yields, in document order, the text strictly between each marker
// occurrence and the next one (or the end of text). Text before the first
// occurrence is not a block. The sequence can be ranged over any number of times.
func (m *Marker) Blocks(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		loc := m.re.FindStringIndex(text)
		for loc != nil {
			start := loc[1]
			end := len(text)
			next := m.re.FindStringIndex(text[start:])
			if next != nil {
				next[0] += start
				next[1] += start
				end = next[0]
			}
			if !yield(text[start:end]) {
				return
			}
			loc = next
		}
	}
}

// Count returns the number of marker occurrences in text.
func (m *Marker) Count(text string) int {
	return len(m.re.FindAllStringIndex(text, -1))
}

// Blocks is a convenience wrapper for one-off phrases.
func Blocks(text, phrase string) (iter.Seq[string], error) {
	m, err := NewMarker(phrase)
	if err != nil {
		return nil, err
	}
	return m.Blocks(text), nil
}
