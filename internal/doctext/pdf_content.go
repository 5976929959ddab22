package doctext

import (
	"encoding/hex"
	"strconv"
	"strings"
)

// TJ offsets at or below this (thousandths of an em) read as a word gap.
const tjWordGap = -250

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokString
	tokName
	tokArray
	tokOperator
	tokOther
	tokArrayEnd
)

type token struct {
	kind  tokenKind
	text  string
	num   float64
	items []token
}

// decodeContentStream keeps the string operands of the text-showing
// operators (Tj, TJ, ' and ") and starts a new line on ET, T*, Tm and on
// Td/TD moves with a vertical offset. Operators may share a line or span
// several. Font encodings are not mapped, so it only suits documents with
// simple (Latin) fonts.
func decodeContentStream(stream string) string {
	var (
		out      strings.Builder
		line     strings.Builder
		operands []token
	)
	flush := func() {
		s := strings.TrimSpace(line.String())
		if s != "" {
			out.WriteString(s)
			out.WriteString("\n")
		}
		line.Reset()
	}
	show := func(t token) {
		switch t.kind {
		case tokString:
			line.WriteString(t.text)
		case tokArray:
			for _, it := range t.items {
				switch {
				case it.kind == tokString:
					line.WriteString(it.text)
				case it.kind == tokNumber && it.num <= tjWordGap:
					if s := line.String(); s != "" && !strings.HasSuffix(s, " ") {
						line.WriteString(" ")
					}
				}
			}
		}
	}

	sc := &contentScanner{src: stream}
	for {
		tok, ok := sc.next()
		if !ok {
			break
		}
		if tok.kind != tokOperator {
			operands = append(operands, tok)
			continue
		}
		switch tok.text {
		case "Tj", "TJ":
			if n := len(operands); n > 0 {
				show(operands[n-1])
			}
		case "'", `"`:
			flush()
			if n := len(operands); n > 0 {
				show(operands[n-1])
			}
		case "Td", "TD":
			if n := len(operands); n >= 2 && operands[n-1].kind == tokNumber && operands[n-1].num != 0 {
				flush()
			}
		case "T*", "Tm", "ET":
			flush()
		case "ID":
			sc.skipInlineImage()
		}
		operands = operands[:0]
	}
	flush()
	return strings.TrimRight(out.String(), "\n")
}

// contentScanner splits a content stream into PDF tokens.
type contentScanner struct {
	src string
	pos int
}

func isPDFSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', 0:
		return true
	}
	return false
}

func isPDFDelim(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func (s *contentScanner) skipSpace() {
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		switch {
		case isPDFSpace(c):
			s.pos++
		case c == '%':
			for s.pos < len(s.src) && s.src[s.pos] != '\n' && s.src[s.pos] != '\r' {
				s.pos++
			}
		default:
			return
		}
	}
}

func (s *contentScanner) next() (token, bool) {
	s.skipSpace()
	if s.pos >= len(s.src) {
		return token{}, false
	}
	switch s.src[s.pos] {
	case '(':
		s.pos++
		return token{kind: tokString, text: s.literal()}, true
	case '<':
		if strings.HasPrefix(s.src[s.pos:], "<<") {
			s.skipDict()
			return token{kind: tokOther}, true
		}
		s.pos++
		return token{kind: tokString, text: s.hexString()}, true
	case '[':
		s.pos++
		var items []token
		for {
			it, ok := s.next()
			if !ok || it.kind == tokArrayEnd {
				break
			}
			items = append(items, it)
		}
		return token{kind: tokArray, items: items}, true
	case ']':
		s.pos++
		return token{kind: tokArrayEnd}, true
	case '/':
		s.pos++
		return token{kind: tokName, text: s.regular()}, true
	case ')', '>', '{', '}':
		s.pos++
		return token{kind: tokOther}, true
	default:
		word := s.regular()
		if f, err := strconv.ParseFloat(word, 64); err == nil {
			return token{kind: tokNumber, text: word, num: f}, true
		}
		return token{kind: tokOperator, text: word}, true
	}
}

func (s *contentScanner) regular() string {
	start := s.pos
	for s.pos < len(s.src) && !isPDFSpace(s.src[s.pos]) && !isPDFDelim(s.src[s.pos]) {
		s.pos++
	}
	if s.pos == start && s.pos < len(s.src) {
		s.pos++
	}
	return s.src[start:s.pos]
}

// literal reads a (...) string after the opening parenthesis. Balanced
// parentheses nest; escapes follow the PDF rules.
func (s *contentScanner) literal() string {
	var b strings.Builder
	depth := 1
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		s.pos++
		switch c {
		case '(':
			depth++
			b.WriteByte(c)
		case ')':
			depth--
			if depth == 0 {
				return b.String()
			}
			b.WriteByte(c)
		case '\\':
			if s.pos >= len(s.src) {
				return b.String()
			}
			e := s.src[s.pos]
			s.pos++
			switch e {
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			case 'b':
				b.WriteByte('\b')
			case 'f':
				b.WriteByte('\f')
			case '\r':
				if s.pos < len(s.src) && s.src[s.pos] == '\n' {
					s.pos++
				}
			case '\n':
			case '0', '1', '2', '3', '4', '5', '6', '7':
				v := int(e - '0')
				for k := 0; k < 2 && s.pos < len(s.src) && s.src[s.pos] >= '0' && s.src[s.pos] <= '7'; k++ {
					v = v*8 + int(s.src[s.pos]-'0')
					s.pos++
				}
				b.WriteByte(byte(v))
			default:
				b.WriteByte(e)
			}
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func (s *contentScanner) hexString() string {
	end := strings.IndexByte(s.src[s.pos:], '>')
	if end < 0 {
		end = len(s.src) - s.pos
	}
	digits := strings.Map(func(r rune) rune {
		if r < 0x80 && isPDFSpace(byte(r)) {
			return -1
		}
		return r
	}, s.src[s.pos:s.pos+end])
	s.pos += end
	if s.pos < len(s.src) {
		s.pos++
	}
	if len(digits)%2 == 1 {
		digits += "0"
	}
	raw, err := hex.DecodeString(digits)
	if err != nil {
		return ""
	}
	return string(raw)
}

// skipDict steps over an inline << ... >> dictionary (marked-content properties).
func (s *contentScanner) skipDict() {
	depth := 0
	for s.pos < len(s.src) {
		switch {
		case strings.HasPrefix(s.src[s.pos:], "<<"):
			depth++
			s.pos += 2
		case strings.HasPrefix(s.src[s.pos:], ">>"):
			depth--
			s.pos += 2
			if depth == 0 {
				return
			}
		case s.src[s.pos] == '(':
			s.pos++
			s.literal()
		default:
			s.pos++
		}
	}
}

// skipInlineImage moves past the binary data that follows ID, up to EI.
func (s *contentScanner) skipInlineImage() {
	for i := s.pos; i+2 <= len(s.src); i++ {
		if s.src[i:i+2] != "EI" {
			continue
		}
		before := i == 0 || isPDFSpace(s.src[i-1])
		after := i+2 == len(s.src) || isPDFSpace(s.src[i+2])
		if before && after {
			s.pos = i + 2
			return
		}
	}
	s.pos = len(s.src)
}
