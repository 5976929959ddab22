package fields

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPattern_Find(t *testing.T) {
	tests := []struct {
		name  string
		label string
		value string
		block string
		want  string
	}{
		{"colon separator", "For votes", Integer, "For votes: 1,000", "1,000"},
		{"hyphen separator", "For votes", Integer, "For votes - 12", "12"},
		{"no separator", "For votes", Integer, "for votes 7", "7"},
		{"no space in label", "For votes", Integer, "FORvotes:3", "3"},
		{"wrapped across lines", "Against votes", Integer, "Against\nvotes:\n  200", "200"},
		{"absent", "Withheld votes", Integer, "For votes: 1", ""},
		{"first match wins", "For votes", Integer, "For votes: 1 For votes: 2", "1"},
		{"anywhere in block", "Abstained votes", Integer, "x\ny\nz Abstained votes: 9", "9"},
		{"not a number", "For votes", Integer, "For votes: none", ""},
		{"hyphenated label", "Broker Non-Votes", IntegerOrSentinel, "Broker Non Votes: 5", "5"},
		{"hyphenated label with hyphen", "Broker Non-Votes", IntegerOrSentinel, "Broker Non-Votes: Nil", "Nil"},
		{"hyphen sentinel", "Broker Non-Votes", IntegerOrSentinel, "Broker Non-Votes: -", "-"},
		{"sentinel other case captured verbatim", "Broker Non-Votes", IntegerOrSentinel, "broker non-votes: NIL", "NIL"},
		{"quoted text", "Proposal Text", Quoted, `Proposal Text: "Elect auditor" tail`, "Elect auditor"},
		{"quoted text shortest run", "Proposal Text", Quoted, `Proposal Text "a" "b"`, "a"},
		{"empty quotes do not match", "Proposal Text", Quoted, `Proposal Text: ""`, ""},
		{"nbsp inside label", "Director Votes For", Integer, "Director\u00a0Votes For: 5", "5"},
		{"nbsp around separator", "For votes", Integer, "For votes\u00a0:\u2009700", "700"},
		{"nbsp in hyphenated label", "Broker Non-Votes", IntegerOrSentinel, "Broker\u00a0Non\u00a0Votes: Nil", "Nil"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPattern(tt.label, tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Find(tt.block))
			assert.Equal(t, tt.want, First(tt.block, p))
		})
	}
}

func TestFirst_NilPattern(t *testing.T) {
	assert.Equal(t, "", First("For votes: 1", nil))
}

func TestLeadingYear(t *testing.T) {
	assert.Equal(t, "2023", LeadingYear(" 2023 blah"))
	assert.Equal(t, "2023", LeadingYear("\n\t2023"))
	assert.Equal(t, "2023", LeadingYear("20231"))
	assert.Equal(t, "", LeadingYear(" FY 2023"))
	assert.Equal(t, "", LeadingYear(" 202"))
	assert.Equal(t, "", LeadingYear(""))
	assert.Equal(t, "2023", LeadingYear("\u00a02023"))
}

func TestNameLine(t *testing.T) {
	assert.Equal(t, "Jane Doe", NameLine(" Jane Doe\nDirector Votes For: 900\n"))
	assert.Equal(t, "Jane Doe", NameLine("\n\n   Jane Doe  \r\nnext"))
	assert.Equal(t, "", NameLine("   "))
	assert.Equal(t, "", NameLine(""))
}
