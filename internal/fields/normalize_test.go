package fields

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSentinel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Nil", "0"},
		{"-", "0"},
		{"", ""},
		{"1,234", "1,234"},
		{"0", "0"},
		{"NIL", "NIL"},
		{"nil", "nil"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeSentinel(tt.in))
		})
	}
}

func TestParseVotes(t *testing.T) {
	assert.Equal(t, "1000", ParseVotes("1,000").String())
	assert.Equal(t, "1234567", ParseVotes("1,234,567").String())
	assert.Equal(t, "0", ParseVotes("").String())
	assert.Equal(t, "0", ParseVotes(",").String())
	assert.Equal(t, "99999999999999999999999", ParseVotes("99,999,999,999,999,999,999,999").String())
}

func TestOutcome(t *testing.T) {
	tests := []struct {
		name     string
		votesFor string
		against  string
		want     string
	}{
		{"approved keeps separators", "1,000", "200", "Approved (1,000 For > 200 Against)"},
		{"tie", "500", "500", ""},
		{"tie across formatting", "1,000", "1000", ""},
		{"lost", "10", "2,000", ""},
		{"zero for, empty against", "0", "", ""},
		{"both empty", "", "", ""},
		{"against absent", "5", "", "Approved (5 For >  Against)"},
		{"unparseable against counts as zero", "5", ",", "Approved (5 For > , Against)"},
		{"counts beyond int64", "1,000,000,000,000,000,000,000,000", "200", "Approved (1,000,000,000,000,000,000,000,000 For > 200 Against)"},
		{"counts beyond int64 on both sides", "99999999999999999999998", "99999999999999999999999", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Outcome(tt.votesFor, tt.against)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, Outcome(tt.votesFor, tt.against))
		})
	}
}
