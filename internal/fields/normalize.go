package fields

import (
	"fmt"
	"math/big"
	"strings"
)

// Sentinel placeholders meaning "no votes of this kind". The comparison is
// exact: "NIL" or "nil" are not sentinels.
const (
	SentinelNil    = "Nil"
	SentinelHyphen = "-"
)

// NormalizeSentinel maps the sentinel placeholders to "0" and returns any
// other value unchanged. An absent value ("") stays "".
func NormalizeSentinel(raw string) string {
	if raw == SentinelNil || raw == SentinelHyphen {
		return "0"
	}
	return raw
}

// ParseVotes strips thousands separators and parses s as an arbitrary
// precision integer. Empty or malformed input counts as zero; callers never
// see a parse error.
func ParseVotes(s string) *big.Int {
	n, ok := new(big.Int).SetString(strings.ReplaceAll(s, ",", ""), 10)
	if !ok {
		return new(big.Int)
	}
	return n
}

// Outcome returns "Approved (<for> For > <against> Against)" when the For
// count exceeds the Against count, using the captured strings as-is.
// Otherwise, including ties, it returns "".
func Outcome(rawFor, rawAgainst string) string {
	if ParseVotes(rawFor).Cmp(ParseVotes(rawAgainst)) > 0 {
		return fmt.Sprintf("Approved (%s For > %s Against)", rawFor, rawAgainst)
	}
	return ""
}
