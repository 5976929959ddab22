package votes

import (
	"github.com/joseph-ayodele/agm-extractor/constants"
	"github.com/joseph-ayodele/agm-extractor/internal/fields"
	"github.com/joseph-ayodele/agm-extractor/internal/segment"
)

// DirectorMarker starts every director block.
var DirectorMarker = segment.MustMarker("Individual:")

var (
	reDirectorFor       = fields.MustPattern("Director Votes For", fields.Integer)
	reDirectorAgainst   = fields.MustPattern("Director Votes Against", fields.Integer)
	reDirectorAbstained = fields.MustPattern("Director Votes Abstained", fields.Integer)
	reDirectorWithheld  = fields.MustPattern("Director Votes Withheld", fields.Integer)
	reDirectorBroker    = fields.MustPattern("Director Votes Broker-Non-Votes", fields.IntegerOrSentinel)
)

// Director is one director election result. Absent fields are "".
type Director struct {
	ElectionYear   string `json:"Director Election Year"`
	Individual     string `json:"Individual"`
	VotesFor       string `json:"Director Votes For"`
	VotesAgainst   string `json:"Director Votes Against"`
	VotesAbstained string `json:"Director Votes Abstained"`
	VotesWithheld  string `json:"Director Votes Withheld"`
	BrokerNonVotes string `json:"Director Votes Broker-Non-Votes"`
}

// ParseDirector extracts one director from the text following a director marker.
func ParseDirector(block string) Director {
	return Director{
		ElectionYear:   constants.DirectorElectionYear,
		Individual:     fields.NameLine(block),
		VotesFor:       reDirectorFor.Find(block),
		VotesAgainst:   reDirectorAgainst.Find(block),
		VotesAbstained: reDirectorAbstained.Find(block),
		VotesWithheld:  reDirectorWithheld.Find(block),
		BrokerNonVotes: fields.NormalizeSentinel(reDirectorBroker.Find(block)),
	}
}

// ParseDirectors returns one Director per director block, in document order.
func ParseDirectors(text string) []Director {
	out := []Director{}
	for block := range DirectorMarker.Blocks(text) {
		out = append(out, ParseDirector(block))
	}
	return out
}

// Values returns the fields in director sheet column order.
func (d Director) Values() []string {
	return []string{
		d.ElectionYear,
		d.Individual,
		d.VotesFor,
		d.VotesAgainst,
		d.VotesAbstained,
		d.VotesWithheld,
		d.BrokerNonVotes,
	}
}

// Fields returns the record keyed by column name. Every column is present.
func (d Director) Fields() map[string]string {
	return zip(constants.DirectorColumns(), d.Values())
}
