// Package votes turns AGM result text into proposal and director records.
package votes

import (
	"github.com/joseph-ayodele/agm-extractor/constants"
	"github.com/joseph-ayodele/agm-extractor/internal/fields"
	"github.com/joseph-ayodele/agm-extractor/internal/segment"
)

// ProposalMarker starts every proposal block.
var ProposalMarker = segment.MustMarker("Proposal Proxy Year:")

var (
	reProposalFor       = fields.MustPattern("For votes", fields.Integer)
	reProposalAgainst   = fields.MustPattern("Against votes", fields.Integer)
	reProposalAbstained = fields.MustPattern("Abstained votes", fields.Integer)
	reProposalWithheld  = fields.MustPattern("Withheld votes", fields.Integer)
	reProposalBroker    = fields.MustPattern("Broker Non-Votes", fields.IntegerOrSentinel)
	reProposalText      = fields.MustPattern("Proposal Text", fields.Quoted)
)

// Proposal is one shareholder proposal result. Absent fields are "".
type Proposal struct {
	ProxyYear         string `json:"Proposal Proxy Year"`
	ResolutionOutcome string `json:"Resolution Outcome"`
	Text              string `json:"Proposal Text"`
	MgmtCategory      string `json:"Mgmt. Proposal Category"`
	VotesFor          string `json:"Vote Results - For"`
	VotesAgainst      string `json:"Vote Results - Against"`
	VotesAbstained    string `json:"Vote Results - Abstained"`
	VotesWithheld     string `json:"Vote Results - Withheld"`
	BrokerNonVotes    string `json:"Vote Results - Broker Non-Votes"`
	VoteResultsTotal  string `json:"Proposal Vote Results Total"`
}

// ParseProposal extracts one proposal from the text following a proposal marker.
// MgmtCategory and VoteResultsTotal are never filled.
func ParseProposal(block string) Proposal {
	p := Proposal{
		ProxyYear:      fields.LeadingYear(block),
		Text:           reProposalText.Find(block),
		VotesFor:       reProposalFor.Find(block),
		VotesAgainst:   reProposalAgainst.Find(block),
		VotesAbstained: reProposalAbstained.Find(block),
		VotesWithheld:  reProposalWithheld.Find(block),
		BrokerNonVotes: fields.NormalizeSentinel(reProposalBroker.Find(block)),
	}
	p.ResolutionOutcome = fields.Outcome(p.VotesFor, p.VotesAgainst)
	return p
}

// ParseProposals returns one Proposal per proposal block, in document order.
func ParseProposals(text string) []Proposal {
	out := []Proposal{}
	for block := range ProposalMarker.Blocks(text) {
		out = append(out, ParseProposal(block))
	}
	return out
}

// Values returns the fields in proposal sheet column order.
func (p Proposal) Values() []string {
	return []string{
		p.ProxyYear,
		p.ResolutionOutcome,
		p.Text,
		p.MgmtCategory,
		p.VotesFor,
		p.VotesAgainst,
		p.VotesAbstained,
		p.VotesWithheld,
		p.BrokerNonVotes,
		p.VoteResultsTotal,
	}
}

// Fields returns the record keyed by column name. Every column is present.
func (p Proposal) Fields() map[string]string {
	return zip(constants.ProposalColumns(), p.Values())
}

func zip(cols, vals []string) map[string]string {
	m := make(map[string]string, len(cols))
	for i, c := range cols {
		m[c] = vals[i]
	}
	return m
}
