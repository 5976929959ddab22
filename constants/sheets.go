package constants

// Workbook sheet names.
const (
	ProposalSheet = "Proposal Sheet"
	DirectorSheet = "Non-Proposal Sheet"
)

// DirectorElectionYear is stamped on every director record; it is not read from the document.
const DirectorElectionYear = "2024"

// Proposal sheet columns, in output order.
const (
	ColProposalYear        = "Proposal Proxy Year"
	ColResolutionOutcome   = "Resolution Outcome"
	ColProposalText        = "Proposal Text"
	ColMgmtCategory        = "Mgmt. Proposal Category"
	ColVotesFor            = "Vote Results - For"
	ColVotesAgainst        = "Vote Results - Against"
	ColVotesAbstained      = "Vote Results - Abstained"
	ColVotesWithheld       = "Vote Results - Withheld"
	ColVotesBrokerNonVotes = "Vote Results - Broker Non-Votes"
	ColVoteResultsTotal    = "Proposal Vote Results Total"
)

// Director sheet columns, in output order.
const (
	ColElectionYear           = "Director Election Year"
	ColIndividual             = "Individual"
	ColDirectorFor            = "Director Votes For"
	ColDirectorAgainst        = "Director Votes Against"
	ColDirectorAbstained      = "Director Votes Abstained"
	ColDirectorWithheld       = "Director Votes Withheld"
	ColDirectorBrokerNonVotes = "Director Votes Broker-Non-Votes"
)

var proposalColumns = []string{
	ColProposalYear,
	ColResolutionOutcome,
	ColProposalText,
	ColMgmtCategory,
	ColVotesFor,
	ColVotesAgainst,
	ColVotesAbstained,
	ColVotesWithheld,
	ColVotesBrokerNonVotes,
	ColVoteResultsTotal,
}

var directorColumns = []string{
	ColElectionYear,
	ColIndividual,
	ColDirectorFor,
	ColDirectorAgainst,
	ColDirectorAbstained,
	ColDirectorWithheld,
	ColDirectorBrokerNonVotes,
}

// ProposalColumns returns a copy of the proposal sheet header.
func ProposalColumns() []string {
	return append([]string(nil), proposalColumns...)
}

// DirectorColumns returns a copy of the director sheet header.
func DirectorColumns() []string {
	return append([]string(nil), directorColumns...)
}
