package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/joseph-ayodele/agm-extractor/constants"
	"github.com/joseph-ayodele/agm-extractor/internal/votes"
)

// ContentTypeJSON is the MIME type of the JSON export.
const ContentTypeJSON = "application/json"

// DefaultJSONFileName is the download name used for JSON exports.
const DefaultJSONFileName = "agm_data.json"

// FileNameFor returns the default output name for an export format
// ("xlsx" or "json").
func FileNameFor(format string) string {
	if format == "json" {
		return DefaultJSONFileName
	}
	return DefaultFileName
}

// ResultsJSON returns {"Proposal Sheet": [...], "Non-Proposal Sheet": [...]}
// with records keyed by column name, validated against the results schema.
func (s *Service) ResultsJSON(proposals []votes.Proposal, directors []votes.Director) ([]byte, error) {
	doc := map[string][]map[string]string{
		constants.ProposalSheet: make([]map[string]string, 0, len(proposals)),
		constants.DirectorSheet: make([]map[string]string, 0, len(directors)),
	}
	for _, p := range proposals {
		doc[constants.ProposalSheet] = append(doc[constants.ProposalSheet], p.Fields())
	}
	for _, d := range directors {
		doc[constants.DirectorSheet] = append(doc[constants.DirectorSheet], d.Fields())
	}

	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("json marshal: %w", err)
	}
	if err := ValidateResultsJSON(b); err != nil {
		s.logger.Error("export.json.invalid", "err", err)
		return nil, err
	}
	s.logger.Info("export.json.ok", "proposal_rows", len(proposals), "director_rows", len(directors))
	return b, nil
}

// WriteJSON writes ResultsJSON to w.
func (s *Service) WriteJSON(w io.Writer, proposals []votes.Proposal, directors []votes.Director) error {
	b, err := s.ResultsJSON(proposals, directors)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}
