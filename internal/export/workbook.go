package export

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/agm-extractor/constants"
	"github.com/joseph-ayodele/agm-extractor/internal/votes"
)

// DefaultFileName is the download name used for generated workbooks.
const DefaultFileName = "agm_data.xlsx"

// ContentTypeXLSX is the MIME type of the generated workbook.
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Service renders extracted records into XLSX and JSON documents.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// WorkbookXLSX returns an XLSX workbook (as bytes) with a "Proposal Sheet" and a
// "Non-Proposal Sheet". Each sheet has a header row followed by one row per record.
func (s *Service) WorkbookXLSX(proposals []votes.Proposal, directors []votes.Director) ([]byte, error) {
	var buf bytes.Buffer
	if err := s.WriteWorkbook(&buf, proposals, directors); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteWorkbook streams the workbook to w.
func (s *Service) WriteWorkbook(w io.Writer, proposals []votes.Proposal, directors []votes.Director) error {
	start := time.Now()

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Warn("export.xlsx.close", "err", err)
		}
	}()

	proposalRows := make([][]string, 0, len(proposals))
	for _, p := range proposals {
		proposalRows = append(proposalRows, p.Values())
	}
	directorRows := make([][]string, 0, len(directors))
	for _, d := range directors {
		directorRows = append(directorRows, d.Values())
	}

	// The default "Sheet1" becomes the proposal sheet so it stays first and active.
	if err := f.SetSheetName(f.GetSheetName(0), constants.ProposalSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeSheet(f, constants.ProposalSheet, constants.ProposalColumns(), proposalRows); err != nil {
		return err
	}
	if _, err := f.NewSheet(constants.DirectorSheet); err != nil {
		return fmt.Errorf("new sheet %q: %w", constants.DirectorSheet, err)
	}
	if err := writeSheet(f, constants.DirectorSheet, constants.DirectorColumns(), directorRows); err != nil {
		return err
	}
	if index, err := f.GetSheetIndex(constants.ProposalSheet); err == nil {
		f.SetActiveSheet(index)
	}

	// Widen a few columns
	_ = f.SetColWidth(constants.ProposalSheet, "A", "A", 20) // year
	_ = f.SetColWidth(constants.ProposalSheet, "B", "B", 40) // outcome
	_ = f.SetColWidth(constants.ProposalSheet, "C", "C", 60) // proposal text
	_ = f.SetColWidth(constants.ProposalSheet, "D", "J", 18) // category, votes
	_ = f.SetColWidth(constants.DirectorSheet, "A", "A", 14) // year
	_ = f.SetColWidth(constants.DirectorSheet, "B", "B", 32) // individual
	_ = f.SetColWidth(constants.DirectorSheet, "C", "G", 18) // votes

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"proposal_rows", len(proposals),
		"director_rows", len(directors),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// writeSheet writes the header on row 1 and data rows from row 2. Values are
// written as strings so "1,234" keeps its separators.
func writeSheet(f *excelize.File, sheet string, header []string, rows [][]string) error {
	write := func(row int, values []string) error {
		for i, v := range values {
			cell, err := excelize.CoordinatesToCellName(i+1, row)
			if err != nil {
				return err
			}
			if err := f.SetCellStr(sheet, cell, v); err != nil {
				return fmt.Errorf("set %s!%s: %w", sheet, cell, err)
			}
		}
		return nil
	}

	if err := write(1, header); err != nil {
		return err
	}
	for i, r := range rows {
		if err := write(i+2, r); err != nil {
			return err
		}
	}
	return nil
}
