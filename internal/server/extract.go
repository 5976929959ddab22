package server

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/agm-extractor/internal/common"
	"github.com/joseph-ayodele/agm-extractor/internal/export"
	"github.com/joseph-ayodele/agm-extractor/internal/pipeline"
)

const (
	formFieldFile = "file"
	headerNotice  = "X-AGM-Notice"
	headerRunID   = "X-AGM-Run-ID"
	multipartMem  = 8 << 20
)

// extract handles POST /v1/extract: one uploaded document in, one workbook
// (or its JSON form with ?format=json) out.
func (s *Server) extract(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	format := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	if format != "" && format != "xlsx" && format != "json" {
		s.writeError(w, r, http.StatusBadRequest, "format must be xlsx or json",
			common.NewAppError(common.CodeInvalidInput, fmt.Sprintf("format %q", format), common.ErrInvalidInput))
		return
	}

	// multipart framing needs a little room beyond the document itself
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+(1<<20))
	if err := r.ParseMultipartForm(multipartMem); err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			status = http.StatusBadRequest
		}
		s.writeError(w, r, status, "invalid multipart upload", err)
		return
	}
	file, header, err := r.FormFile(formFieldFile)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, "file is required",
			common.NewAppError(common.CodeInvalidInput, err.Error(), common.ErrInvalidInput))
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, "cannot read upload", err)
		return
	}

	v := common.NewValidator().
		Field("file.name", header.Filename, common.Required, common.SupportedDocument).
		Field("file", content, common.Required, common.MaxBytes(s.cfg.MaxUploadBytes))
	if err := v.Error(); err != nil {
		status := http.StatusBadRequest
		if int64(len(content)) > s.cfg.MaxUploadBytes {
			status = http.StatusRequestEntityTooLarge
		}
		s.writeError(w, r, status, "invalid upload", err)
		return
	}

	res, err := s.proc.Process(ctx, pipeline.Document{Name: header.Filename, Content: content})
	if res.RunID != uuid.Nil {
		w.Header().Set(headerRunID, res.RunID.String())
	}
	if err != nil {
		s.writeError(w, r, statusFor(err), "extraction failed", err)
		return
	}
	for _, n := range res.Notices {
		w.Header().Add(headerNotice, n)
	}

	var (
		body        bytes.Buffer
		contentType string
	)
	if format == "json" {
		err = s.exporter.WriteJSON(&body, res.Proposals, res.Directors)
		contentType = export.ContentTypeJSON
	} else {
		err = s.exporter.WriteWorkbook(&body, res.Proposals, res.Directors)
		contentType = export.ContentTypeXLSX
	}
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, "export failed",
			common.NewAppError(common.CodeInternal, "export", errors.Join(common.ErrInternal, err)))
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileNameFor(format)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body.Bytes())
}
