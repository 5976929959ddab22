package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/joseph-ayodele/agm-extractor/internal/common"
	"github.com/joseph-ayodele/agm-extractor/internal/entity"
)

const maxListLimit = 500

type runsResponse struct {
	Runs []*entity.Run `json:"runs"`
}

// listRuns handles GET /v1/runs?limit=N.
func (s *Server) listRuns(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxListLimit {
			s.writeError(w, r, http.StatusBadRequest, "limit must be between 1 and 500", nil)
			return
		}
		limit = n
	}
	runs, err := s.runs.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, statusFor(err), "list runs failed", err)
		return
	}
	writeJSON(w, http.StatusOK, runsResponse{Runs: runs})
}

// getRun handles GET /v1/runs/{id}.
func (s *Server) getRun(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, "id must be a UUID",
			common.NewAppError(common.CodeInvalidInput, err.Error(), common.ErrInvalidInput))
		return
	}
	run, err := s.runs.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, statusFor(err), "get run failed", err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}
