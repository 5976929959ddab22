package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/joseph-ayodele/agm-extractor/internal/common"
)

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	Detail    string `json:"detail,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	resp := errorResponse{Error: message, RequestID: common.RequestIDFromContext(r.Context())}
	if err != nil {
		resp.Code = common.CodeOf(err)
		resp.Detail = err.Error()
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("http.error", "request_id", resp.RequestID, "status", status, "err", err)
	}
	writeJSON(w, status, resp)
}

// statusFor maps an error chain to an HTTP status code.
func statusFor(err error) int {
	var mbe *http.MaxBytesError
	switch {
	case errors.As(err, &mbe):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	switch common.CodeOf(err) {
	case common.CodeInvalidInput:
		return http.StatusBadRequest
	case common.CodeUnsupportedFormat:
		return http.StatusUnsupportedMediaType
	case common.CodeUnreadable:
		return http.StatusUnprocessableEntity
	case common.CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
