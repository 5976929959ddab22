package entity

import (
	"time"

	"github.com/google/uuid"
)

// Run represents one extraction run over one document.
type Run struct {
	ID            uuid.UUID  `json:"id"`
	SourceName    string     `json:"source_name"`
	ContentSHA256 string     `json:"content_sha256"`
	Format        string     `json:"format"`
	Method        string     `json:"method,omitempty"`
	Status        string     `json:"status"`
	Pages         int        `json:"pages"`
	Proposals     int        `json:"proposals"`
	Directors     int        `json:"directors"`
	ErrorMessage  string     `json:"error_message,omitempty"`
	StartedAt     time.Time  `json:"started_at"`
	FinishedAt    *time.Time `json:"finished_at,omitempty"`
}
