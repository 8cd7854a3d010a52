package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	SyncStatusSucceeded = "succeeded"
	SyncStatusFailed    = "failed"
	SyncStatusInvalid   = "invalid"
)

// SyncRun is the recorded outcome of one save of an editing session.
type SyncRun struct {
	ID        uuid.UUID              `json:"id"`
	SessionID string                 `json:"session_id"`
	ResumeID  *int64                 `json:"resume_id,omitempty"`
	Status    string                 `json:"status"`
	Writes    int                    `json:"writes"`
	Failed    int                    `json:"failed"`
	Error     string                 `json:"error,omitempty"`
	Metadata  map[string]interface{} `json:"metadata"`
	CreatedAt time.Time              `json:"created_at"`
}
