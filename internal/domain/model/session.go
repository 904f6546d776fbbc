package model

import (
	"time"

	"github.com/google/uuid"
)

// Session is the envelope that groups signals from one user interaction window.
type Session struct {
	ID                uuid.UUID              `json:"id"`
	ClientID          string                 `json:"clientId"`
	DeviceFingerprint string                 `json:"deviceFingerprint"`
	CreatedAt         time.Time              `json:"createdAt"`
	CompletedAt       *time.Time             `json:"completedAt,omitempty"`
	Metadata          map[string]interface{} `json:"metadata,omitempty"`
}

// CreateSessionRequest is the body of POST /api/v1/sessions.
type CreateSessionRequest struct {
	ClientID          string                 `json:"clientId"`
	DeviceFingerprint string                 `json:"deviceFingerprint"`
	Metadata          map[string]interface{} `json:"metadata,omitempty"`
}

// IsCompleted reports whether the session has been marked complete.
func (s *Session) IsCompleted() bool {
	return s.CompletedAt != nil
}
