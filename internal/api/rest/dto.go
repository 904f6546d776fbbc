package rest

import (
	"github.com/google/uuid"

	"github.com/thornfield-systems/behavior-guard/internal/domain/model"
)

type createSessionRequest struct {
	ClientID          string                 `json:"clientId"`
	DeviceFingerprint string                 `json:"deviceFingerprint"`
	Metadata          map[string]interface{} `json:"metadata,omitempty"`
}

type createSessionResponse struct {
	SessionID string `json:"sessionId"`
	CreatedAt string `json:"createdAt"`
}

type appendSignalsRequest struct {
	SessionID uuid.UUID          `json:"sessionId"`
	Signals   []model.SignalInput `json:"signals"`
}

type appendSignalsResponse struct {
	SessionID       string `json:"sessionId"`
	SignalsReceived int    `json:"signalsReceived"`
	TotalSignals    int    `json:"totalSignals"`
}

type completeSessionResponse struct {
	SessionID        string `json:"sessionId"`
	CompletedAt      string `json:"completedAt"`
	SignalCount      int    `json:"signalCount"`
	AnalysisAvailable bool   `json:"analysisAvailable"`
}

type analyzeRequest struct {
	SessionID uuid.UUID           `json:"sessionId"`
	Signals   []model.SignalInput `json:"signals"`
}

type healthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}
