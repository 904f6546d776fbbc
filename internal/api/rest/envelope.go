package rest

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/thornfield-systems/behavior-guard/internal/domain/validation"
	"github.com/thornfield-systems/behavior-guard/internal/ratelimit"
)

// envelope is the uniform JSON response shape for every endpoint.
type envelope struct {
	Success bool           `json:"success"`
	Data    interface{}    `json:"data,omitempty"`
	Error   *envelopeError `json:"error,omitempty"`
	Meta    envelopeMeta   `json:"meta"`
}

type envelopeError struct {
	Code    string                      `json:"code"`
	Message string                      `json:"message"`
	Details validation.FieldErrors      `json:"details,omitempty"`
}

type envelopeMeta struct {
	RequestID string          `json:"requestId,omitempty"`
	Timestamp string          `json:"timestamp"`
	RateLimit *envelopeLimits `json:"rateLimit,omitempty"`
}

type envelopeLimits struct {
	Limit     int    `json:"limit"`
	Remaining int     `json:"remaining"`
	ResetAt   string `json:"resetAt,omitempty"`
}

func newMeta(requestID string, rl *ratelimit.Result) envelopeMeta {
	meta := envelopeMeta{RequestID: requestID, Timestamp: time.Now().UTC().Format(time.RFC3339)}
	if rl != nil {
		limits := &envelopeLimits{Limit: rl.Limit, Remaining: rl.Remaining}
		if !rl.Allowed {
			limits.ResetAt = time.Now().UTC().Add(rl.RetryAfter).Format(time.RFC3339)
		}
		meta.RateLimit = limits
	}
	return meta
}

func writeSuccess(w http.ResponseWriter, status int, data interface{}, requestID string, rl *ratelimit.Result) {
	writeJSON(w, status, envelope{Success: true, Data: data, Meta: newMeta(requestID, rl)})
}

func writeFailure(w http.ResponseWriter, resp errorResponse, requestID string) {
	writeJSON(w, resp.status, envelope{
		Success: false,
		Error:   &envelopeError{Code: resp.code, Message: resp.message, Details: resp.details},
		Meta:    newMeta(requestID, nil),
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
