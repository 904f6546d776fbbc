package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	domainErrors "github.com/thornfield-systems/behavior-guard/internal/domain/errors"
	"github.com/thornfield-systems/behavior-guard/internal/domain/model"
	"github.com/thornfield-systems/behavior-guard/internal/domain/validation"
	"github.com/thornfield-systems/behavior-guard/internal/fraud/evaluator"
	"github.com/thornfield-systems/behavior-guard/internal/infrastructure/config"
	"github.com/thornfield-systems/behavior-guard/internal/metrics"
	"github.com/thornfield-systems/behavior-guard/internal/ratelimit"
	"github.com/thornfield-systems/behavior-guard/internal/storage"
)

const version = "1.0.0"

// Handlers implements the HTTP surface over the ingestion core and
// evaluator. Every method is safe to call concurrently.
type Handlers struct {
	sessions  storage.SessionStore
	signals   storage.SignalStore
	analyses  storage.AnalysisStore
	limiter   ratelimit.Limiter
	evaluator evaluator.Service
	metrics   *metrics.Registry
	cfg       *config.Config
	logger    *slog.Logger
}

func NewHandlers(sessions storage.SessionStore, signals storage.SignalStore, analyses storage.AnalysisStore, limiter ratelimit.Limiter, eval evaluator.Service, reg *metrics.Registry, cfg *config.Config, logger *slog.Logger) *Handlers {
	return &Handlers{sessions: sessions, signals: signals, analyses: analyses, limiter: limiter, evaluator: eval, metrics: reg, cfg: cfg, logger: logger}
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, healthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   version,
	}, requestIDFrom(r.Context()), nil)
}

func (h *Handlers) CreateSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestIDFrom(ctx)

	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, validationFailure(validation.FieldErrors{"_": {"malformed JSON body"}}), requestID)
		return
	}

	createReq := model.CreateSessionRequest{ClientID: req.ClientID, DeviceFingerprint: req.DeviceFingerprint, Metadata: req.Metadata}
	if errs := validation.CreateSession(createReq); !errs.Empty() {
		writeFailure(w, validationFailure(errs), requestID)
		return
	}

	session, err := h.sessions.Create(ctx, createReq)
	if err != nil {
		h.fail(w, ctx, err, requestID)
		return
	}
	h.metrics.SessionsCreatedCounter.Add(ctx, 1)
	h.metrics.AdjustActiveSessions(1)

	writeSuccess(w, http.StatusCreated, createSessionResponse{
		SessionID: session.ID.String(),
		CreatedAt: session.CreatedAt.Format(time.RFC3339),
	}, requestID, nil)
}

func (h *Handlers) AppendSignals(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestIDFrom(ctx)

	sessionID, err := parseSessionID(r)
	if err != nil {
		writeFailure(w, validationFailure(validation.FieldErrors{"sessionId": {"must be a valid UUID"}}), requestID)
		return
	}

	exists, err := h.sessions.Exists(ctx, sessionID)
	if err != nil {
		h.fail(w, ctx, err, requestID)
		return
	}
	if !exists {
		h.fail(w, ctx, domainErrors.ErrSessionNotFound, requestID)
		return
	}

	var rlResult *ratelimit.Result
	if h.cfg.RateLimit.Enabled {
		res, err := h.limiter.Check(ctx, sessionID)
		if err != nil {
			h.fail(w, ctx, err, requestID)
			return
		}
		rlResult = &res
		h.metrics.RecordRateLimitDecision(ctx, res.Allowed)
		if !res.Allowed {
			writeJSON(w, http.StatusTooManyRequests, envelope{
				Success: false,
				Error:   &envelopeError{Code: "RATE_LIMIT_EXCEEDED", Message: rateLimitMessage(res)},
				Meta:    newMeta(requestID, rlResult),
			})
			return
		}
	}

	var req appendSignalsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, validationFailure(validation.FieldErrors{"_": {"malformed JSON body"}}), requestID)
		return
	}

	if errs := validation.AppendSignals(req.Signals); !errs.Empty() {
		writeFailure(w, validationFailure(errs), requestID)
		return
	}

	signals := toSignals(sessionID, req.Signals)
	if err := h.signals.Append(ctx, sessionID, signals); err != nil {
		h.fail(w, ctx, err, requestID)
		return
	}
	h.metrics.RecordSignalsIngested(ctx, len(signals))

	total, err := h.signals.CountBySession(ctx, sessionID)
	if err != nil {
		h.fail(w, ctx, err, requestID)
		return
	}

	writeSuccess(w, http.StatusOK, appendSignalsResponse{
		SessionID:       sessionID.String(),
		SignalsReceived: len(signals),
		TotalSignals:    total,
	}, requestID, rlResult)
}

func (h *Handlers) CompleteSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestIDFrom(ctx)

	sessionID, err := parseSessionID(r)
	if err != nil {
		writeFailure(w, validationFailure(validation.FieldErrors{"sessionId": {"must be a valid UUID"}}), requestID)
		return
	}

	exists, err := h.sessions.Exists(ctx, sessionID)
	if err != nil {
		h.fail(w, ctx, err, requestID)
		return
	}
	if !exists {
		h.fail(w, ctx, domainErrors.ErrSessionNotFound, requestID)
		return
	}

	snapshot, err := h.signals.GetBySession(ctx, sessionID)
	if err != nil {
		h.fail(w, ctx, err, requestID)
		return
	}

	analysis, err := h.evaluator.Evaluate(ctx, sessionID, snapshot)
	if err != nil {
		h.fail(w, ctx, err, requestID)
		return
	}
	if err := h.analyses.Save(ctx, analysis); err != nil {
		h.fail(w, ctx, err, requestID)
		return
	}

	session, err := h.sessions.Complete(ctx, sessionID)
	if err != nil {
		h.fail(w, ctx, err, requestID)
		return
	}
	h.metrics.AdjustActiveSessions(-1)

	writeSuccess(w, http.StatusOK, completeSessionResponse{
		SessionID:         sessionID.String(),
		CompletedAt:       session.CompletedAt.Format(time.RFC3339),
		SignalCount:       len(snapshot),
		AnalysisAvailable: true,
	}, requestID, nil)
}

func (h *Handlers) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestIDFrom(ctx)

	sessionID, err := parseSessionID(r)
	if err != nil {
		writeFailure(w, validationFailure(validation.FieldErrors{"sessionId": {"must be a valid UUID"}}), requestID)
		return
	}

	exists, err := h.sessions.Exists(ctx, sessionID)
	if err != nil {
		h.fail(w, ctx, err, requestID)
		return
	}
	if !exists {
		h.fail(w, ctx, domainErrors.ErrSessionNotFound, requestID)
		return
	}

	analysis, err := h.analyses.GetBySession(ctx, sessionID)
	if err != nil {
		h.fail(w, ctx, err, requestID)
		return
	}
	if analysis == nil {
		h.fail(w, ctx, domainErrors.ErrAnalysisNotReady, requestID)
		return
	}

	writeSuccess(w, http.StatusOK, analysis, requestID, nil)
}

func (h *Handlers) Analyze(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestIDFrom(ctx)

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, validationFailure(validation.FieldErrors{"_": {"malformed JSON body"}}), requestID)
		return
	}

	if errs := validation.AppendSignals(req.Signals); !errs.Empty() {
		writeFailure(w, validationFailure(errs), requestID)
		return
	}

	sessionID := req.SessionID
	if sessionID == uuid.Nil {
		sessionID = uuid.New()
	}
	signals := toSignals(sessionID, req.Signals)

	analysis, err := h.evaluator.Evaluate(ctx, sessionID, signals)
	if err != nil {
		h.fail(w, ctx, err, requestID)
		return
	}

	writeSuccess(w, http.StatusOK, analysis, requestID, nil)
}

// DebugSignals is only mounted when the server is configured for the
// development environment.
func (h *Handlers) DebugSignals(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestIDFrom(ctx)

	sessionID, err := parseSessionID(r)
	if err != nil {
		writeFailure(w, validationFailure(validation.FieldErrors{"sessionId": {"must be a valid UUID"}}), requestID)
		return
	}

	signals, err := h.signals.GetBySession(ctx, sessionID)
	if err != nil {
		h.fail(w, ctx, err, requestID)
		return
	}
	if len(signals) > 100 {
		signals = signals[:100]
	}

	writeSuccess(w, http.StatusOK, signals, requestID, nil)
}

func (h *Handlers) fail(w http.ResponseWriter, ctx context.Context, err error, requestID string) {
	resp := classifyError(err)
	if resp.status == http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, "request failed", slog.String("requestId", requestID), slog.String("error", err.Error()))
	}
	writeFailure(w, resp, requestID)
}

func toSignals(sessionID uuid.UUID, inputs []model.SignalInput) []model.Signal {
	signals := make([]model.Signal, len(inputs))
	for i, in := range inputs {
		signals[i] = model.Signal{
			ID:        uuid.New(),
			SessionID: sessionID,
			Type:      model.NormalizeSignalType(in.Type),
			Timestamp: time.UnixMilli(in.Timestamp).UTC(),
			Payload:   in.Payload,
		}
	}
	return signals
}

func rateLimitMessage(res ratelimit.Result) string {
	return "rate limit exceeded, retry after " + res.RetryAfter.String()
}
