package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// SignalType is the closed taxonomy of behavioral telemetry kinds.
type SignalType string

const (
	SignalMouseMove          SignalType = "mouse_move"
	SignalMouseClick         SignalType = "mouse_click"
	SignalKeystroke          SignalType = "keystroke"
	SignalKeystrokeDynamics  SignalType = "keystroke_dynamics"
	SignalScroll             SignalType = "scroll"
	SignalTouch              SignalType = "touch"
	SignalVisibility         SignalType = "visibility"
	SignalFocus              SignalType = "focus"
	SignalPaste              SignalType = "paste"
	SignalDevice             SignalType = "device"
	SignalPerformance        SignalType = "performance"
	SignalFingerprint        SignalType = "fingerprint"
	SignalFormInteraction    SignalType = "form_interaction"
	SignalAccelerometer      SignalType = "accelerometer"
	SignalGyroscope          SignalType = "gyroscope"
	SignalAppLifecycle       SignalType = "app_lifecycle"
	SignalJailbreakDetection SignalType = "jailbreak_detection"
	SignalRootDetection      SignalType = "root_detection"
	SignalUnknown            SignalType = "unknown"
)

// knownSignalTypes indexes the taxonomy by its normalized form for
// constant-time recognition regardless of wire casing convention.
var knownSignalTypes = map[string]SignalType{
	normalizeKey("mouse_move"):          SignalMouseMove,
	normalizeKey("mouse_click"):         SignalMouseClick,
	normalizeKey("keystroke"):           SignalKeystroke,
	normalizeKey("keystroke_dynamics"):  SignalKeystrokeDynamics,
	normalizeKey("scroll"):              SignalScroll,
	normalizeKey("touch"):               SignalTouch,
	normalizeKey("visibility"):          SignalVisibility,
	normalizeKey("focus"):               SignalFocus,
	normalizeKey("paste"):               SignalPaste,
	normalizeKey("device"):              SignalDevice,
	normalizeKey("performance"):         SignalPerformance,
	normalizeKey("fingerprint"):         SignalFingerprint,
	normalizeKey("form_interaction"):    SignalFormInteraction,
	normalizeKey("accelerometer"):       SignalAccelerometer,
	normalizeKey("gyroscope"):           SignalGyroscope,
	normalizeKey("app_lifecycle"):       SignalAppLifecycle,
	normalizeKey("jailbreak_detection"): SignalJailbreakDetection,
	normalizeKey("root_detection"):      SignalRootDetection,
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.ReplaceAll(s, "_", ""))
}

// NormalizeSignalType folds snake_case and camelCase wire values onto the
// canonical taxonomy, mapping anything unrecognized to SignalUnknown.
// Idempotent: NormalizeSignalType(string(NormalizeSignalType(x))) == NormalizeSignalType(x).
func NormalizeSignalType(raw string) SignalType {
	if t, ok := knownSignalTypes[normalizeKey(raw)]; ok {
		return t
	}
	return SignalUnknown
}

// Signal is an immutable behavioral measurement belonging to a session.
type Signal struct {
	ID        uuid.UUID              `json:"id"`
	SessionID uuid.UUID              `json:"sessionId"`
	Type      SignalType             `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Payload   map[string]interface{} `json:"payload"`
}

// SignalInput is the wire shape of one element of a signals batch, before
// timestamp/type normalization and ID assignment.
type SignalInput struct {
	Type      string                 `json:"type"`
	Timestamp int64                  `json:"timestamp"`
	Payload   map[string]interface{} `json:"payload"`
}

// AppendSignalsRequest is the body of POST /api/v1/sessions/{id}/signals.
type AppendSignalsRequest struct {
	SessionID uuid.UUID     `json:"sessionId"`
	Signals   []SignalInput `json:"signals"`
}
