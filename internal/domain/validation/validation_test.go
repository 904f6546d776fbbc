package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/thornfield-systems/behavior-guard/internal/domain/model"
	"github.com/thornfield-systems/behavior-guard/internal/domain/validation"
)

func TestCreateSession_ValidPasses(t *testing.T) {
	errs := validation.CreateSession(model.CreateSessionRequest{ClientID: "c1", DeviceFingerprint: "fp1"})
	assert.True(t, errs.Empty())
}

func TestCreateSession_MissingClientID(t *testing.T) {
	errs := validation.CreateSession(model.CreateSessionRequest{DeviceFingerprint: "fp1"})
	assert.False(t, errs.Empty())
	assert.Contains(t, errs, "clientId")
}

func TestCreateSession_ClientIDTooLong(t *testing.T) {
	long := make([]byte, 257)
	for i := range long {
		long[i] = 'a'
	}
	errs := validation.CreateSession(model.CreateSessionRequest{ClientID: string(long), DeviceFingerprint: "fp1"})
	assert.Contains(t, errs, "clientId")
}

func TestAppendSignals_BatchTooLargeRejected(t *testing.T) {
	signals := make([]model.SignalInput, 1001)
	errs := validation.AppendSignals(signals)
	assert.False(t, errs.Empty())
	assert.Contains(t, errs, "signals")
}

func TestAppendSignals_EmptyBatchRejected(t *testing.T) {
	errs := validation.AppendSignals(nil)
	assert.False(t, errs.Empty())
}

func TestAppendSignals_ValidBatchPasses(t *testing.T) {
	signals := []model.SignalInput{
		{Type: "mouse_move", Timestamp: 1000, Payload: map[string]interface{}{"x": 1.0}},
	}
	errs := validation.AppendSignals(signals)
	assert.True(t, errs.Empty())
}

func TestAppendSignals_PerFieldErrors(t *testing.T) {
	signals := []model.SignalInput{
		{Type: "", Timestamp: 0, Payload: nil},
	}
	errs := validation.AppendSignals(signals)
	assert.False(t, errs.Empty())
	assert.Contains(t, errs, "signals[0].type")
	assert.Contains(t, errs, "signals[0].timestamp")
	assert.Contains(t, errs, "signals[0].payload")
}
