package instrumentation

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thornfield-systems/behavior-guard/internal/domain/model"
	"github.com/thornfield-systems/behavior-guard/internal/infrastructure/telemetry"
	"github.com/thornfield-systems/behavior-guard/internal/metrics"
)

type stubEvaluator struct {
	analysis *model.FraudAnalysis
	err      error
}

func (s *stubEvaluator) Evaluate(ctx context.Context, sessionID uuid.UUID, signals []model.Signal) (*model.FraudAnalysis, error) {
	return s.analysis, s.err
}

func TestEvaluatorTracedService_PassesThroughSuccessfulResult(t *testing.T) {
	reg, err := metrics.NewRegistry("test-instrumentation-success")
	require.NoError(t, err)

	analysis := &model.FraudAnalysis{
		SessionID:       uuid.New(),
		Verdict:         model.VerdictAllow,
		ConfidenceScore: 0.1,
		RiskFactors:     []model.RiskFactor{{Name: "mouse_velocity", Score: 0.1, Weight: 0.15}},
	}
	svc := NewEvaluatorTracedService(&stubEvaluator{analysis: analysis}, telemetry.NewOpenTelemetryTracer("test"), reg)

	got, err := svc.Evaluate(context.Background(), analysis.SessionID, nil)
	require.NoError(t, err)
	assert.Same(t, analysis, got)
}

func TestEvaluatorTracedService_PropagatesError(t *testing.T) {
	reg, err := metrics.NewRegistry("test-instrumentation-error")
	require.NoError(t, err)

	wantErr := errors.New("boom")
	svc := NewEvaluatorTracedService(&stubEvaluator{err: wantErr}, telemetry.NewOpenTelemetryTracer("test"), reg)

	_, err = svc.Evaluate(context.Background(), uuid.New(), nil)
	assert.Equal(t, wantErr, err)
}
