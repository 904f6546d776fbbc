package evaluator_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thornfield-systems/behavior-guard/internal/domain/model"
	"github.com/thornfield-systems/behavior-guard/internal/fraud/engine"
	"github.com/thornfield-systems/behavior-guard/internal/fraud/evaluator"
)

type noopScorer struct{}

func (noopScorer) Score(ctx context.Context, signals []model.Signal) ([]model.RiskFactor, error) {
	return nil, nil
}

func TestEvaluator_NoFactorsYieldsAllowZero(t *testing.T) {
	eval := evaluator.New(engine.New(nil), noopScorer{}, "1.0.0-dev")

	// An empty snapshot fires none of the default rules; any non-empty one
	// without device/fingerprint signals fires session_pattern_anomaly.
	signals := []model.Signal{}
	analysis, err := eval.Evaluate(context.Background(), uuid.New(), signals)
	require.NoError(t, err)
	assert.Empty(t, analysis.RiskFactors)
	assert.Equal(t, 0.0, analysis.ConfidenceScore)
	assert.Equal(t, model.VerdictAllow, analysis.Verdict)
	assert.Equal(t, "1.0.0-dev", analysis.ModelVersion)
}

func TestEvaluator_RespectsContextCancellation(t *testing.T) {
	eval := evaluator.New(engine.New(nil), noopScorer{}, "1.0.0-dev")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := eval.Evaluate(ctx, uuid.New(), nil)
	assert.Error(t, err)
}

func TestEvaluator_HeadlessChromeScenarioProducesReviewOrBlock(t *testing.T) {
	eval := evaluator.New(engine.New(nil), noopScorer{}, "1.0.0-dev")

	signals := []model.Signal{
		{ID: uuid.New(), Type: model.SignalDevice, Timestamp: time.Now(), Payload: map[string]interface{}{
			"userAgent":   "Mozilla/5.0 HeadlessChrome/120.0",
			"webdriver":   true,
			"pluginCount": 0.0,
		}},
		{ID: uuid.New(), Type: model.SignalFingerprint, Timestamp: time.Now(), Payload: map[string]interface{}{
			"canvas":        "",
			"webgl":         "0",
			"webglRenderer": "SwiftShader",
		}},
	}

	analysis, err := eval.Evaluate(context.Background(), uuid.New(), signals)
	require.NoError(t, err)

	var names []string
	for _, f := range analysis.RiskFactors {
		names = append(names, f.Name)
	}
	assert.Contains(t, names, "bot_signature_detected")
	assert.Contains(t, names, "headless_browser_detected")
	assert.GreaterOrEqual(t, analysis.ConfidenceScore, 0.5)
	assert.Contains(t, []model.Verdict{model.VerdictReview, model.VerdictBlock}, analysis.Verdict)
}
