package engine_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thornfield-systems/behavior-guard/internal/domain/model"
	"github.com/thornfield-systems/behavior-guard/internal/fraud/engine"
	"github.com/thornfield-systems/behavior-guard/internal/fraud/rules"
)

type stubRule struct {
	name   string
	weight float64
	factor *model.RiskFactor
	err    error
}

func (s stubRule) Name() string    { return s.name }
func (s stubRule) Weight() float64 { return s.weight }
func (s stubRule) Evaluate(ctx context.Context, signals []model.Signal) (*model.RiskFactor, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.factor, nil
}

func TestEngine_NilRulesSelectsDefaultNine(t *testing.T) {
	e := engine.New(nil)
	factors, err := e.Evaluate(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, factors)

	// A lone mouse_move with no device/fingerprint signal is picked up by the
	// default session_pattern_anomaly rule and by no other default rule.
	signals := []model.Signal{{ID: uuid.New(), Type: model.SignalMouseMove, Timestamp: time.Now()}}
	factors, err = e.Evaluate(context.Background(), signals)
	require.NoError(t, err)
	require.Len(t, factors, 1)
	assert.Equal(t, "session_pattern_anomaly", factors[0].Name)
}

func TestEngine_PreservesRuleOrderAndSkipsNoops(t *testing.T) {
	e := engine.New([]rules.Rule{
		stubRule{name: "a", weight: 0.1, factor: &model.RiskFactor{Name: "a", Score: 0.1, Weight: 0.1}},
		stubRule{name: "b", weight: 0.2, factor: nil},
		stubRule{name: "c", weight: 0.3, factor: &model.RiskFactor{Name: "c", Score: 0.3, Weight: 0.3}},
	})

	signals := []model.Signal{{ID: uuid.New(), Type: model.SignalMouseMove, Timestamp: time.Now()}}
	factors, err := e.Evaluate(context.Background(), signals)
	require.NoError(t, err)
	require.Len(t, factors, 2)
	assert.Equal(t, "a", factors[0].Name)
	assert.Equal(t, "c", factors[1].Name)
}

func TestEngine_RulePropagatesError(t *testing.T) {
	boom := errors.New("boom")
	e := engine.New([]rules.Rule{stubRule{name: "a", weight: 0.1, err: boom}})

	_, err := e.Evaluate(context.Background(), nil)
	assert.ErrorIs(t, err, boom)
}

func TestEngine_RespectsContextCancellation(t *testing.T) {
	e := engine.New([]rules.Rule{stubRule{name: "a", weight: 0.1}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Evaluate(ctx, nil)
	assert.Error(t, err)
}
