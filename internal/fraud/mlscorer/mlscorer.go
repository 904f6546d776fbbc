// Package mlscorer defines the pluggable ML scoring contract and a mock
// implementation standing in for a production model.
package mlscorer

import (
	"context"
	"math/rand"

	"github.com/thornfield-systems/behavior-guard/internal/domain/model"
)

// Scorer is the external collaborator contract for ML-based scoring.
// Implementations must be pure with respect to their inputs, cancellable,
// and may emit any number of risk factors (including none).
type Scorer interface {
	Score(ctx context.Context, signals []model.Signal) ([]model.RiskFactor, error)
}

// Mock emits, with ~50% probability, a single anomaly factor when given at
// least one signal. It stands in for a real model until one is wired in.
type Mock struct {
	rand *rand.Rand
}

func NewMock() *Mock {
	return &Mock{rand: rand.New(rand.NewSource(rand.Int63()))}
}

func (m *Mock) Score(ctx context.Context, signals []model.Signal) ([]model.RiskFactor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(signals) == 0 {
		return nil, nil
	}

	if m.rand.Float64() >= 0.5 {
		return nil, nil
	}

	return []model.RiskFactor{{
		Name:        "ml_anomaly_score",
		Score:       m.rand.Float64() * 0.5,
		Weight:      0.4,
		Description: "ML model anomaly detection score (MOCK)",
	}}, nil
}
