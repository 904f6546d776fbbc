// Package evaluator combines the rule engine and an ML scorer into a
// single confidence score and verdict per session.
package evaluator

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/thornfield-systems/behavior-guard/internal/domain/model"
	"github.com/thornfield-systems/behavior-guard/internal/fraud/engine"
	"github.com/thornfield-systems/behavior-guard/internal/fraud/mlscorer"
)

// Service is the interface instrumentation decorators wrap.
type Service interface {
	Evaluate(ctx context.Context, sessionID uuid.UUID, signals []model.Signal) (*model.FraudAnalysis, error)
}

// Evaluator produces a FraudAnalysis from a session's signals.
type Evaluator struct {
	engine       *engine.Engine
	scorer       mlscorer.Scorer
	modelVersion string
}

func New(ruleEngine *engine.Engine, scorer mlscorer.Scorer, modelVersion string) *Evaluator {
	return &Evaluator{engine: ruleEngine, scorer: scorer, modelVersion: modelVersion}
}

// Evaluate runs the rule engine and, if configured, the ML scorer, then
// aggregates their risk factors into a weighted confidence score and
// verdict. Cancellation mid-evaluation returns an error with no analysis.
func (e *Evaluator) Evaluate(ctx context.Context, sessionID uuid.UUID, signals []model.Signal) (*model.FraudAnalysis, error) {
	factors, err := e.engine.Evaluate(ctx, signals)
	if err != nil {
		return nil, err
	}

	if e.scorer != nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		mlFactors, err := e.scorer.Score(ctx, signals)
		if err != nil {
			return nil, err
		}
		factors = append(factors, mlFactors...)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	score := weightedScore(factors)

	return &model.FraudAnalysis{
		SessionID:       sessionID,
		Verdict:         model.VerdictForScore(score),
		ConfidenceScore: score,
		RiskFactors:     factors,
		ModelVersion:    e.modelVersion,
		EvaluatedAt:     time.Now().UTC(),
	}, nil
}

func weightedScore(factors []model.RiskFactor) float64 {
	var totalWeight, weightedSum float64
	for _, f := range factors {
		totalWeight += f.Weight
		weightedSum += f.Score * f.Weight
	}
	if totalWeight == 0 {
		return 0
	}
	return weightedSum / totalWeight
}
