// Package rules implements the fraud detection rule bank: nine pure,
// stateless detectors that each inspect a session's signals and optionally
// emit one weighted risk factor.
package rules

import (
	"context"

	"github.com/thornfield-systems/behavior-guard/internal/domain/model"
)

// Rule is a pure detector over a session's signal snapshot. Implementations
// must not mutate signals or retain the slice past the call, and must be
// safe to invoke concurrently with themselves on different inputs.
type Rule interface {
	Name() string
	Weight() float64
	Evaluate(ctx context.Context, signals []model.Signal) (*model.RiskFactor, error)
}

// Default returns the nine rules in the fixed order the spec defines them.
func Default() []Rule {
	return []Rule{
		NewMouseVelocityRule(),
		NewMousePatternRule(),
		NewKeystrokeDynamicsRule(),
		NewTypingSpeedRule(),
		NewBotSignatureRule(),
		NewHeadlessBrowserRule(),
		NewFormInteractionRule(),
		NewSessionPatternRule(),
		NewFingerprintAnomalyRule(),
	}
}

func factor(name string, score, weight float64, reason string) *model.RiskFactor {
	return &model.RiskFactor{Name: name, Score: score, Weight: weight, Description: reason}
}

func byType(signals []model.Signal, t model.SignalType) []model.Signal {
	out := make([]model.Signal, 0, len(signals))
	for _, s := range signals {
		if s.Type == t {
			out = append(out, s)
		}
	}
	return out
}

func firstOfType(signals []model.Signal, t model.SignalType) (model.Signal, bool) {
	for _, s := range signals {
		if s.Type == t {
			return s, true
		}
	}
	return model.Signal{}, false
}
