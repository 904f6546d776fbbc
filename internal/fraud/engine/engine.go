// Package engine composes the rule bank into a single ordered evaluation
// pass over a session's signals.
package engine

import (
	"context"

	"github.com/thornfield-systems/behavior-guard/internal/domain/model"
	"github.com/thornfield-systems/behavior-guard/internal/fraud/rules"
	"github.com/thornfield-systems/behavior-guard/internal/infrastructure/telemetry"
)

// Engine holds an ordered, immutable sequence of rules.
type Engine struct {
	rules  []rules.Rule
	tracer telemetry.TracerInterface
}

// New builds an engine over the given rules. A nil or empty list selects
// the default nine rules in their defined order.
func New(ruleSet []rules.Rule) *Engine {
	if len(ruleSet) == 0 {
		ruleSet = rules.Default()
	}
	return &Engine{
		rules:  ruleSet,
		tracer: telemetry.NewOpenTelemetryTracer("behaviorguard.fraud_engine"),
	}
}

// Evaluate runs every rule serially against the signal snapshot, checking
// cancellation between rules, and returns the non-nil results in rule
// order. Each rule runs inside its own span so a slow or failing rule is
// visible on its own in a trace.
func (e *Engine) Evaluate(ctx context.Context, signals []model.Signal) ([]model.RiskFactor, error) {
	factors := make([]model.RiskFactor, 0, len(e.rules))
	for _, rule := range e.rules {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		ruleCtx, span := telemetry.StartRuleSpan(ctx, e.tracer, rule.Name())
		factor, err := rule.Evaluate(ruleCtx, signals)
		telemetry.WithSpanError(span, err)
		span.End()
		if err != nil {
			return nil, err
		}
		if factor != nil {
			factors = append(factors, *factor)
		}
	}
	return factors, nil
}
