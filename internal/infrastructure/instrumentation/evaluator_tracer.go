package instrumentation

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/thornfield-systems/behavior-guard/internal/domain/model"
	"github.com/thornfield-systems/behavior-guard/internal/fraud/evaluator"
	"github.com/thornfield-systems/behavior-guard/internal/infrastructure/telemetry"
	"github.com/thornfield-systems/behavior-guard/internal/metrics"
)

// EvaluatorTracedService wraps a fraud evaluator with OpenTelemetry tracing.
type EvaluatorTracedService struct {
	service evaluator.Service
	tracer  telemetry.TracerInterface
	metrics *metrics.Registry
}

// NewEvaluatorTracedService creates a new instrumented evaluator.
func NewEvaluatorTracedService(service evaluator.Service, tracer telemetry.TracerInterface, metrics *metrics.Registry) *EvaluatorTracedService {
	return &EvaluatorTracedService{service: service, tracer: tracer, metrics: metrics}
}

// Evaluate instruments a single session evaluation.
func (s *EvaluatorTracedService) Evaluate(ctx context.Context, sessionID uuid.UUID, signals []model.Signal) (*model.FraudAnalysis, error) {
	ctx, span := s.tracer.StartSpanWithAttributes(ctx, "evaluator.Evaluate", map[string]interface{}{
		"session.id":   sessionID.String(),
		"signal.count": len(signals),
		"span.kind":    "internal",
		"component":    "fraud_evaluator",
	})
	defer span.End()

	start := time.Now()
	analysis, err := s.service.Evaluate(ctx, sessionID, signals)
	if err != nil {
		s.tracer.RecordError(span, err, "fraud evaluation failed")
		return nil, err
	}

	s.tracer.SetAttributes(span, map[string]interface{}{
		"fraud.verdict":          string(analysis.Verdict),
		"fraud.confidence_score": analysis.ConfidenceScore,
		"fraud.risk_factors":     len(analysis.RiskFactors),
	})

	if s.metrics != nil {
		names := make([]string, len(analysis.RiskFactors))
		for i, f := range analysis.RiskFactors {
			names[i] = f.Name
		}
		s.metrics.RecordAnalysis(ctx, float64(time.Since(start).Microseconds())/1000, string(analysis.Verdict), names)
	}

	return analysis, nil
}
