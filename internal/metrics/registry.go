package metrics

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Registry holds the OpenTelemetry instruments for the ingestion, rule
// evaluation, rate limiting and HTTP surfaces.
type Registry struct {
	meter metric.Meter

	SessionsCreatedCounter metric.Int64Counter
	SignalsIngestedCounter metric.Int64Counter
	SignalBatchSize        metric.Int64Histogram

	AnalysisDuration   metric.Float64Histogram
	AnalysesCounter    metric.Int64Counter
	RiskFactorCounter  metric.Int64Counter
	ActiveSessionGauge metric.Int64ObservableGauge

	RateLimitAllowedCounter metric.Int64Counter
	RateLimitDeniedCounter  metric.Int64Counter

	APIRequestDuration metric.Float64Histogram
	APIRequestCounter  metric.Int64Counter

	mu            sync.RWMutex
	activeSession int64
}

// NewRegistry creates a new metrics registry with all instruments bound
// to the given meter name.
func NewRegistry(meterName string) (*Registry, error) {
	meter := otel.Meter(meterName)
	r := &Registry{meter: meter}

	if err := r.initIngestionMetrics(); err != nil {
		return nil, err
	}
	if err := r.initEvaluationMetrics(); err != nil {
		return nil, err
	}
	if err := r.initRateLimitMetrics(); err != nil {
		return nil, err
	}
	if err := r.initAPIMetrics(); err != nil {
		return nil, err
	}

	return r, nil
}

func (r *Registry) initIngestionMetrics() error {
	var err error

	r.SessionsCreatedCounter, err = r.meter.Int64Counter(
		"behaviorguard.session.created_total",
		metric.WithDescription("Total number of sessions created"),
	)
	if err != nil {
		return err
	}

	r.SignalsIngestedCounter, err = r.meter.Int64Counter(
		"behaviorguard.signal.ingested_total",
		metric.WithDescription("Total number of behavioral signals ingested"),
	)
	if err != nil {
		return err
	}

	r.SignalBatchSize, err = r.meter.Int64Histogram(
		"behaviorguard.signal.batch_size",
		metric.WithDescription("Number of signals per append request"),
		metric.WithExplicitBucketBoundaries(1, 5, 10, 25, 50, 100, 250, 500, 1000),
	)
	return err
}

func (r *Registry) initEvaluationMetrics() error {
	var err error

	r.AnalysisDuration, err = r.meter.Float64Histogram(
		"behaviorguard.analysis.duration",
		metric.WithDescription("Fraud analysis duration in milliseconds"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1, 5, 10, 50, 100, 500, 1000),
	)
	if err != nil {
		return err
	}

	r.AnalysesCounter, err = r.meter.Int64Counter(
		"behaviorguard.analysis.completed_total",
		metric.WithDescription("Total number of completed analyses, by verdict"),
	)
	if err != nil {
		return err
	}

	r.RiskFactorCounter, err = r.meter.Int64Counter(
		"behaviorguard.analysis.risk_factor_total",
		metric.WithDescription("Total number of risk factors fired, by rule"),
	)
	if err != nil {
		return err
	}

	r.ActiveSessionGauge, err = r.meter.Int64ObservableGauge(
		"behaviorguard.session.active",
		metric.WithDescription("Number of sessions currently open"),
		metric.WithInt64Callback(func(ctx context.Context, o metric.Int64Observer) error {
			r.mu.RLock()
			defer r.mu.RUnlock()
			o.Observe(r.activeSession)
			return nil
		}),
	)
	return err
}

func (r *Registry) initRateLimitMetrics() error {
	var err error

	r.RateLimitAllowedCounter, err = r.meter.Int64Counter(
		"behaviorguard.ratelimit.allowed_total",
		metric.WithDescription("Total number of requests admitted by the rate limiter"),
	)
	if err != nil {
		return err
	}

	r.RateLimitDeniedCounter, err = r.meter.Int64Counter(
		"behaviorguard.ratelimit.denied_total",
		metric.WithDescription("Total number of requests denied by the rate limiter"),
	)
	return err
}

func (r *Registry) initAPIMetrics() error {
	var err error

	r.APIRequestDuration, err = r.meter.Float64Histogram(
		"behaviorguard.api.request_duration",
		metric.WithDescription("API request duration in milliseconds"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(1, 5, 10, 50, 100, 500, 1000, 5000),
	)
	if err != nil {
		return err
	}

	r.APIRequestCounter, err = r.meter.Int64Counter(
		"behaviorguard.api.request_total",
		metric.WithDescription("Total number of API requests"),
	)
	return err
}

// AdjustActiveSessions changes the open-session count by delta; delta is
// +1 on CreateSession and -1 on CompleteSession.
func (r *Registry) AdjustActiveSessions(delta int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.activeSession += delta
}

// RecordSignalsIngested records a single append-signals request.
func (r *Registry) RecordSignalsIngested(ctx context.Context, count int) {
	r.SignalsIngestedCounter.Add(ctx, int64(count))
	r.SignalBatchSize.Record(ctx, int64(count))
}

// RecordAnalysis records the outcome of a completed fraud evaluation.
func (r *Registry) RecordAnalysis(ctx context.Context, durationMS float64, verdict string, riskFactorNames []string) {
	attrs := []attribute.KeyValue{attribute.String("verdict", verdict)}
	r.AnalysisDuration.Record(ctx, durationMS, metric.WithAttributes(attrs...))
	r.AnalysesCounter.Add(ctx, 1, metric.WithAttributes(attrs...))

	for _, name := range riskFactorNames {
		r.RiskFactorCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("rule", name)))
	}
}

// RecordRateLimitDecision records whether the rate limiter admitted a request.
func (r *Registry) RecordRateLimitDecision(ctx context.Context, allowed bool) {
	if allowed {
		r.RateLimitAllowedCounter.Add(ctx, 1)
		return
	}
	r.RateLimitDeniedCounter.Add(ctx, 1)
}

// RecordAPIRequest records a completed HTTP request.
func (r *Registry) RecordAPIRequest(ctx context.Context, durationMS float64, method, path string, statusCode int) {
	attrs := []attribute.KeyValue{
		attribute.String("method", method),
		attribute.String("path", path),
		attribute.Int("status_code", statusCode),
	}
	r.APIRequestDuration.Record(ctx, durationMS, metric.WithAttributes(attrs...))
	r.APIRequestCounter.Add(ctx, 1, metric.WithAttributes(attrs...))
}
