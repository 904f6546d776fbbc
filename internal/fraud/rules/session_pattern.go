package rules

import (
	"context"

	"github.com/thornfield-systems/behavior-guard/internal/domain/model"
)

type SessionPatternRule struct{}

func NewSessionPatternRule() *SessionPatternRule { return &SessionPatternRule{} }

func (r *SessionPatternRule) Name() string    { return "session_pattern_anomaly" }
func (r *SessionPatternRule) Weight() float64 { return 0.1 }

func (r *SessionPatternRule) Evaluate(ctx context.Context, signals []model.Signal) (*model.RiskFactor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(signals) == 0 {
		return nil, nil
	}

	best := 0.0
	reason := ""

	_, hasDevice := firstOfType(signals, model.SignalDevice)
	_, hasFingerprint := firstOfType(signals, model.SignalFingerprint)
	if !hasDevice || !hasFingerprint {
		best, reason = 0.7, "Missing device/fingerprint signals"
	}

	if len(signals) > 10 {
		hasMouse := false
		for _, s := range signals {
			if s.Type == model.SignalMouseMove || s.Type == model.SignalMouseClick {
				hasMouse = true
				break
			}
		}
		if !hasMouse && 0.4 > best {
			best, reason = 0.4, "No mouse activity detected"
		}
	}

	minTS := signals[0].Timestamp
	maxTS := signals[0].Timestamp
	for i, s := range signals {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if s.Timestamp.Before(minTS) {
			minTS = s.Timestamp
		}
		if s.Timestamp.After(maxTS) {
			maxTS = s.Timestamp
		}
	}
	duration := maxTS.Sub(minTS)

	if duration.Milliseconds() < 1000 && len(signals) > 20 {
		if 0.8 > best {
			best, reason = 0.8, "Rapid session"
		}
	}

	if duration.Seconds() > 0 {
		rate := float64(len(signals)) / duration.Seconds()
		if rate > 50 && 0.6 > best {
			best, reason = 0.6, "High signal rate"
		}
	}

	if best == 0 {
		return nil, nil
	}
	return factor(r.Name(), best, r.Weight(), reason), nil
}
