package rules

import (
	"context"

	"github.com/thornfield-systems/behavior-guard/internal/domain/model"
	"github.com/thornfield-systems/behavior-guard/internal/payload"
)

type MouseVelocityRule struct{}

func NewMouseVelocityRule() *MouseVelocityRule { return &MouseVelocityRule{} }

func (r *MouseVelocityRule) Name() string    { return "mouse_velocity_anomaly" }
func (r *MouseVelocityRule) Weight() float64 { return 0.15 }

func (r *MouseVelocityRule) Evaluate(ctx context.Context, signals []model.Signal) (*model.RiskFactor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	moves := byType(signals, model.SignalMouseMove)
	if len(moves) < 10 {
		return nil, nil
	}

	velocities := make([]float64, 0, len(moves))
	for i, m := range moves {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		v := payload.New(m.Payload).GetDouble("velocity", 0)
		if v > 0 {
			velocities = append(velocities, v)
		}
	}
	if len(velocities) < 1 {
		return nil, nil
	}

	mn := mean(velocities)
	mx := max(velocities)
	sd := stdDev(velocities, mn)
	cv := 0.0
	if mn > 0 {
		cv = sd / mn
	}

	best := 0.0
	reason := ""

	if mx > 50 {
		score := 0.5 + (mx-50)/100
		if score > 0.9 {
			score = 0.9
		}
		if score > best {
			best, reason = score, "Extreme velocity"
		}
	} else if mx > 35 {
		if 0.3 > best {
			best, reason = 0.3, "High velocity"
		}
	}

	if cv < 0.1 && len(velocities) >= 50 {
		if 0.6 > best {
			best, reason = 0.6, "Robotic consistency"
		}
	}

	if best == 0 {
		return nil, nil
	}
	return factor(r.Name(), best, r.Weight(), reason), nil
}
