package rules

import (
	"context"

	"github.com/thornfield-systems/behavior-guard/internal/domain/model"
	"github.com/thornfield-systems/behavior-guard/internal/payload"
)

type TypingSpeedRule struct{}

func NewTypingSpeedRule() *TypingSpeedRule { return &TypingSpeedRule{} }

func (r *TypingSpeedRule) Name() string    { return "typing_speed_anomaly" }
func (r *TypingSpeedRule) Weight() float64 { return 0.15 }

func (r *TypingSpeedRule) Evaluate(ctx context.Context, signals []model.Signal) (*model.RiskFactor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for i, s := range signals {
		if s.Type != model.SignalKeystrokeDynamics {
			continue
		}
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if v, present := s.Payload["estimatedWpm"]; !present || v == nil {
			continue
		}

		wpmVal := payload.New(s.Payload).GetDouble("estimatedWpm", 0)
		switch {
		case wpmVal > 150:
			score := 0.6 + (wpmVal-150)/200
			if score > 0.95 {
				score = 0.95
			}
			return factor(r.Name(), score, r.Weight(), "Superhuman typing speed"), nil
		case wpmVal > 120:
			score := 0.3 + (wpmVal-120)/100
			return factor(r.Name(), score, r.Weight(), "Very fast typing"), nil
		default:
			return nil, nil
		}
	}

	return nil, nil
}
