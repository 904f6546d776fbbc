package rules

import (
	"context"

	"github.com/thornfield-systems/behavior-guard/internal/domain/model"
	"github.com/thornfield-systems/behavior-guard/internal/payload"
)

type KeystrokeDynamicsRule struct{}

func NewKeystrokeDynamicsRule() *KeystrokeDynamicsRule { return &KeystrokeDynamicsRule{} }

func (r *KeystrokeDynamicsRule) Name() string    { return "keystroke_dynamics_anomaly" }
func (r *KeystrokeDynamicsRule) Weight() float64 { return 0.2 }

func (r *KeystrokeDynamicsRule) Evaluate(ctx context.Context, signals []model.Signal) (*model.RiskFactor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	events := byType(signals, model.SignalKeystrokeDynamics)
	if len(events) < 5 {
		return nil, nil
	}

	var dwells, flights []float64
	for i, e := range events {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		p := payload.New(e.Payload)
		if d := p.GetDouble("dwellTimeMs", 0); d > 0 {
			dwells = append(dwells, d)
		}
		if f := p.GetDouble("flightTimeMs", 0); f > 0 {
			flights = append(flights, f)
		}
	}

	best := 0.0
	reason := ""

	if len(dwells) > 0 {
		avgDwell := mean(dwells)
		sdDwell := stdDev(dwells, avgDwell)

		switch {
		case avgDwell < 20:
			if 0.9 > best {
				best, reason = 0.9, "Inhuman typing speed"
			}
		case avgDwell < 40:
			if 0.5 > best {
				best, reason = 0.5, "Suspiciously fast typing"
			}
		}

		if sdDwell < 3 && len(events) > 20 {
			if 0.8 > best {
				best, reason = 0.8, "Robotic consistency"
			}
		} else if sdDwell < 8 && len(events) > 30 {
			if 0.5 > best {
				best, reason = 0.5, "Low variance in timing"
			}
		}
	}

	if len(flights) > 10 {
		avgFlight := mean(flights)
		if avgFlight < 30 {
			if 0.6 > best {
				best, reason = 0.6, "Rapid key transitions"
			}
		}
	}

	if best == 0 {
		return nil, nil
	}
	return factor(r.Name(), best, r.Weight(), reason), nil
}
