package rules

import (
	"context"

	"github.com/thornfield-systems/behavior-guard/internal/domain/model"
	"github.com/thornfield-systems/behavior-guard/internal/payload"
)

type FormInteractionRule struct{}

func NewFormInteractionRule() *FormInteractionRule { return &FormInteractionRule{} }

func (r *FormInteractionRule) Name() string    { return "form_interaction_anomaly" }
func (r *FormInteractionRule) Weight() float64 { return 0.15 }

func (r *FormInteractionRule) Evaluate(ctx context.Context, signals []model.Signal) (*model.RiskFactor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	forms := byType(signals, model.SignalFormInteraction)
	if len(forms) == 0 {
		return nil, nil
	}

	best := 0.0
	reason := ""

	var fillTimes []float64
	var corrections []float64
	pasteCount := 0

	for i, f := range forms {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		p := payload.New(f.Payload)

		t := p.GetDouble("timeToFill", 0)
		if t == 0 {
			t = p.GetDouble("timeToFillMs", 0)
		}
		if t > 0 {
			fillTimes = append(fillTimes, t)
		}

		corrections = append(corrections, p.GetDouble("corrections", -1))

		if p.GetBool("pasteDetected", false) {
			pasteCount++
		}
	}

	if len(fillTimes) > 0 {
		mn := min(fillTimes)
		if mn < 300 {
			if 0.85 > best {
				best, reason = 0.85, "Fast form fill"
			}
		} else if mean(fillTimes) < 500 {
			if 0.6 > best {
				best, reason = 0.6, "Fast form fill"
			}
		}
	}

	if len(corrections) >= 4 {
		allZero := true
		for _, c := range corrections {
			if c > 0 {
				allZero = false
				break
			}
		}
		if allZero {
			if 0.4 > best {
				best, reason = 0.4, "No typing corrections across all fields"
			}
		}
	}

	if len(forms) > 2 && pasteCount == len(forms) {
		if 0.5 > best {
			best, reason = 0.5, "All fields filled via paste"
		}
	}

	if best == 0 {
		return nil, nil
	}
	return factor(r.Name(), best, r.Weight(), reason), nil
}
