package rules

import (
	"context"
	"math"
	"sort"

	"github.com/thornfield-systems/behavior-guard/internal/domain/model"
	"github.com/thornfield-systems/behavior-guard/internal/payload"
)

type MousePatternRule struct{}

func NewMousePatternRule() *MousePatternRule { return &MousePatternRule{} }

func (r *MousePatternRule) Name() string    { return "mouse_pattern_anomaly" }
func (r *MousePatternRule) Weight() float64 { return 0.1 }

type point struct{ x, y float64 }

func (r *MousePatternRule) Evaluate(ctx context.Context, signals []model.Signal) (*model.RiskFactor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	moves := byType(signals, model.SignalMouseMove)
	if len(moves) < 20 {
		return nil, nil
	}
	sort.Slice(moves, func(i, j int) bool { return moves[i].Timestamp.Before(moves[j].Timestamp) })

	points := make([]point, len(moves))
	for i, m := range moves {
		p := payload.New(m.Payload)
		points[i] = point{x: p.GetDouble("x", 0), y: p.GetDouble("y", 0)}
	}

	straightLine := 0
	gridSnapped := 0
	for i := range points {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if i >= 2 {
			p1, p2, p3 := points[i-2], points[i-1], points[i]
			cross := (p2.y-p1.y)*(p3.x-p2.x) - (p3.y-p2.y)*(p2.x-p1.x)
			if math.Abs(cross) < 1.0 {
				straightLine++
			}
		}
		if math.Mod(points[i].x, 10) < 1 && math.Mod(points[i].y, 10) < 1 {
			gridSnapped++
		}
	}

	best := 0.0
	reason := ""

	triples := len(points) - 2
	if triples > 0 && float64(straightLine)/float64(triples) > 0.8 {
		if 0.7 > best {
			best, reason = 0.7, "Too many straight-line movements"
		}
	}

	if float64(gridSnapped)/float64(len(points)) > 0.5 {
		if 0.5 > best {
			best, reason = 0.5, "Grid-snapping detected"
		}
	}

	if best == 0 {
		return nil, nil
	}
	return factor(r.Name(), best, r.Weight(), reason), nil
}
