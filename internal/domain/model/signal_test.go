package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/thornfield-systems/behavior-guard/internal/domain/model"
)

func TestNormalizeSignalType(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want model.SignalType
	}{
		{"snake case", "mouse_move", model.SignalMouseMove},
		{"camel case", "mouseMove", model.SignalMouseMove},
		{"upper case snake", "KEYSTROKE_DYNAMICS", model.SignalKeystrokeDynamics},
		{"mixed", "FormInteraction", model.SignalFormInteraction},
		{"unrecognized", "banana_peel", model.SignalUnknown},
		{"empty", "", model.SignalUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := model.NormalizeSignalType(tt.in)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeSignalTypeIdempotent(t *testing.T) {
	inputs := []string{"mouse_move", "KeystrokeDynamics", "unknown_thing", "device"}
	for _, in := range inputs {
		once := model.NormalizeSignalType(in)
		twice := model.NormalizeSignalType(string(once))
		assert.Equal(t, once, twice, "normalization must be idempotent for %q", in)
	}
}

func TestVerdictForScore(t *testing.T) {
	tests := []struct {
		score float64
		want  model.Verdict
	}{
		{0, model.VerdictAllow},
		{0.29, model.VerdictAllow},
		{0.3, model.VerdictReview},
		{0.69, model.VerdictReview},
		{0.7, model.VerdictBlock},
		{1.0, model.VerdictBlock},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, model.VerdictForScore(tt.score))
	}
}
