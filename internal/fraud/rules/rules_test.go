package rules_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thornfield-systems/behavior-guard/internal/domain/model"
	"github.com/thornfield-systems/behavior-guard/internal/fraud/rules"
)

func mkSignal(t model.SignalType, ts time.Time, payload map[string]interface{}) model.Signal {
	return model.Signal{ID: uuid.New(), SessionID: uuid.New(), Type: t, Timestamp: ts, Payload: payload}
}

func TestMouseVelocityRule_BelowThresholdIsNoop(t *testing.T) {
	base := time.Now()
	signals := make([]model.Signal, 9)
	for i := range signals {
		signals[i] = mkSignal(model.SignalMouseMove, base.Add(time.Duration(i)*time.Millisecond), map[string]interface{}{"velocity": 10.0})
	}

	rule := rules.NewMouseVelocityRule()
	factor, err := rule.Evaluate(context.Background(), signals)
	require.NoError(t, err)
	assert.Nil(t, factor, "exactly 9 mouse_move signals must be a no-op")
}

func TestMouseVelocityRule_ExtremeVelocityFires(t *testing.T) {
	base := time.Now()
	signals := make([]model.Signal, 12)
	for i := range signals {
		signals[i] = mkSignal(model.SignalMouseMove, base.Add(time.Duration(i)*time.Millisecond), map[string]interface{}{"velocity": 80.0})
	}

	rule := rules.NewMouseVelocityRule()
	factor, err := rule.Evaluate(context.Background(), signals)
	require.NoError(t, err)
	require.NotNil(t, factor)
	assert.Equal(t, "mouse_velocity_anomaly", factor.Name)
	assert.InDelta(t, 0.8, factor.Score, 0.001)
}

func TestKeystrokeDynamicsRule_RoboticTypingFiresAtPoint9(t *testing.T) {
	base := time.Now()
	signals := make([]model.Signal, 30)
	for i := range signals {
		signals[i] = mkSignal(model.SignalKeystrokeDynamics, base.Add(time.Duration(i)*time.Millisecond), map[string]interface{}{
			"dwellTimeMs":  15.0,
			"flightTimeMs": 10.0,
		})
	}

	rule := rules.NewKeystrokeDynamicsRule()
	factor, err := rule.Evaluate(context.Background(), signals)
	require.NoError(t, err)
	require.NotNil(t, factor)
	assert.Equal(t, 0.9, factor.Score)
}

func TestTypingSpeedRule_SuperhumanWPM(t *testing.T) {
	signals := []model.Signal{
		mkSignal(model.SignalKeystrokeDynamics, time.Now(), map[string]interface{}{"estimatedWpm": 200.0}),
	}

	rule := rules.NewTypingSpeedRule()
	factor, err := rule.Evaluate(context.Background(), signals)
	require.NoError(t, err)
	require.NotNil(t, factor)
	assert.GreaterOrEqual(t, factor.Score, 0.85)
	assert.LessOrEqual(t, factor.Score, 0.95)
}

func TestBotSignatureRule_HeadlessChromeDetected(t *testing.T) {
	signals := []model.Signal{
		mkSignal(model.SignalDevice, time.Now(), map[string]interface{}{
			"userAgent": "Mozilla/5.0 HeadlessChrome/120.0",
		}),
	}

	rule := rules.NewBotSignatureRule()
	factor, err := rule.Evaluate(context.Background(), signals)
	require.NoError(t, err)
	require.NotNil(t, factor)
	assert.Equal(t, 0.95, factor.Score)
}

func TestBotSignatureRule_NormalChromeDoesNotFire(t *testing.T) {
	signals := []model.Signal{
		mkSignal(model.SignalDevice, time.Now(), map[string]interface{}{
			"userAgent": "Mozilla/5.0 (Windows NT 10.0; Win64; x64) Chrome/120.0",
		}),
	}

	rule := rules.NewBotSignatureRule()
	factor, err := rule.Evaluate(context.Background(), signals)
	require.NoError(t, err)
	assert.Nil(t, factor)
}

func TestHeadlessBrowserRule_SwiftShaderAndWebdriverFires(t *testing.T) {
	signals := []model.Signal{
		mkSignal(model.SignalDevice, time.Now(), map[string]interface{}{
			"webdriver":   true,
			"pluginCount": 0.0,
		}),
		mkSignal(model.SignalFingerprint, time.Now(), map[string]interface{}{
			"canvas":        "",
			"webgl":         "0",
			"webglRenderer": "SwiftShader",
		}),
	}

	rule := rules.NewHeadlessBrowserRule()
	factor, err := rule.Evaluate(context.Background(), signals)
	require.NoError(t, err)
	require.NotNil(t, factor)
	assert.Equal(t, 0.95, factor.Score)
}

func TestHeadlessBrowserRule_RealRendererDoesNotFire(t *testing.T) {
	signals := []model.Signal{
		mkSignal(model.SignalDevice, time.Now(), map[string]interface{}{
			"webdriver":   false,
			"pluginCount": 5.0,
		}),
		mkSignal(model.SignalFingerprint, time.Now(), map[string]interface{}{
			"canvas":        "a1b2c3d4e5f6",
			"webgl":         "abc123",
			"webglRenderer": "NVIDIA GeForce RTX 3080",
			"audio":         "xyz",
		}),
	}

	rule := rules.NewHeadlessBrowserRule()
	factor, err := rule.Evaluate(context.Background(), signals)
	require.NoError(t, err)
	assert.Nil(t, factor)
}

func TestFormInteractionRule_ReadsBothTimeToFillKeys(t *testing.T) {
	signals := []model.Signal{
		mkSignal(model.SignalFormInteraction, time.Now(), map[string]interface{}{"timeToFillMs": 100.0}),
	}

	rule := rules.NewFormInteractionRule()
	factor, err := rule.Evaluate(context.Background(), signals)
	require.NoError(t, err)
	require.NotNil(t, factor)
	assert.Equal(t, 0.85, factor.Score)
}

func TestSessionPatternRule_MissingDeviceAndFingerprintFires(t *testing.T) {
	signals := []model.Signal{
		mkSignal(model.SignalMouseMove, time.Now(), map[string]interface{}{}),
	}

	rule := rules.NewSessionPatternRule()
	factor, err := rule.Evaluate(context.Background(), signals)
	require.NoError(t, err)
	require.NotNil(t, factor)
	assert.Equal(t, 0.7, factor.Score)
}

func TestFingerprintAnomalyRule_RequiresBothSignals(t *testing.T) {
	signals := []model.Signal{
		mkSignal(model.SignalFingerprint, time.Now(), map[string]interface{}{}),
	}

	rule := rules.NewFingerprintAnomalyRule()
	factor, err := rule.Evaluate(context.Background(), signals)
	require.NoError(t, err)
	assert.Nil(t, factor)
}

func TestDefault_ReturnsNineRulesInOrder(t *testing.T) {
	all := rules.Default()
	require.Len(t, all, 9)
	names := make([]string, len(all))
	for i, rule := range all {
		names[i] = rule.Name()
	}
	assert.Equal(t, []string{
		"mouse_velocity_anomaly",
		"mouse_pattern_anomaly",
		"keystroke_dynamics_anomaly",
		"typing_speed_anomaly",
		"bot_signature_detected",
		"headless_browser_detected",
		"form_interaction_anomaly",
		"session_pattern_anomaly",
		"fingerprint_anomaly",
	}, names)
}
