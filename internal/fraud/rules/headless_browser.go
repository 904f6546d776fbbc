package rules

import (
	"context"
	"strings"

	"github.com/thornfield-systems/behavior-guard/internal/domain/model"
	"github.com/thornfield-systems/behavior-guard/internal/payload"
)

type HeadlessBrowserRule struct{}

func NewHeadlessBrowserRule() *HeadlessBrowserRule { return &HeadlessBrowserRule{} }

func (r *HeadlessBrowserRule) Name() string    { return "headless_browser_detected" }
func (r *HeadlessBrowserRule) Weight() float64 { return 0.2 }

func missingOrZero(s string) bool {
	return s == "" || s == "0"
}

func (r *HeadlessBrowserRule) Evaluate(ctx context.Context, signals []model.Signal) (*model.RiskFactor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fingerprint, hasFingerprint := firstOfType(signals, model.SignalFingerprint)
	device, hasDevice := firstOfType(signals, model.SignalDevice)
	if !hasFingerprint && !hasDevice {
		return nil, nil
	}

	best := 0.0
	reason := ""
	consider := func(score float64, r2 string) {
		if score > best {
			best, reason = score, r2
		}
	}

	if hasFingerprint {
		fp := payload.New(fingerprint.Payload)

		canvas, _ := fp.GetString("canvas")
		if missingOrZero(canvas) || len(canvas) < 8 {
			consider(0.6, "Missing/invalid canvas fingerprint")
		}

		webgl, _ := fp.GetString("webgl")
		if missingOrZero(webgl) {
			consider(0.5, "Missing WebGL fingerprint")
		}

		renderer, _ := fp.GetString("webglRenderer")
		lowerRenderer := strings.ToLower(renderer)
		if strings.Contains(lowerRenderer, "swiftshader") ||
			(strings.Contains(lowerRenderer, "mesa") && strings.Contains(lowerRenderer, "llvmpipe")) {
			consider(0.7, "Software renderer detected")
		}

		audio, _ := fp.GetString("audio")
		if missingOrZero(audio) {
			consider(0.4, "Missing audio fingerprint")
		}
	}

	if hasDevice {
		dev := payload.New(device.Payload)

		if dev.GetBool("webdriver", false) {
			consider(0.95, "navigator.webdriver is true")
		}

		if dev.GetInt("pluginCount", -1) == 0 {
			consider(0.5, "No browser plugins detected")
		}
	}

	if best == 0 {
		return nil, nil
	}
	return factor(r.Name(), best, r.Weight(), reason), nil
}
