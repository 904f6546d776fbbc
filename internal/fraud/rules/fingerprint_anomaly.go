package rules

import (
	"context"
	"math"
	"strings"

	"github.com/thornfield-systems/behavior-guard/internal/domain/model"
	"github.com/thornfield-systems/behavior-guard/internal/payload"
)

type FingerprintAnomalyRule struct{}

func NewFingerprintAnomalyRule() *FingerprintAnomalyRule { return &FingerprintAnomalyRule{} }

func (r *FingerprintAnomalyRule) Name() string    { return "fingerprint_anomaly" }
func (r *FingerprintAnomalyRule) Weight() float64 { return 0.1 }

func (r *FingerprintAnomalyRule) Evaluate(ctx context.Context, signals []model.Signal) (*model.RiskFactor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fingerprint, hasFingerprint := firstOfType(signals, model.SignalFingerprint)
	device, hasDevice := firstOfType(signals, model.SignalDevice)
	if !hasFingerprint || !hasDevice {
		return nil, nil
	}

	fp := payload.New(fingerprint.Payload)
	dev := payload.New(device.Payload)

	best := 0.0

	if _, fpHas := fingerprint.Payload["timezoneOffset"]; fpHas {
		if _, devHas := device.Payload["timezoneOffset"]; devHas {
			fpOffset := fp.GetDouble("timezoneOffset", 0)
			devOffset := dev.GetDouble("timezoneOffset", 0)
			if math.Abs(fpOffset-devOffset) > 60 {
				best = 0.6
			}
		}
	}

	width := dev.GetDouble("screenWidth", -1)
	height := dev.GetDouble("screenHeight", -1)
	switch {
	case width == 0 || height == 0:
		if 0.7 > best {
			best = 0.7
		}
	case (width == 800 && height == 600) || (width == 1 && height == 1):
		if 0.5 > best {
			best = 0.5
		}
	}

	lang, hasLang := dev.GetString("language")
	if hasLang && lang != "" {
		langs, _ := fp.GetString("languages")
		primary := strings.SplitN(lang, "-", 2)[0]
		if !strings.Contains(strings.ToLower(langs), strings.ToLower(primary)) {
			if 0.4 > best {
				best = 0.4
			}
		}
	}

	if best == 0 {
		return nil, nil
	}
	return factor(r.Name(), best, r.Weight(), "Fingerprint/device mismatch"), nil
}
