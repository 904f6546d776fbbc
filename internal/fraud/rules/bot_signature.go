package rules

import (
	"context"
	"fmt"
	"strings"

	"github.com/thornfield-systems/behavior-guard/internal/domain/model"
	"github.com/thornfield-systems/behavior-guard/internal/payload"
)

type BotSignatureRule struct{}

func NewBotSignatureRule() *BotSignatureRule { return &BotSignatureRule{} }

func (r *BotSignatureRule) Name() string    { return "bot_signature_detected" }
func (r *BotSignatureRule) Weight() float64 { return 0.25 }

var botTokens = []string{
	"HeadlessChrome", "PhantomJS", "Selenium", "WebDriver", "Puppeteer",
	"Playwright", "Nightmare", "CasperJS", "SlimerJS", "Zombie", "HtmlUnit",
}

var suspiciousSubstrings = []string{"bot", "crawler", "spider", "scraper", "automation"}

func (r *BotSignatureRule) Evaluate(ctx context.Context, signals []model.Signal) (*model.RiskFactor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	device, ok := firstOfType(signals, model.SignalDevice)
	if !ok {
		return nil, nil
	}
	ua, ok := payload.New(device.Payload).GetString("userAgent")
	if !ok || ua == "" {
		return nil, nil
	}
	lowerUA := strings.ToLower(ua)

	for _, token := range botTokens {
		if strings.Contains(lowerUA, strings.ToLower(token)) {
			return factor(r.Name(), 0.95, r.Weight(), fmt.Sprintf("Bot signature detected: %s", token)), nil
		}
	}

	for _, pattern := range suspiciousSubstrings {
		if strings.Contains(lowerUA, pattern) {
			return factor(r.Name(), 0.7, r.Weight(), fmt.Sprintf("Suspicious user agent pattern: %s", pattern)), nil
		}
	}

	return nil, nil
}
