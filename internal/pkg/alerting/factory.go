package alerting

import (
	"github.com/Kargones/logon/internal/pkg/logging"
)

// NewAlerter создаёт Alerter по конфигурации.
// При enabled=false возвращает NopAlerter, иначе webhook-канал
// за правилами фильтрации и rate limiter.
func NewAlerter(config Config, logger logging.Logger) (Alerter, error) {
	if !config.Enabled {
		return NewNopAlerter(), nil
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	logger = logging.OrNop(logger)

	window := config.RateLimitWindow
	if window == 0 {
		window = DefaultRateLimitWindow
	}
	webhook := NewWebhookAlerter(config.Webhook, logger)
	return NewGatedAlerter(webhook, NewRulesEngine(config.Rules), NewRateLimiter(window), logger), nil
}
