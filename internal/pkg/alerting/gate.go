package alerting

import (
	"context"

	"github.com/Kargones/logon/internal/pkg/logging"
)

// GatedAlerter применяет правила и rate limiting перед передачей алерта каналу.
type GatedAlerter struct {
	next    Alerter
	rules   *RulesEngine
	limiter *RateLimiter
	logger  logging.Logger
}

// NewGatedAlerter создаёт GatedAlerter. rules и limiter могут быть nil.
func NewGatedAlerter(next Alerter, rules *RulesEngine, limiter *RateLimiter, logger logging.Logger) *GatedAlerter {
	return &GatedAlerter{next: next, rules: rules, limiter: limiter, logger: logging.OrNop(logger)}
}

// Send проверяет правила, затем rate limit, затем отправляет. Всегда возвращает nil.
func (g *GatedAlerter) Send(ctx context.Context, alert Alert) error {
	if g.rules != nil && !g.rules.Evaluate(alert) {
		g.logger.Debug("алерт отклонён правилами",
			"code", alert.Code,
			"component", alert.Component,
			"severity", alert.Severity.String(),
		)
		return nil
	}
	if g.limiter != nil && !g.limiter.Allow(rateKey(alert)) {
		g.logger.Debug("алерт подавлен rate limiter", "code", alert.Code, "method", alert.Method)
		return nil
	}
	_ = g.next.Send(ctx, alert) //nolint:errcheck // канал логирует ошибки сам
	return nil
}
