package alerting

import (
	"net/url"
	"time"
)

// Значения по умолчанию.
const (
	DefaultRateLimitWindow = 5 * time.Minute
	DefaultWebhookTimeout  = 10 * time.Second
	DefaultMaxRetries      = 3
)

// Config содержит настройки алертинга. Используется в NewAlerter.
type Config struct {
	Enabled bool

	// RateLimitWindow — минимальный интервал между алертами с одинаковым ключом.
	RateLimitWindow time.Duration

	Webhook WebhookConfig
	Rules   RulesConfig
}

// WebhookConfig содержит настройки webhook канала.
type WebhookConfig struct {
	URLs    []string
	Headers map[string]string
	Timeout time.Duration

	// MaxRetries — количество повторов для сетевых ошибок и 5xx.
	MaxRetries int
}

// DefaultConfig возвращает конфигурацию по умолчанию. Алертинг отключён.
func DefaultConfig() Config {
	return Config{
		RateLimitWindow: DefaultRateLimitWindow,
		Webhook: WebhookConfig{
			Timeout:    DefaultWebhookTimeout,
			MaxRetries: DefaultMaxRetries,
		},
		Rules: RulesConfig{MinSeverity: SeverityInfo.String()},
	}
}

// Validate проверяет конфигурацию включённого алертинга.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.RateLimitWindow < 0 {
		return ErrRateLimitWindowInvalid
	}
	return c.Webhook.Validate()
}

// Validate проверяет URL и заголовки webhook.
func (w *WebhookConfig) Validate() error {
	if len(w.URLs) == 0 {
		return ErrWebhookURLRequired
	}
	for _, rawURL := range w.URLs {
		u, err := url.Parse(rawURL)
		if err != nil || u.Host == "" {
			return ErrWebhookURLInvalid
		}
		// file://, ftp:// и прочие схемы запрещены.
		if u.Scheme != "http" && u.Scheme != "https" {
			return ErrWebhookURLInvalid
		}
	}
	if w.MaxRetries < 0 {
		return ErrWebhookRetriesInvalid
	}
	for key, value := range w.Headers {
		if key == "" || containsInvalidHeaderChars(key) || containsInvalidHeaderChars(value) {
			return ErrWebhookHeaderInvalid
		}
	}
	return nil
}

// containsInvalidHeaderChars проверяет наличие управляющих символов (RFC 7230).
// HTAB разрешён.
func containsInvalidHeaderChars(s string) bool {
	for _, r := range s {
		if r == 0x09 {
			continue
		}
		if r <= 0x1f || r == 0x7f {
			return true
		}
	}
	return false
}
