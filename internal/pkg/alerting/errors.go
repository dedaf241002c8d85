package alerting

import "errors"

// Ошибки валидации конфигурации.
var (
	ErrWebhookURLRequired     = errors.New("alerting: at least one url is required when alerting is enabled")
	ErrWebhookURLInvalid      = errors.New("alerting: webhook url must be http(s) with a host")
	ErrWebhookHeaderInvalid   = errors.New("alerting: webhook header contains control characters")
	ErrWebhookRetriesInvalid  = errors.New("alerting: maxRetries must not be negative")
	ErrRateLimitWindowInvalid = errors.New("alerting: rateLimitWindow must not be negative")
)
