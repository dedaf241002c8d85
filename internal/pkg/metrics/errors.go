package metrics

import "errors"

var (
	// ErrJobNameRequired — не указано имя job.
	ErrJobNameRequired = errors.New("metrics: job name is required")

	// ErrInvalidTimeout — таймаут не положительный.
	ErrInvalidTimeout = errors.New("metrics: timeout must be positive")

	// ErrPushgatewayURLInvalid — URL Pushgateway без scheme или host.
	ErrPushgatewayURLInvalid = errors.New("metrics: pushgateway URL has invalid format")
)
