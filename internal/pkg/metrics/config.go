package metrics

import (
	"net/url"
	"time"
)

// Config содержит настройки метрик.
type Config struct {
	Enabled bool

	// PushgatewayURL — адрес Pushgateway. Пустой адрес отключает Push,
	// метрики при этом собираются в registry.
	PushgatewayURL string

	// JobName — имя job в Pushgateway.
	JobName string

	// Timeout — таймаут запроса к Pushgateway.
	Timeout time.Duration

	// InstanceLabel переопределяет label instance (по умолчанию hostname).
	InstanceLabel string
}

// Validate проверяет конфигурацию включённых метрик.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.PushgatewayURL != "" {
		u, err := url.Parse(c.PushgatewayURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return ErrPushgatewayURLInvalid
		}
	}
	if c.JobName == "" {
		return ErrJobNameRequired
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	return nil
}

// DefaultConfig возвращает конфигурацию по умолчанию (метрики отключены).
func DefaultConfig() Config {
	return Config{
		JobName: "logon",
		Timeout: 10 * time.Second,
	}
}
