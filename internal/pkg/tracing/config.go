package tracing

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

// Ошибки Validate. Проверяются только при Enabled.
var (
	ErrTracingEndpointRequired      = errors.New("tracing: не задан OTLP endpoint")
	ErrTracingEndpointInvalidFormat = errors.New("tracing: endpoint должен быть URL с host, например http://jaeger:4318")
	ErrTracingServiceNameRequired   = errors.New("tracing: не задано имя сервиса")
	ErrTracingTimeoutInvalid        = errors.New("tracing: таймаут экспорта должен быть больше нуля")
	ErrTracingSamplingRateInvalid   = errors.New("tracing: доля сэмплирования вне [0, 1]")
)

// Config описывает экспорт span'ов перехваченных вызовов.
// Каждый вызов даёт один span "Компонент.метод"; вложенные вызовы
// становятся дочерними span'ами того же trace.
type Config struct {
	Enabled bool

	// Endpoint — OTLP HTTP приёмник (Jaeger, Tempo, collector).
	Endpoint string
	Insecure bool
	Timeout  time.Duration

	// ServiceName, Version и Environment попадают в resource.
	ServiceName string
	Version     string
	Environment string

	// SamplingRate — доля сохраняемых trace: 1 — все, 0 — ни одного.
	SamplingRate float64
}

// Validate проверяет конфигурацию. Выключенный трейсинг всегда валиден.
func (c *Config) Validate() error {
	switch {
	case !c.Enabled:
		return nil
	case c.Endpoint == "":
		return ErrTracingEndpointRequired
	case c.otlpHost() == "":
		return ErrTracingEndpointInvalidFormat
	case c.ServiceName == "":
		return ErrTracingServiceNameRequired
	case c.Timeout <= 0:
		return ErrTracingTimeoutInvalid
	case c.SamplingRate < 0 || c.SamplingRate > 1:
		return fmt.Errorf("%w: %g", ErrTracingSamplingRateInvalid, c.SamplingRate)
	}
	return nil
}

// otlpHost возвращает host:port из Endpoint или "", если URL без host.
func (c *Config) otlpHost() string {
	u, err := url.Parse(c.Endpoint)
	if err != nil {
		return ""
	}
	return u.Host
}

// DefaultConfig — трейсинг выключен, при включении сэмплируются все вызовы.
func DefaultConfig() Config {
	return Config{
		ServiceName:  "logon",
		Environment:  "production",
		Timeout:      5 * time.Second,
		SamplingRate: 1,
	}
}
