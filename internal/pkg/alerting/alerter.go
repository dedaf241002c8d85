// Package alerting отправляет алерты о неуспешных перехваченных вызовах
// во внешние системы через HTTP webhook с rate limiting и правилами фильтрации.
package alerting

import (
	"context"
	"strings"
	"time"
)

// Severity определяет уровень критичности алерта.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityCritical
)

// String возвращает строковое представление Severity.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// ParseSeverity конвертирует строку в Severity. Неизвестное значение даёт SeverityInfo.
func ParseSeverity(s string) Severity {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "WARNING":
		return SeverityWarning
	case "CRITICAL":
		return SeverityCritical
	default:
		return SeverityInfo
	}
}

// Alert описывает неуспешный вызов.
type Alert struct {
	// Code — тип отказа (IllegalArgument, panic, ...); ключ rate limiting.
	Code string

	Component string
	Method    string

	// Message — отрендеренный текст error-записи (аргументы уже замаскированы).
	Message string

	TraceID   string
	Timestamp time.Time
	Severity  Severity
}

// Alerter отправляет алерты.
//
// Send всегда возвращает nil: ошибки доставки логируются, а недоступность
// внешней системы не должна влиять на запись логов.
type Alerter interface {
	Send(ctx context.Context, alert Alert) error
}
