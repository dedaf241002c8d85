// Package sink доставляет записи перехватчика в транспорты (slog, SQL Server,
// алерты) вне goroutine вызывающего кода.
//
// Запись форматируется сразу при отправке: в очередь попадает готовый текст,
// ссылки на аргументы вызова не сохраняются.
package sink

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Severity — уровень записи.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityError
)

// String возвращает строковое представление Severity.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityError:
		return "ERROR"
	default:
		return fmt.Sprintf("SEVERITY(%d)", int(s))
	}
}

// Level переводит Severity в уровень slog.
func (s Severity) Level() slog.Level {
	if s == SeverityError {
		return slog.LevelError
	}
	return slog.LevelInfo
}

// Ключи атрибутов, которые перехватчик добавляет к записям.
const (
	AttrTraceID   = "trace_id"
	AttrCallID    = "call_id"
	AttrComponent = "component"
	AttrMethod    = "method"
	AttrEvent     = "event"
	AttrKind      = "kind"
	AttrProject   = "project"
)

// Record — запись до форматирования: шаблон с {} и значения.
type Record struct {
	Severity Severity
	Template string
	Values   []any

	// Attrs — пары ключ-значение для структурированных транспортов.
	Attrs []any
}

// Entry — отформатированная запись в очереди.
type Entry struct {
	Time     time.Time
	Severity Severity
	Message  string
	Attrs    []any
}

// Attr возвращает строковое значение атрибута key или "".
func (e Entry) Attr(key string) string {
	for i := 0; i+1 < len(e.Attrs); i += 2 {
		if k, ok := e.Attrs[i].(string); ok && k == key {
			if s, ok := e.Attrs[i+1].(string); ok {
				return s
			}
			return fmt.Sprint(e.Attrs[i+1])
		}
	}
	return ""
}

// Sink принимает записи. Методы не блокируются на транспорте и не
// возвращают ошибок: сбои доставки учитываются внутри реализации.
type Sink interface {
	Info(template string, values ...any)
	Error(template string, values ...any)
	Submit(rec Record)
}

// Writer — транспорт записей.
type Writer interface {
	Write(ctx context.Context, e Entry) error
	Name() string
}

// NewEntry форматирует rec в момент at.
func NewEntry(rec Record, at time.Time) Entry {
	return Entry{
		Time:     at,
		Severity: rec.Severity,
		Message:  Format(rec.Template, rec.Values...),
		Attrs:    snapshotAttrs(rec.Attrs),
	}
}

// snapshotAttrs копирует атрибуты, приводя составные значения к строке.
func snapshotAttrs(attrs []any) []any {
	if len(attrs) == 0 {
		return nil
	}
	out := make([]any, len(attrs))
	for i, v := range attrs {
		switch v.(type) {
		case nil, string, bool, int, int64, uint64, float64, time.Duration, time.Time:
			out[i] = v
		default:
			out[i] = fmt.Sprint(v)
		}
	}
	return out
}
