package logging

import (
	"context"
	"log/slog"
	"time"
)

// NopLogger игнорирует все сообщения. Используется в тестах и как
// значение по умолчанию для необязательного диагностического логгера.
type NopLogger struct{}

// NewNopLogger создаёт Logger, который игнорирует все сообщения.
func NewNopLogger() Logger {
	return &NopLogger{}
}

func (n *NopLogger) Debug(_ string, _ ...any) {}
func (n *NopLogger) Info(_ string, _ ...any)  {}
func (n *NopLogger) Warn(_ string, _ ...any)  {}
func (n *NopLogger) Error(_ string, _ ...any) {}

// With возвращает тот же NopLogger: атрибуты всё равно игнорируются.
func (n *NopLogger) With(_ ...any) Logger {
	return n
}

// Emit ничего не делает.
func (n *NopLogger) Emit(_ context.Context, _ time.Time, _ slog.Level, _ string, _ ...any) {}

// OrNop возвращает l или NopLogger, если l == nil.
func OrNop(l Logger) Logger {
	if l == nil {
		return NewNopLogger()
	}
	return l
}
