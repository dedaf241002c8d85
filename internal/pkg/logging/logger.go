// Package logging предоставляет интерфейс и реализации для структурированного логирования.
//
// Logger используется двумя способами: как диагностический логгер каждого пакета
// и как основной транспорт записей перехватчика (sink.LoggerWriter).
package logging

import (
	"context"
	"log/slog"
	"time"
)

// Logger определяет интерфейс для структурированного логирования.
// Все методы принимают сообщение и опциональные key-value пары:
//
//	logger.Info("sink закрыт", "dropped", 3)
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)

	// With возвращает Logger с добавленными атрибутами.
	With(args ...any) Logger
}

// Emitter реализуется логгерами, способными записать сообщение с заранее
// известным временем. Sink использует его, чтобы время записи совпадало
// с моментом вызова, а не с моментом обработки очереди.
type Emitter interface {
	Emit(ctx context.Context, at time.Time, level slog.Level, msg string, args ...any)
}
