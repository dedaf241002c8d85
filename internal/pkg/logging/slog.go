package logging

import (
	"context"
	"log/slog"
	"time"
)

// SlogAdapter реализует Logger поверх log/slog.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter оборачивает slog.Logger. nil заменяется на slog.Default().
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogAdapter{logger: logger}
}

func (s *SlogAdapter) Debug(msg string, args ...any) { s.logger.Debug(msg, args...) }
func (s *SlogAdapter) Info(msg string, args ...any)  { s.logger.Info(msg, args...) }
func (s *SlogAdapter) Warn(msg string, args ...any)  { s.logger.Warn(msg, args...) }
func (s *SlogAdapter) Error(msg string, args ...any) { s.logger.Error(msg, args...) }

// With возвращает новый Logger с добавленными атрибутами.
func (s *SlogAdapter) With(args ...any) Logger {
	return &SlogAdapter{logger: s.logger.With(args...)}
}

// Emit записывает сообщение с явно заданным временем.
// Нулевое at заменяется текущим временем.
func (s *SlogAdapter) Emit(ctx context.Context, at time.Time, level slog.Level, msg string, args ...any) {
	if ctx == nil {
		ctx = context.Background()
	}
	h := s.logger.Handler()
	if !h.Enabled(ctx, level) {
		return
	}
	if at.IsZero() {
		at = time.Now()
	}
	r := slog.NewRecord(at, level, msg, 0)
	r.Add(args...)
	_ = h.Handle(ctx, r) //nolint:errcheck // ошибки handler'а некуда репортить
}

// Slog возвращает обёрнутый slog.Logger.
func (s *SlogAdapter) Slog() *slog.Logger {
	return s.logger
}
