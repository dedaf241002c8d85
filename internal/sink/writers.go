package sink

import (
	"context"

	"github.com/Kargones/logon/internal/pkg/alerting"
	"github.com/Kargones/logon/internal/pkg/apperrors"
	"github.com/Kargones/logon/internal/pkg/logging"
)

// LoggerWriter пишет записи в logging.Logger (slog: stderr, stdout или файл).
type LoggerWriter struct {
	logger logging.Logger
}

// NewLoggerWriter создаёт транспорт поверх logger.
func NewLoggerWriter(logger logging.Logger) *LoggerWriter {
	return &LoggerWriter{logger: logging.OrNop(logger)}
}

// Name возвращает имя транспорта для метрик.
func (w *LoggerWriter) Name() string { return "logger" }

// Write пишет запись. Если логгер поддерживает logging.Emitter, время записи
// берётся из Entry, а не из момента обработки очереди.
func (w *LoggerWriter) Write(ctx context.Context, e Entry) error {
	if em, ok := w.logger.(logging.Emitter); ok {
		em.Emit(ctx, e.Time, e.Severity.Level(), e.Message, e.Attrs...)
		return nil
	}
	if e.Severity == SeverityError {
		w.logger.Error(e.Message, e.Attrs...)
	} else {
		w.logger.Info(e.Message, e.Attrs...)
	}
	return nil
}

// AlertWriter пересылает записи об ошибках вызовов в alerting.Alerter.
// Информационные записи пропускаются.
type AlertWriter struct {
	alerter alerting.Alerter
}

// NewAlertWriter создаёт транспорт алертов.
func NewAlertWriter(alerter alerting.Alerter) *AlertWriter {
	if alerter == nil {
		alerter = alerting.NewNopAlerter()
	}
	return &AlertWriter{alerter: alerter}
}

// Name возвращает имя транспорта для метрик.
func (w *AlertWriter) Name() string { return "alerting" }

// Write отправляет алерт для error-записи. Паника цели даёт CRITICAL,
// остальные отказы WARNING.
func (w *AlertWriter) Write(ctx context.Context, e Entry) error {
	if e.Severity != SeverityError {
		return nil
	}
	kind := e.Attr(AttrKind)
	severity := alerting.SeverityWarning
	if kind == apperrors.KindPanic {
		severity = alerting.SeverityCritical
	}
	return w.alerter.Send(ctx, alerting.Alert{
		Code:      kind,
		Component: e.Attr(AttrComponent),
		Method:    e.Attr(AttrMethod),
		Message:   e.Message,
		TraceID:   e.Attr(AttrTraceID),
		Timestamp: e.Time,
		Severity:  severity,
	})
}

// NopSink отбрасывает все записи. Используется при отключённом логировании
// и в тестах.
type NopSink struct{}

// NewNopSink создаёт NopSink.
func NewNopSink() NopSink { return NopSink{} }

func (NopSink) Info(string, ...any)  {}
func (NopSink) Error(string, ...any) {}
func (NopSink) Submit(Record)        {}
