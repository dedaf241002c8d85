// Package interceptor оборачивает вызовы записями entry/exit/error.
//
// Перехватчик не меняет поведение цели: результат и ошибка возвращаются
// как есть, паника пробрасывается с тем же значением. Сбои провайдера
// сообщений и sink'а изолированы от вызова.
package interceptor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/Kargones/logon/internal/message"
	"github.com/Kargones/logon/internal/pkg/apperrors"
	"github.com/Kargones/logon/internal/pkg/logging"
	"github.com/Kargones/logon/internal/pkg/metrics"
	"github.com/Kargones/logon/internal/pkg/tracing"
	"github.com/Kargones/logon/internal/settings"
	"github.com/Kargones/logon/internal/sink"
)

// RecordTemplate — шаблон каждой записи: [проект][компонент] текст.
const RecordTemplate = "[{}][{}] {}"

// События записей (атрибут event).
const (
	EventEntry = "entry"
	EventExit  = "exit"
	EventError = "error"
)

// Invocation описывает один перехватываемый вызов.
type Invocation struct {
	Component string
	Method    string
	Args      []any

	// Mask включает маскирование аргументов для этого вызова.
	Mask bool
}

// ProceedFunc выполняет целевой вызов.
type ProceedFunc func(ctx context.Context) (any, error)

// Interceptor пишет записи о вызовах в sink. Не хранит состояния между
// вызовами и безопасен для одновременного использования.
type Interceptor struct {
	store     *settings.Store
	provider  message.Provider
	fallback  message.Provider
	sink      sink.Sink
	collector metrics.Collector
	tracer    trace.Tracer
	logger    logging.Logger
	now       func() time.Time
}

// Option настраивает Interceptor.
type Option func(*Interceptor)

// WithFallbackProvider задаёт провайдер, который используется при сбое основного.
// По умолчанию message.DefaultProvider.
func WithFallbackProvider(p message.Provider) Option {
	return func(ic *Interceptor) {
		if p != nil {
			ic.fallback = p
		}
	}
}

// WithMetrics задаёт коллектор метрик.
func WithMetrics(c metrics.Collector) Option {
	return func(ic *Interceptor) { ic.collector = metrics.OrNop(c) }
}

// WithTracer задаёт tracer для span'ов вызовов.
func WithTracer(t trace.Tracer) Option {
	return func(ic *Interceptor) {
		if t != nil {
			ic.tracer = t
		}
	}
}

// WithLogger задаёт диагностический логгер.
func WithLogger(l logging.Logger) Option {
	return func(ic *Interceptor) { ic.logger = logging.OrNop(l) }
}

// WithClock подменяет источник времени (для тестов).
func WithClock(now func() time.Time) Option {
	return func(ic *Interceptor) {
		if now != nil {
			ic.now = now
		}
	}
}

// New создаёт Interceptor. store передаётся по ссылке: изменения настроек
// видны следующему вызову. nil store означает выключенный перехват,
// nil provider — message.DefaultProvider, nil sink — sink.NopSink.
func New(store *settings.Store, provider message.Provider, s sink.Sink, opts ...Option) *Interceptor {
	if store == nil {
		store = settings.NewStore(settings.Settings{})
	}
	if provider == nil {
		provider = message.NewDefaultProvider()
	}
	if s == nil {
		s = sink.NewNopSink()
	}
	ic := &Interceptor{
		store:     store,
		provider:  provider,
		fallback:  message.NewDefaultProvider(),
		sink:      s,
		collector: metrics.NewNopCollector(),
		tracer:    noop.NewTracerProvider().Tracer(tracing.InstrumentationName),
		logger:    logging.NewNopLogger(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(ic)
	}
	return ic
}

// Settings возвращает хранилище настроек перехватчика.
func (ic *Interceptor) Settings() *settings.Store {
	return ic.store
}

// Intercept выполняет proceed, записывая entry перед вызовом и exit или
// error после. Возвращает ровно то, что вернул proceed.
func (ic *Interceptor) Intercept(ctx context.Context, inv Invocation, proceed ProceedFunc) (any, error) {
	snap := ic.store.Load()
	if !snap.Enabled {
		return proceed(ctx)
	}

	ctx, traceID := tracing.ResolveTraceID(ctx)
	if !trace.SpanContextFromContext(ctx).IsValid() {
		ctx = tracing.ContextWithOTelTraceID(ctx, traceID)
	}
	ctx, span := ic.tracer.Start(ctx, inv.Component+"."+inv.Method,
		trace.WithAttributes(
			attribute.String("code.namespace", inv.Component),
			attribute.String("code.function", inv.Method),
			attribute.String("logon.project", snap.ProjectName),
		))
	defer span.End()

	if sc := span.SpanContext(); sc.HasTraceID() && sc.TraceID().String() != traceID {
		traceID = sc.TraceID().String()
		ctx = tracing.WithTraceID(ctx, traceID)
	}

	callID := uuid.NewString()
	span.SetAttributes(attribute.String("logon.call_id", callID))
	call := &call{ic: ic, snap: snap, inv: inv, traceID: traceID, callID: callID}
	started := ic.now()

	args := snap.Masking.Mask(inv.Args, inv.Mask)
	call.submit(sink.SeverityInfo, EventEntry, "", ic.render(EventEntry, func(p message.Provider) (string, error) {
		return p.Entry(inv.Method, args)
	}))

	completed := false
	defer func() {
		if completed {
			return
		}
		r := recover()
		if r == nil {
			// runtime.Goexit: паники нет, пробрасывать нечего.
			return
		}
		text := fmt.Sprint(r)
		call.failure(apperrors.KindPanic, text)
		span.SetStatus(codes.Error, text)
		ic.collector.RecordInvocation(inv.Component, inv.Method, ic.now().Sub(started), false)
		panic(r)
	}()

	result, err := proceed(ctx)
	completed = true

	if err != nil {
		text := errorText(err)
		call.failure(apperrors.KindOf(err), text)
		// В span уходит уже полученный текст: Error() цели второй раз не вызывается.
		span.RecordError(errors.New(text))
		span.SetStatus(codes.Error, text)
	} else {
		call.submit(sink.SeverityInfo, EventExit, "", ic.render(EventExit, func(p message.Provider) (string, error) {
			return p.Exit(inv.Method, result)
		}))
	}
	ic.collector.RecordInvocation(inv.Component, inv.Method, ic.now().Sub(started), err == nil)
	return result, err
}

// call — состояние одного перехваченного вызова.
type call struct {
	ic      *Interceptor
	snap    *settings.Settings
	inv     Invocation
	traceID string
	// callID связывает entry с exit/error одного вызова среди вложенных
	callID  string
}

func (c *call) failure(kind, text string) {
	c.submit(sink.SeverityError, EventError, kind, c.ic.render(EventError, func(p message.Provider) (string, error) {
		return p.Error(c.inv.Method, kind, text)
	}))
}

func (c *call) submit(severity sink.Severity, event, kind, text string) {
	attrs := []any{
		sink.AttrProject, c.snap.ProjectName,
		sink.AttrComponent, c.inv.Component,
		sink.AttrMethod, c.inv.Method,
		sink.AttrTraceID, c.traceID,
		sink.AttrCallID, c.callID,
		sink.AttrEvent, event,
	}
	if kind != "" {
		attrs = append(attrs, sink.AttrKind, kind)
	}

	defer func() {
		if r := recover(); r != nil {
			c.ic.logger.Error("паника sink'а при отправке записи", "event", event, "panic", r)
		}
	}()
	c.ic.sink.Submit(sink.Record{
		Severity: severity,
		Template: RecordTemplate,
		Values:   []any{c.snap.ProjectName, c.inv.Component, text},
		Attrs:    attrs,
	})
}

// render получает текст события от основного провайдера. При ошибке или
// панике используется fallback, а если сбоит и он, DefaultProvider.
func (ic *Interceptor) render(event string, fn func(message.Provider) (string, error)) string {
	text, err := safeRender(ic.provider, fn)
	if err == nil {
		return text
	}

	ic.collector.RecordProviderFallback(event)
	ic.logger.Warn("провайдер сообщений недоступен, используется текст по умолчанию",
		"event", event, "code", errorCode(err), "error", err)

	if text, err = safeRender(ic.fallback, fn); err == nil {
		return text
	}
	text, _ = fn(message.NewDefaultProvider()) //nolint:errcheck // DefaultProvider не возвращает ошибок
	return text
}

func safeRender(p message.Provider, fn func(message.Provider) (string, error)) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("паника провайдера сообщений: %v", r)
		}
	}()
	return fn(p)
}

func errorCode(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Code != "" {
		return appErr.Code
	}
	return "PROVIDER.FAILED"
}

// errorText возвращает err.Error(), не пропуская панику из пользовательского Error().
func errorText(err error) string {
	return fmt.Sprintf("%v", err)
}
