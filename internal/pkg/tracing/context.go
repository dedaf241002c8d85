package tracing

import (
	"context"

	"go.opentelemetry.io/otel/trace"
)

type traceIDKey struct{}

// WithTraceID сохраняет trace ID в context.
func WithTraceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, id)
}

// TraceIDFromContext извлекает trace ID, сохранённый WithTraceID.
// Возвращает пустую строку, если trace ID не установлен или ctx == nil.
func TraceIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(traceIDKey{}).(string); ok {
		return id
	}
	return ""
}

// ContextWithOTelTraceID добавляет в ctx remote span context с указанным
// trace ID, чтобы span'ы, созданные из ctx, продолжали этот trace.
// Невалидный traceIDHex оставляет ctx без изменений.
func ContextWithOTelTraceID(ctx context.Context, traceIDHex string) context.Context {
	traceID, err := trace.TraceIDFromHex(traceIDHex)
	if err != nil {
		return ctx
	}
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		TraceFlags: trace.FlagsSampled,
		Remote:     true,
	})
	return trace.ContextWithRemoteSpanContext(ctx, sc)
}

// ResolveTraceID возвращает trace ID для корреляции записей одного вызова.
// Порядок: валидный span context из ctx, затем WithTraceID, затем новый ID.
// Возвращаемый context содержит выбранный ID через WithTraceID.
func ResolveTraceID(ctx context.Context) (context.Context, string) {
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		id := sc.TraceID().String()
		if TraceIDFromContext(ctx) != id {
			ctx = WithTraceID(ctx, id)
		}
		return ctx, id
	}
	if id := TraceIDFromContext(ctx); id != "" {
		return ctx, id
	}
	id := GenerateTraceID()
	return WithTraceID(ctx, id), id
}
