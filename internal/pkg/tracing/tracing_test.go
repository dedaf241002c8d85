package tracing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func validConfig() Config {
	cfg := DefaultConfig()
	cfg.Enabled = true
	cfg.Endpoint = "http://localhost:4318"
	cfg.Insecure = true
	return cfg
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"валидная", func(*Config) {}, nil},
		{"выключен", func(c *Config) { c.Enabled = false; c.Endpoint = "" }, nil},
		{"нет endpoint", func(c *Config) { c.Endpoint = "" }, ErrTracingEndpointRequired},
		{"endpoint без host", func(c *Config) { c.Endpoint = "jaeger" }, ErrTracingEndpointInvalidFormat},
		{"нет service name", func(c *Config) { c.ServiceName = "" }, ErrTracingServiceNameRequired},
		{"нулевой таймаут", func(c *Config) { c.Timeout = 0 }, ErrTracingTimeoutInvalid},
		{"rate > 1", func(c *Config) { c.SamplingRate = 1.5 }, ErrTracingSamplingRateInvalid},
		{"rate < 0", func(c *Config) { c.SamplingRate = -0.1 }, ErrTracingSamplingRateInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestConfig_OTLPHost(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, "localhost:4318", cfg.otlpHost())

	cfg.Endpoint = "jaeger"
	assert.Empty(t, cfg.otlpHost())

	cfg.Endpoint = "http://[::1"
	assert.Empty(t, cfg.otlpHost())
}

func TestNewTracerProvider_Disabled(t *testing.T) {
	p, err := NewTracerProvider(DefaultConfig(), nil)
	require.NoError(t, err)

	_, span := p.Tracer().Start(context.Background(), "op")
	assert.False(t, span.IsRecording())
	span.End()
	assert.NoError(t, p.Shutdown(context.Background()))
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestNewTracerProvider_Invalid(t *testing.T) {
	cfg := validConfig()
	cfg.Endpoint = ""
	_, err := NewTracerProvider(cfg, nil)
	assert.ErrorIs(t, err, ErrTracingEndpointRequired)
}

func TestNewTracerProvider_Enabled(t *testing.T) {
	p, err := NewTracerProvider(validConfig(), nil)
	require.NoError(t, err)

	_, span := p.Tracer().Start(context.Background(), "UserService.A")
	assert.True(t, span.IsRecording())
	span.End()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	// Экспорт в недоступный endpoint может вернуть ошибку; важно, что Shutdown не зависает.
	_ = p.Shutdown(ctx) //nolint:errcheck // endpoint недоступен в тестах
}

func TestNewProvider_InMemory(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	p := NewProvider(tp, tp.Shutdown)

	_, span := p.Tracer().Start(context.Background(), "op")
	span.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "op", spans[0].Name)
	assert.Equal(t, InstrumentationName, spans[0].InstrumentationScope.Name)
	assert.NotNil(t, p.TracerProvider())
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestNewSampler(t *testing.T) {
	tid, err := trace.TraceIDFromHex("0af7651916cd43dd8448eb211c80319c")
	require.NoError(t, err)

	never := newSampler(0)
	res := never.ShouldSample(sdktrace.SamplingParameters{ParentContext: context.Background(), TraceID: tid, Name: "x"})
	assert.Equal(t, sdktrace.Drop, res.Decision)

	// remote parent с FlagsSampled не форсирует сэмплирование
	remote := ContextWithOTelTraceID(context.Background(), tid.String())
	res = never.ShouldSample(sdktrace.SamplingParameters{ParentContext: remote, TraceID: tid, Name: "x"})
	assert.Equal(t, sdktrace.Drop, res.Decision)

	always := newSampler(1)
	res = always.ShouldSample(sdktrace.SamplingParameters{ParentContext: context.Background(), TraceID: tid, Name: "x"})
	assert.Equal(t, sdktrace.RecordAndSample, res.Decision)
}

func TestTraceIDContext(t *testing.T) {
	assert.Empty(t, TraceIDFromContext(context.Background()))
	//nolint:staticcheck // проверяем nil context
	assert.Empty(t, TraceIDFromContext(nil))

	ctx := WithTraceID(context.Background(), "abc")
	assert.Equal(t, "abc", TraceIDFromContext(ctx))
}

func TestContextWithOTelTraceID(t *testing.T) {
	id := "0af7651916cd43dd8448eb211c80319c"
	ctx := ContextWithOTelTraceID(context.Background(), id)
	sc := trace.SpanContextFromContext(ctx)
	assert.Equal(t, id, sc.TraceID().String())
	assert.True(t, sc.IsRemote())

	same := context.Background()
	assert.Equal(t, same, ContextWithOTelTraceID(same, "not-hex"))
}

func TestResolveTraceID(t *testing.T) {
	// новый ID
	ctx, id := ResolveTraceID(context.Background())
	assert.True(t, IsValidTraceID(id))
	assert.Equal(t, id, TraceIDFromContext(ctx))

	// ID из WithTraceID
	ctx, got := ResolveTraceID(WithTraceID(context.Background(), "fixed"))
	assert.Equal(t, "fixed", got)
	assert.Equal(t, "fixed", TraceIDFromContext(ctx))

	// span context важнее WithTraceID
	spanID := "0af7651916cd43dd8448eb211c80319c"
	base := ContextWithOTelTraceID(WithTraceID(context.Background(), "other"), spanID)
	ctx, got = ResolveTraceID(base)
	assert.Equal(t, spanID, got)
	assert.Equal(t, spanID, TraceIDFromContext(ctx))
}

func TestGenerateTraceID(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id := GenerateTraceID()
		assert.True(t, IsValidTraceID(id), id)
		seen[id] = struct{}{}
	}
	assert.Len(t, seen, 100)

	fb := fallbackTraceID()
	assert.Len(t, fb, 32)
	assert.NotEqual(t, fb, fallbackTraceID())
}

func TestIsValidTraceID(t *testing.T) {
	assert.False(t, IsValidTraceID(""))
	assert.False(t, IsValidTraceID("00000000000000000000000000000000"))
	assert.False(t, IsValidTraceID("zzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzz"))
	assert.True(t, IsValidTraceID("0af7651916cd43dd8448eb211c80319c"))
}
