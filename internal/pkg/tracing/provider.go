package tracing

import (
	"context"

	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/Kargones/logon/internal/pkg/logging"
)

// InstrumentationName — имя tracer'а перехватчика.
const InstrumentationName = "github.com/Kargones/logon/internal/interceptor"

// Provider объединяет trace.TracerProvider и функцию его остановки.
// Провайдер не регистрируется глобально: tracer передаётся перехватчику явно.
type Provider struct {
	tp       trace.TracerProvider
	shutdown func(context.Context) error
}

// Tracer возвращает tracer перехватчика.
func (p *Provider) Tracer() trace.Tracer {
	return p.tp.Tracer(InstrumentationName)
}

// TracerProvider возвращает обёрнутый trace.TracerProvider.
func (p *Provider) TracerProvider() trace.TracerProvider {
	return p.tp
}

// Shutdown экспортирует накопленные span'ы и останавливает провайдер.
func (p *Provider) Shutdown(ctx context.Context) error {
	return p.shutdown(ctx)
}

// NewProvider оборачивает готовый TracerProvider (например, с in-memory
// exporter'ом в тестах).
func NewProvider(tp trace.TracerProvider, shutdown func(context.Context) error) *Provider {
	if shutdown == nil {
		shutdown = func(context.Context) error { return nil }
	}
	return &Provider{tp: tp, shutdown: shutdown}
}

// NewNopProvider возвращает провайдер без записи span'ов.
func NewNopProvider() *Provider {
	return NewProvider(noop.NewTracerProvider(), nil)
}

// NewTracerProvider создаёт провайдер по конфигурации.
// При выключенном трейсинге возвращается NewNopProvider. При включённом:
// OTLP HTTP exporter, BatchSpanProcessor, resource с service.name/version/
// deployment.environment и ParentBased-сэмплер с долей SamplingRate.
func NewTracerProvider(cfg Config, logger logging.Logger) (*Provider, error) {
	logger = logging.OrNop(logger)
	if !cfg.Enabled {
		logger.Debug("трейсинг выключен, используется nop provider")
		return NewNopProvider(), nil
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// NewSchemaless исключает конфликт Schema URL между resource.Default() и semconv.
	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.Version),
			semconv.DeploymentEnvironment(cfg.Environment),
		),
	)
	if err != nil {
		return nil, err
	}

	// WithEndpoint принимает только host:port.
	opts := []otlptracehttp.Option{
		otlptracehttp.WithEndpoint(cfg.otlpHost()),
		otlptracehttp.WithTimeout(cfg.Timeout),
	}
	if cfg.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	exporter, err := otlptracehttp.New(context.Background(), opts...)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(newSampler(cfg.SamplingRate)),
	)

	logger.Info("OpenTelemetry трейсинг инициализирован",
		"endpoint", cfg.Endpoint,
		"service_name", cfg.ServiceName,
		"sampling_rate", cfg.SamplingRate,
	)
	return NewProvider(tp, tp.Shutdown), nil
}

// newSampler: корневые span'ы и span'ы с remote parent сэмплируются по доле
// rate, локальные дочерние наследуют решение родителя. ContextWithOTelTraceID
// ставит FlagsSampled на remote parent, поэтому стандартный AlwaysSample для
// него игнорировал бы rate.
func newSampler(rate float64) sdktrace.Sampler {
	return sdktrace.ParentBased(
		sdktrace.TraceIDRatioBased(rate),
		sdktrace.WithRemoteParentSampled(sdktrace.TraceIDRatioBased(rate)),
	)
}
