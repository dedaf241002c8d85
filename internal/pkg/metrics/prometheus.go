package metrics

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/Kargones/logon/internal/pkg/logging"
	"github.com/Kargones/logon/internal/pkg/urlutil"
)

const namespace = "logon"

// PrometheusCollector реализует Collector на собственном prometheus.Registry.
type PrometheusCollector struct {
	config   Config
	logger   logging.Logger
	registry *prometheus.Registry
	instance string

	invocationDuration *prometheus.HistogramVec
	invocations        *prometheus.CounterVec
	providerFallbacks  *prometheus.CounterVec
	sinkDropped        *prometheus.CounterVec
	sinkFaults         *prometheus.CounterVec
	sinkQueueDepth     prometheus.Gauge
}

// NewPrometheusCollector создаёт PrometheusCollector и регистрирует метрики:
//   - logon_invocation_duration_seconds (histogram: component, method, status)
//   - logon_invocations_total (counter: component, method, status)
//   - logon_provider_fallbacks_total (counter: event)
//   - logon_sink_dropped_total (counter: reason)
//   - logon_sink_faults_total (counter: writer)
//   - logon_sink_queue_depth (gauge)
func NewPrometheusCollector(config Config, logger logging.Logger) (*PrometheusCollector, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	logger = logging.OrNop(logger)

	instance := config.InstanceLabel
	if instance == "" {
		hostname, err := os.Hostname()
		if err != nil {
			logger.Warn("не удалось получить hostname для label instance", "error", err.Error())
			hostname = "unknown"
		}
		instance = hostname
	}

	c := &PrometheusCollector{
		config:   config,
		logger:   logger,
		registry: prometheus.NewRegistry(),
		instance: instance,
		invocationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "invocation_duration_seconds",
			Help:      "Duration of intercepted invocations in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
		}, []string{"component", "method", "status"}),
		invocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invocations_total",
			Help:      "Total number of intercepted invocations",
		}, []string{"component", "method", "status"}),
		providerFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_fallbacks_total",
			Help:      "Messages rendered by the default provider after a provider failure",
		}, []string{"event"}),
		sinkDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sink_dropped_total",
			Help:      "Log records dropped by the async sink",
		}, []string{"reason"}),
		sinkFaults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sink_faults_total",
			Help:      "Write errors and panics recovered by the async sink",
		}, []string{"writer"}),
		sinkQueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sink_queue_depth",
			Help:      "Current number of queued log records",
		}),
	}

	for _, m := range []prometheus.Collector{
		c.invocationDuration, c.invocations, c.providerFallbacks,
		c.sinkDropped, c.sinkFaults, c.sinkQueueDepth,
	} {
		if err := c.registry.Register(m); err != nil {
			return nil, fmt.Errorf("ошибка регистрации метрики: %w", err)
		}
	}
	return c, nil
}

// maxLabelLength ограничивает длину значения label.
const maxLabelLength = 128

// sanitizeLabel заменяет управляющие символы и обрезает значение по рунам.
func sanitizeLabel(value string) string {
	clean := strings.Map(func(r rune) rune {
		if r < 0x20 {
			return '_'
		}
		return r
	}, value)
	if runes := []rune(clean); len(runes) > maxLabelLength {
		return string(runes[:maxLabelLength])
	}
	return clean
}

func (c *PrometheusCollector) RecordInvocation(component, method string, duration time.Duration, success bool) {
	status := StatusSuccess
	if !success {
		status = StatusError
	}
	component, method = sanitizeLabel(component), sanitizeLabel(method)
	c.invocationDuration.WithLabelValues(component, method, status).Observe(duration.Seconds())
	c.invocations.WithLabelValues(component, method, status).Inc()
}

func (c *PrometheusCollector) RecordProviderFallback(event string) {
	c.providerFallbacks.WithLabelValues(sanitizeLabel(event)).Inc()
}

func (c *PrometheusCollector) RecordSinkDropped(reason string) {
	c.sinkDropped.WithLabelValues(sanitizeLabel(reason)).Inc()
}

func (c *PrometheusCollector) RecordSinkFault(writer string) {
	c.sinkFaults.WithLabelValues(sanitizeLabel(writer)).Inc()
}

func (c *PrometheusCollector) SetSinkQueueDepth(n int) {
	c.sinkQueueDepth.Set(float64(n))
}

// Push отправляет метрики в Pushgateway. Ошибки логируются, возвращается nil.
func (c *PrometheusCollector) Push(ctx context.Context) error {
	if c.config.PushgatewayURL == "" {
		c.logger.Debug("pushgateway не настроен, push пропущен")
		return nil
	}
	if ctx.Err() != nil {
		c.logger.Debug("push метрик отменён")
		return nil
	}

	pushCtx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	pusher := push.New(c.config.PushgatewayURL, c.config.JobName).
		Gatherer(c.registry).
		Grouping("instance", c.instance)
	if err := pusher.PushContext(pushCtx); err != nil {
		c.logger.Error("ошибка отправки метрик в Pushgateway",
			"error", err.Error(),
			"url", urlutil.MaskURL(c.config.PushgatewayURL),
			"job", c.config.JobName,
		)
		return nil
	}
	c.logger.Info("метрики отправлены в Pushgateway",
		"url", urlutil.MaskURL(c.config.PushgatewayURL),
		"job", c.config.JobName,
		"instance", c.instance,
	)
	return nil
}

// Registry возвращает внутренний registry (для тестов и экспорта).
func (c *PrometheusCollector) Registry() *prometheus.Registry {
	return c.registry
}
