// Package metrics собирает Prometheus-метрики перехватчика и sink'а и
// отправляет их в Pushgateway.
//
// NewCollector выбирает реализацию по конфигурации: при отключённых
// метриках возвращается NopCollector.
package metrics

import (
	"context"
	"time"
)

// Статусы вызова в label "status".
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Причины отброса записей sink'ом (label "reason").
const (
	DropReasonOverflow = "overflow"
	DropReasonClosed   = "closed"
)

// Collector определяет интерфейс сбора метрик.
// Реализации: PrometheusCollector и NopCollector.
type Collector interface {
	// RecordInvocation записывает завершение перехваченного вызова.
	RecordInvocation(component, method string, duration time.Duration, success bool)

	// RecordProviderFallback отмечает, что текст события (entry/exit/error)
	// был отрендерен DefaultProvider'ом из-за сбоя основного провайдера.
	RecordProviderFallback(event string)

	// RecordSinkDropped отмечает запись, отброшенную sink'ом.
	RecordSinkDropped(reason string)

	// RecordSinkFault отмечает ошибку или панику транспорта writer.
	RecordSinkFault(writer string)

	// SetSinkQueueDepth обновляет текущую длину очереди sink'а.
	SetSinkQueueDepth(n int)

	// Push отправляет метрики в Pushgateway. Всегда возвращает nil:
	// ошибки логируются внутри реализации.
	Push(ctx context.Context) error
}
