package metrics

import (
	"context"
	"time"
)

// NopCollector — no-op реализация Collector.
type NopCollector struct{}

// NewNopCollector создаёт NopCollector.
func NewNopCollector() *NopCollector {
	return &NopCollector{}
}

func (c *NopCollector) RecordInvocation(_, _ string, _ time.Duration, _ bool) {}
func (c *NopCollector) RecordProviderFallback(_ string)                         {}
func (c *NopCollector) RecordSinkDropped(_ string)                              {}
func (c *NopCollector) RecordSinkFault(_ string)                                {}
func (c *NopCollector) SetSinkQueueDepth(_ int)                                 {}

// Push ничего не делает.
func (c *NopCollector) Push(_ context.Context) error {
	return nil
}

// OrNop возвращает c или NopCollector, если c == nil.
func OrNop(c Collector) Collector {
	if c == nil {
		return NewNopCollector()
	}
	return c
}
