// Package metricstest содержит считающую реализацию metrics.Collector для тестов.
package metricstest

import (
	"context"
	"sync"
	"time"
)

// Invocation — одно обращение к RecordInvocation.
type Invocation struct {
	Component string
	Method    string
	Duration  time.Duration
	Success   bool
}

// Collector запоминает все вызовы. Безопасен для одновременного использования.
type Collector struct {
	mu          sync.Mutex
	invocations []Invocation
	fallbacks   map[string]int
	dropped     map[string]int
	faults      map[string]int
	depth       int
	pushes      int
}

// NewCollector создаёт пустой Collector.
func NewCollector() *Collector {
	return &Collector{
		fallbacks: make(map[string]int),
		dropped:   make(map[string]int),
		faults:    make(map[string]int),
	}
}

func (c *Collector) RecordInvocation(component, method string, d time.Duration, success bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invocations = append(c.invocations, Invocation{component, method, d, success})
}

func (c *Collector) RecordProviderFallback(event string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fallbacks[event]++
}

func (c *Collector) RecordSinkDropped(reason string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dropped[reason]++
}

func (c *Collector) RecordSinkFault(writer string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.faults[writer]++
}

func (c *Collector) SetSinkQueueDepth(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.depth = n
}

func (c *Collector) Push(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pushes++
	return nil
}

// Invocations возвращает копию записанных вызовов.
func (c *Collector) Invocations() []Invocation {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Invocation(nil), c.invocations...)
}

// Fallbacks возвращает число fallback'ов для события.
func (c *Collector) Fallbacks(event string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fallbacks[event]
}

// Dropped возвращает число отброшенных записей по причине.
func (c *Collector) Dropped(reason string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dropped[reason]
}

// Faults возвращает число сбоев транспорта.
func (c *Collector) Faults(writer string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.faults[writer]
}

// Depth возвращает последнее значение глубины очереди.
func (c *Collector) Depth() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.depth
}

// Pushes возвращает число вызовов Push.
func (c *Collector) Pushes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pushes
}
