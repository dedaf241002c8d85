package alerting

import (
	"sync"
	"time"
)

// cleanupThreshold — размер map, после которого удаляются устаревшие ключи.
const cleanupThreshold = 100

// RateLimiter пропускает не более одного алерта на ключ за window.
// Состояние хранится в памяти процесса.
type RateLimiter struct {
	mu     sync.Mutex
	window time.Duration
	sent   map[string]time.Time
	now    func() time.Time
}

// NewRateLimiter создаёт RateLimiter. window <= 0 отключает ограничение.
func NewRateLimiter(window time.Duration) *RateLimiter {
	return &RateLimiter{
		window: window,
		sent:   make(map[string]time.Time),
		now:    time.Now,
	}
}

// Allow атомарно проверяет ключ и при успехе помечает его отправленным.
func (r *RateLimiter) Allow(key string) bool {
	if r.window <= 0 {
		return true
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if len(r.sent) > cleanupThreshold {
		for k, at := range r.sent {
			if now.Sub(at) >= r.window {
				delete(r.sent, k)
			}
		}
	}
	if last, ok := r.sent[key]; ok && now.Sub(last) < r.window {
		return false
	}
	r.sent[key] = now
	return true
}

// Len возвращает количество отслеживаемых ключей.
func (r *RateLimiter) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sent)
}

// SetNowFunc подменяет источник времени (для тестирования).
func (r *RateLimiter) SetNowFunc(fn func() time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.now = fn
}

// rateKey — ключ ограничения: тип отказа в рамках метода.
func rateKey(alert Alert) string {
	return alert.Component + "." + alert.Method + "/" + alert.Code
}
