// Package tracing настраивает OpenTelemetry для перехватчика и выдаёт
// trace ID, связывающие entry/exit/error записи одного вызова.
//
// Trace ID — 32 hex-символа (16 байт), совместимо с W3C Trace Context:
//
//	"a1b2c3d4e5f6a7b8c9d0e1f2a3b4c5d6"
package tracing

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"sync/atomic"
	"time"
)

var fallbackCounter atomic.Uint64

// GenerateTraceID генерирует trace ID из crypto/rand.
// При ошибке crypto/rand используется ID из времени и счётчика.
func GenerateTraceID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		// Fallback на timestamp-based ID (практически никогда не должно происходить)
		return fallbackTraceID()
	}
	return hex.EncodeToString(b)
}

// fallbackTraceID: 16 hex-символов времени и 16 hex-символов счётчика.
func fallbackTraceID() string {
	counter := fallbackCounter.Add(1)
	timestamp := uint64(time.Now().UnixNano()) //nolint:gosec // знак не важен
	return fmt.Sprintf("%016x%016x", timestamp, counter)
}

// IsValidTraceID сообщает, является ли id 32-символьной hex-строкой,
// отличной от нулевой.
func IsValidTraceID(id string) bool {
	if len(id) != 32 {
		return false
	}
	if _, err := hex.DecodeString(id); err != nil {
		return false
	}
	return strings.Trim(id, "0") != ""
}
