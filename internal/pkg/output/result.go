// Package output форматирует результат выполнения перехватываемого вызова
// для командной строки: человекочитаемый текст или JSON.
package output

import (
	"time"

	"github.com/Kargones/logon/internal/pkg/apperrors"
)

// StatusSuccess и StatusError — возможные значения поля Status в Result.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// APIVersion — версия формата JSON-вывода.
const APIVersion = "v1"

// Result представляет результат одного вызова.
type Result struct {
	// Status содержит статус выполнения: "success" или "error".
	Status string `json:"status"`

	// Method — имя вызванного метода, например "filterUsers".
	Method string `json:"method"`

	// Data содержит возвращённое значение (только при status="success").
	Data any `json:"data,omitempty"`

	Error *ErrorInfo `json:"error,omitempty"`

	Metadata *Metadata `json:"metadata,omitempty"`
}

// ErrorInfo описывает отказ вызова.
// Message НЕ ДОЛЖЕН содержать секреты.
type ErrorInfo struct {
	// Kind — тип отказа (IllegalArgument, NotFound, ...).
	Kind    string `json:"kind"`
	Message string `json:"message"`
	// Status — HTTP-подобный статус из цепочки ошибок, 0 если не задан.
	Status int `json:"status,omitempty"`
	// Response — форма ответа: BASIC или COMPLETE.
	Response string `json:"response"`
}

// Metadata содержит метаданные выполнения.
type Metadata struct {
	DurationMs int64 `json:"duration_ms"`

	// TraceID связывает вывод с записями журнала вызова.
	TraceID string `json:"trace_id,omitempty"`

	APIVersion string `json:"api_version"`
}

// NewResult строит Result по итогу вызова method.
func NewResult(method string, data any, err error, elapsed time.Duration, traceID string) *Result {
	r := &Result{
		Status: StatusSuccess,
		Method: method,
		Metadata: &Metadata{
			DurationMs: elapsed.Milliseconds(),
			TraceID:    traceID,
			APIVersion: APIVersion,
		},
	}
	if err != nil {
		r.Status = StatusError
		r.Error = &ErrorInfo{
			Kind:     apperrors.KindOf(err),
			Message:  err.Error(),
			Status:   apperrors.StatusOf(err, 0),
			Response: apperrors.ResponseOf(err).String(),
		}
		return r
	}
	r.Data = data
	return r
}
