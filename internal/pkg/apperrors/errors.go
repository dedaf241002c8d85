// Package apperrors предоставляет структурированные ошибки приложения.
// Переименован из errors чтобы избежать конфликта со стандартной библиотекой.
package apperrors

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// Коды ошибок в иерархическом формате: CATEGORY.SPECIFIC_ERROR.
// Позволяет grep по категориям: `grep "CATALOG\."` для всех ошибок каталога сообщений.
const (
	// Category: CONFIG — ошибки загрузки и валидации конфигурации.
	ErrConfigLoad     = "CONFIG.LOAD_FAILED"
	ErrConfigValidate = "CONFIG.VALIDATION_FAILED"

	// Category: CATALOG — ошибки каталога сообщений (конфигурационные, не бизнес-ошибки).
	ErrCatalogMessageNotFound = "CATALOG.MESSAGE_NOT_FOUND"
	ErrCatalogInvalid         = "CATALOG.INVALID"

	// Category: SINK — ошибки асинхронной записи логов.
	ErrSinkClosed      = "SINK.CLOSED"
	ErrSinkWriteFailed = "SINK.WRITE_FAILED"

	// Category: REGISTRY — ошибки регистрации перехватываемых методов.
	ErrRegistryInvalid = "REGISTRY.INVALID"
)

// Типы отказов (failure kind) — идентификаторы категории ошибки целевого вызова.
// Попадают в error-запись лога вместо имени класса исключения.
const (
	KindIllegalArgument = "IllegalArgument"
	KindIllegalState    = "IllegalState"
	KindNotFound        = "NotFound"
	KindPanic           = "panic"
)

// Response определяет форму ответа, который внешний слой трансляции ошибок
// строит для клиента: минимальный (status + message) или детальный.
type Response int

const (
	// ResponseBasic — status + message.
	ResponseBasic Response = iota
	// ResponseComplete — status + message + детали причины + path + timestamp.
	ResponseComplete
)

// String возвращает строковое представление Response.
func (r Response) String() string {
	switch r {
	case ResponseBasic:
		return "BASIC"
	case ResponseComplete:
		return "COMPLETE"
	default:
		return "UNKNOWN"
	}
}

// AppError представляет структурированную ошибку приложения.
// Реализует error interface и поддерживает wrapping через Unwrap().
//
// ВАЖНО: Message НЕ ДОЛЖЕН содержать секреты (пароли, токены, ключи).
// Используйте generic описания без конкретных значений.
//
// Пример использования:
//
//	return apperrors.NewAppError(apperrors.ErrConfigLoad,
//	    "не удалось загрузить конфигурацию логгера",
//	    err)
type AppError struct {
	// Code — машиночитаемый код ошибки в формате CATEGORY.SPECIFIC.
	// Пустой для ошибок бизнес-логики, созданных через NewKindError.
	Code string `json:"code,omitempty"`

	// Message — человекочитаемое описание ошибки.
	// НЕ ДОЛЖЕН содержать секреты!
	Message string `json:"message"`

	// Kind — тип отказа (IllegalArgument, NotFound, ...).
	Kind string `json:"kind,omitempty"`

	// Response — тег формы ответа для слоя трансляции ошибок.
	Response Response `json:"-"`

	// Status — необязательный HTTP-подобный статус. 0 — не задан.
	Status int `json:"status,omitempty"`

	// Cause — wrapped оригинальная ошибка.
	// Не сериализуется в JSON для безопасности (может содержать stack trace).
	Cause error `json:"-"`
}

// Error реализует интерфейс error.
// Ошибки без кода (бизнес-ошибки) возвращают только Message — именно этот
// текст попадает в error-запись лога и к вызывающему коду.
func (e *AppError) Error() string {
	if e.Code == "" {
		return e.Message
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap возвращает wrapped ошибку для errors.Is/As.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is сравнивает AppError по коду, что позволяет использовать sentinel-значения:
//
//	errors.Is(err, &apperrors.AppError{Code: apperrors.ErrCatalogMessageNotFound})
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok || t.Code == "" {
		return false
	}
	return e.Code == t.Code
}

// ErrorKind возвращает тип отказа. Для ошибок без Kind используется Code.
func (e *AppError) ErrorKind() string {
	if e.Kind != "" {
		return e.Kind
	}
	return e.Code
}

// NewAppError создаёт новый AppError с заданным кодом, сообщением и причиной.
//
// ВАЖНО: message НЕ ДОЛЖЕН содержать секреты!
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewKindError создаёт бизнес-ошибку целевого вызова с типом отказа kind.
func NewKindError(kind, message string) *AppError {
	return &AppError{
		Kind:    kind,
		Message: message,
	}
}

// kinder реализуется ошибками, которые сами сообщают свой тип отказа.
type kinder interface {
	ErrorKind() string
}

// KindOf возвращает идентификатор типа отказа для err.
// Сначала ищется ошибка с ErrorKind() в цепочке (fmt.Errorf("...: %w") не теряет тип),
// иначе возвращается имя Go-типа внешней ошибки без пакета и указателя
// (например "PathError").
func KindOf(err error) string {
	if err == nil {
		return ""
	}
	var k kinder
	if errors.As(err, &k) {
		if kind := k.ErrorKind(); kind != "" {
			return kind
		}
	}
	t := reflect.TypeOf(err)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	name := t.Name()
	if name == "" {
		name = t.String()
	}
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return name
}

// ResponseOf определяет форму ответа для err.
// Берётся тег первого AppError в цепочке причин с явно заданным ResponseComplete,
// иначе ResponseBasic.
func ResponseOf(err error) Response {
	for err != nil {
		var appErr *AppError
		if !errors.As(err, &appErr) {
			return ResponseBasic
		}
		if appErr.Response == ResponseComplete {
			return ResponseComplete
		}
		err = appErr.Cause
	}
	return ResponseBasic
}

// StatusOf возвращает первый ненулевой Status в цепочке AppError или fallback.
func StatusOf(err error, fallback int) int {
	for err != nil {
		var appErr *AppError
		if !errors.As(err, &appErr) {
			break
		}
		if appErr.Status != 0 {
			return appErr.Status
		}
		err = appErr.Cause
	}
	return fallback
}
