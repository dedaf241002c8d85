package apperrors

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCodeConstants(t *testing.T) {
	tests := []struct {
		name     string
		constant string
		expected string
	}{
		{"ErrConfigLoad", ErrConfigLoad, "CONFIG.LOAD_FAILED"},
		{"ErrConfigValidate", ErrConfigValidate, "CONFIG.VALIDATION_FAILED"},
		{"ErrCatalogMessageNotFound", ErrCatalogMessageNotFound, "CATALOG.MESSAGE_NOT_FOUND"},
		{"ErrCatalogInvalid", ErrCatalogInvalid, "CATALOG.INVALID"},
		{"ErrSinkClosed", ErrSinkClosed, "SINK.CLOSED"},
		{"ErrSinkWriteFailed", ErrSinkWriteFailed, "SINK.WRITE_FAILED"},
		{"ErrRegistryInvalid", ErrRegistryInvalid, "REGISTRY.INVALID"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.constant)
		})
	}
}

func TestAppError_Error_WithCause(t *testing.T) {
	cause := errors.New("файл не найден")
	appErr := NewAppError(ErrConfigLoad, "не удалось загрузить конфигурацию", cause)

	assert.Equal(t, "CONFIG.LOAD_FAILED: не удалось загрузить конфигурацию (файл не найден)", appErr.Error())
}

func TestAppError_Error_WithoutCause(t *testing.T) {
	appErr := NewAppError(ErrCatalogInvalid, "каталог пуст", nil)

	assert.Equal(t, "CATALOG.INVALID: каталог пуст", appErr.Error())
}

// TestAppError_Error_KindError проверяет что бизнес-ошибка возвращает только сообщение.
func TestAppError_Error_KindError(t *testing.T) {
	err := NewKindError(KindIllegalArgument, "email required")

	assert.Equal(t, "email required", err.Error())
	assert.Equal(t, KindIllegalArgument, err.ErrorKind())
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("оригинальная ошибка")
	appErr := NewAppError(ErrSinkWriteFailed, "запись не удалась", cause)

	assert.Equal(t, cause, appErr.Unwrap())
	assert.True(t, errors.Is(appErr, cause))
}

func TestAppError_Is_ByCode(t *testing.T) {
	err := fmt.Errorf("рендер: %w", NewAppError(ErrCatalogMessageNotFound, "нет ключа log.entry", nil))

	assert.True(t, errors.Is(err, &AppError{Code: ErrCatalogMessageNotFound}))
	assert.False(t, errors.Is(err, &AppError{Code: ErrCatalogInvalid}))
	assert.False(t, errors.Is(err, &AppError{}), "пустой код не должен совпадать")
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"kind error", NewKindError(KindNotFound, "нет пользователя"), KindNotFound},
		{"wrapped kind error", fmt.Errorf("контроллер: %w", NewKindError(KindIllegalState, "x")), KindIllegalState},
		{"code without kind", NewAppError(ErrConfigLoad, "x", nil), ErrConfigLoad},
		{"errors.New", errors.New("boom"), "errorString"},
		{"path error", &fs.PathError{Op: "open", Path: "/x", Err: fs.ErrNotExist}, "PathError"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestResponseOf(t *testing.T) {
	complete := &AppError{Kind: KindIllegalArgument, Message: "x", Response: ResponseComplete}

	assert.Equal(t, ResponseBasic, ResponseOf(nil))
	assert.Equal(t, ResponseBasic, ResponseOf(errors.New("plain")))
	assert.Equal(t, ResponseComplete, ResponseOf(complete))
	// Тег берётся из причины, если у внешней ошибки он не задан
	outer := &AppError{Message: "outer", Cause: complete}
	assert.Equal(t, ResponseComplete, ResponseOf(outer))
	assert.Equal(t, "COMPLETE", ResponseComplete.String())
	assert.Equal(t, "UNKNOWN", Response(42).String())
}

func TestStatusOf(t *testing.T) {
	inner := &AppError{Message: "inner", Status: 404}
	outer := &AppError{Message: "outer", Cause: inner}

	assert.Equal(t, 404, StatusOf(outer, 500))
	assert.Equal(t, 500, StatusOf(errors.New("plain"), 500))
	assert.Equal(t, 500, StatusOf(nil, 500))
}

func TestAppError_JSON_Serialization(t *testing.T) {
	appErr := NewAppError(ErrConfigLoad, "не удалось загрузить конфигурацию", errors.New("секрет"))

	data, err := json.Marshal(appErr)
	require.NoError(t, err)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(data, &parsed))

	assert.Equal(t, ErrConfigLoad, parsed["code"])
	assert.Equal(t, "не удалось загрузить конфигурацию", parsed["message"])

	// Cause не должен сериализоваться (json:"-")
	_, hasCause := parsed["cause"]
	assert.False(t, hasCause, "Cause не должен сериализоваться в JSON")
	_, hasCauseUpper := parsed["Cause"]
	assert.False(t, hasCauseUpper, "Cause не должен сериализоваться в JSON")
}
