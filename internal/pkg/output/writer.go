package output

import (
	"io"
	"strings"
)

// FormatJSON и FormatText — поддерживаемые форматы вывода.
const (
	FormatJSON = "json"
	FormatText = "text"
)

// Writer определяет интерфейс для форматирования результатов вызова.
// Реализации: JSONWriter, TextWriter.
type Writer interface {
	// Write форматирует result и записывает в w.
	Write(w io.Writer, result *Result) error
}

// NewWriter создаёт Writer по указанному формату (без учёта регистра).
// При неизвестном формате возвращает TextWriter.
func NewWriter(format string) Writer {
	switch strings.ToLower(format) {
	case FormatJSON:
		return NewJSONWriter()
	default:
		return NewTextWriter()
	}
}

// IsValidFormat сообщает, поддерживается ли формат.
func IsValidFormat(format string) bool {
	switch strings.ToLower(format) {
	case FormatJSON, FormatText:
		return true
	}
	return false
}
