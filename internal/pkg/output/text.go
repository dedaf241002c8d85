package output

import (
	"encoding/json"
	"fmt"
	"io"
)

// TextWriter форматирует Result в одну человекочитаемую строку:
// значение при успехе, "Kind: message" при ошибке.
type TextWriter struct{}

// NewTextWriter создаёт новый TextWriter.
func NewTextWriter() *TextWriter {
	return &TextWriter{}
}

// Write форматирует result в текст и записывает в w.
func (t *TextWriter) Write(w io.Writer, result *Result) error {
	if result == nil {
		return nil
	}
	if result.Error != nil {
		_, err := fmt.Fprintf(w, "%s: %s\n", result.Error.Kind, result.Error.Message)
		return err
	}

	switch v := result.Data.(type) {
	case nil:
		_, err := fmt.Fprintln(w, result.Status)
		return err
	case string:
		_, err := fmt.Fprintln(w, v)
		return err
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("не удалось сериализовать Data: %w", err)
		}
		_, err = fmt.Fprintf(w, "%s\n", data)
		return err
	}
}
