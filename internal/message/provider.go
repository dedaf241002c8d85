// Package message формирует тексты записей entry/exit/error.
//
// Provider — стратегия рендеринга. DefaultProvider использует фиксированные
// английские шаблоны, CatalogProvider берёт шаблоны из локализованного
// каталога, DelegatingProvider выбирает между ними при каждом вызове.
package message

import (
	"fmt"

	"github.com/Kargones/logon/internal/masking"
)

// Ключи сообщений каталога.
const (
	KeyEntry = "log.entry"
	KeyExit  = "log.exit"
	KeyError = "log.error"
)

// Provider рендерит тексты событий вызова.
// Ошибка возвращается только при проблеме конфигурации (например, в каталоге
// нет нужного ключа); вызывающий код решает, чем её заменить.
type Provider interface {
	Entry(method, args string) (string, error)
	Exit(method string, result any) (string, error)
	Error(method, kind, text string) (string, error)
}

// DefaultProvider рендерит фиксированные шаблоны и никогда не возвращает ошибку.
type DefaultProvider struct{}

// NewDefaultProvider создаёт DefaultProvider.
func NewDefaultProvider() DefaultProvider {
	return DefaultProvider{}
}

func (DefaultProvider) Entry(method, args string) (string, error) {
	return fmt.Sprintf("Entering method %s() with | Args: %s", method, args), nil
}

func (DefaultProvider) Exit(method string, result any) (string, error) {
	return fmt.Sprintf("Exiting method %s() returned | Result: %s", method, masking.Render(result)), nil
}

func (DefaultProvider) Error(method, kind, text string) (string, error) {
	return fmt.Sprintf("Error in method %s: %s - %s", method, kind, text), nil
}
