// Package masking скрывает значения чувствительных полей в текстовом
// представлении аргументов перед записью в лог.
//
// Поиск идёт по JSON-подобному шаблону "<key>": "<value>" без учёта регистра
// имени поля; значение заменяется на Marker. Текст без такого шаблона
// проходит без изменений.
package masking

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Marker заменяет значение чувствительного поля.
const Marker = "***"

const separator = ", "

// Policy — скомпилированная политика маскирования. Неизменяема после создания,
// поэтому безопасна для одновременного использования из разных goroutine.
type Policy struct {
	keys     []string
	patterns []*regexp.Regexp
	enabled  bool
}

// NewPolicy компилирует политику. Ключи обрезаются по пробелам, пустые
// отбрасываются, дубликаты (без учёта регистра) удаляются с сохранением порядка.
func NewPolicy(keys []string, enabled bool) *Policy {
	p := &Policy{enabled: enabled}
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		lower := strings.ToLower(k)
		if _, dup := seen[lower]; dup {
			continue
		}
		seen[lower] = struct{}{}
		p.keys = append(p.keys, k)
		p.patterns = append(p.patterns, regexp.MustCompile(`(?i)("`+regexp.QuoteMeta(k)+`"\s*:\s*")(?:[^"\\]|\\.)+"`))
	}
	return p
}

// Keys возвращает копию списка ключей.
func (p *Policy) Keys() []string {
	if p == nil {
		return nil
	}
	return append([]string(nil), p.keys...)
}

// Enabled сообщает, включено ли маскирование глобально.
func (p *Policy) Enabled() bool {
	return p != nil && p.enabled
}

func (p *Policy) active() bool {
	return p.Enabled() && len(p.patterns) > 0
}

// Mask возвращает строковые формы values через ", ".
// При apply == false, выключенной политике или пустом списке ключей
// значения не изменяются.
func (p *Policy) Mask(values []any, apply bool) string {
	if len(values) == 0 {
		return ""
	}
	redact := apply && p.active()
	parts := make([]string, len(values))
	for i, v := range values {
		s := Render(v)
		if redact {
			s = p.redact(s)
		}
		parts[i] = s
	}
	return strings.Join(parts, separator)
}

// MaskString маскирует одну строку, если политика активна.
func (p *Policy) MaskString(s string) string {
	if !p.active() {
		return s
	}
	return p.redact(s)
}

func (p *Policy) redact(s string) string {
	for _, re := range p.patterns {
		s = re.ReplaceAllString(s, "${1}"+Marker+`"`)
	}
	return s
}

// Render возвращает строковую форму v для лога. Паника в String()/Error()
// перехватывается fmt и превращается в %!v(PANIC=...).
func Render(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return x
	case []byte:
		return string(x)
	default:
		// fmt сам вызывает Error()/String() и перехватывает их панику.
		return fmt.Sprintf("%v", x)
	}
}

// JSON возвращает JSON-представление v, чтобы маскирование могло найти поля
// структур и map. При ошибке сериализации возвращает Render(v).
func JSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return Render(v)
	}
	return string(data)
}
