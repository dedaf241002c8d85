package sink

import (
	"strings"

	"github.com/Kargones/logon/internal/masking"
)

// Format подставляет values в плейсхолдеры {} шаблона по порядку.
// Лишние значения игнорируются, для недостающих {} остаётся как есть.
// \{} выводится как литерал {}.
//
//	Format("[{}][{}] {}", "proj", "UserService", "text") // "[proj][UserService] text"
func Format(template string, values ...any) string {
	if !strings.Contains(template, "{}") {
		return template
	}
	var b strings.Builder
	b.Grow(len(template) + 16*len(values))
	next := 0
	for i := 0; i < len(template); i++ {
		c := template[i]
		if c == '\\' && strings.HasPrefix(template[i+1:], "{}") {
			b.WriteString("{}")
			i += 2
			continue
		}
		if c == '{' && i+1 < len(template) && template[i+1] == '}' {
			if next < len(values) {
				b.WriteString(masking.Render(values[next]))
				next++
			} else {
				b.WriteString("{}")
			}
			i++
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
