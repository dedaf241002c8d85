package message

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"github.com/Kargones/logon/internal/pkg/apperrors"
)

// ErrMessageNotFound — sentinel для errors.Is: ключ не найден ни в запрошенной,
// ни в локали по умолчанию.
var ErrMessageNotFound = &apperrors.AppError{Code: apperrors.ErrCatalogMessageNotFound}

// Catalog хранит шаблоны сообщений по ключу и локали поверх x/text/message/catalog.
// Шаблоны используют позиционные плейсхолдеры {0}, {1}, ...
type Catalog struct {
	mu      sync.RWMutex
	builder *catalog.Builder
	def     language.Tag
	index   map[language.Tag]map[string]struct{}
	tags    []language.Tag
	matcher language.Matcher
}

// NewCatalog создаёт пустой каталог с локалью по умолчанию def.
func NewCatalog(def language.Tag) *Catalog {
	c := &Catalog{
		builder: catalog.NewBuilder(catalog.Fallback(def)),
		def:     def,
		index:   make(map[language.Tag]map[string]struct{}),
	}
	c.rebuildLocked()
	return c
}

// Default возвращает локаль по умолчанию.
func (c *Catalog) Default() language.Tag {
	return c.def
}

// Set добавляет или заменяет шаблон key для локали tag.
func (c *Catalog) Set(tag language.Tag, key, template string) error {
	if key == "" {
		return apperrors.NewAppError(apperrors.ErrCatalogInvalid, "пустой ключ сообщения", nil)
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.builder.SetString(tag, key, convertPlaceholders(template)); err != nil {
		return apperrors.NewAppError(apperrors.ErrCatalogInvalid,
			fmt.Sprintf("некорректный шаблон %q для %s", key, tag), err)
	}
	keys, ok := c.index[tag]
	if !ok {
		keys = make(map[string]struct{})
		c.index[tag] = keys
		c.rebuildLocked()
	}
	keys[key] = struct{}{}
	return nil
}

// Has сообщает, есть ли шаблон key ровно для локали tag.
func (c *Catalog) Has(tag language.Tag, key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.index[tag][key]
	return ok
}

// Languages возвращает локали каталога; локаль по умолчанию первая.
func (c *Catalog) Languages() []language.Tag {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]language.Tag(nil), c.tags...)
}

// rebuildLocked пересобирает список локалей и matcher. Вызывается под c.mu.Lock.
func (c *Catalog) rebuildLocked() {
	tags := make([]language.Tag, 0, len(c.index)+1)
	tags = append(tags, c.def)
	rest := make([]language.Tag, 0, len(c.index))
	for tag := range c.index {
		if tag != c.def {
			rest = append(rest, tag)
		}
	}
	sort.Slice(rest, func(i, j int) bool { return rest[i].String() < rest[j].String() })
	c.tags = append(tags, rest...)
	c.matcher = language.NewMatcher(c.tags)
}

// Match возвращает локаль каталога, наиболее подходящую к tag.
// При отсутствии совпадения возвращается локаль по умолчанию.
func (c *Catalog) Match(tag language.Tag) language.Tag {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.matchLocked(tag)
}

func (c *Catalog) matchLocked(tag language.Tag) language.Tag {
	_, idx, conf := c.matcher.Match(tag)
	if conf == language.No {
		return c.def
	}
	return c.tags[idx]
}

// Render подставляет args в шаблон key для локали tag.
// Порядок поиска: подходящая локаль, затем локаль по умолчанию.
func (c *Catalog) Render(tag language.Tag, key string, args ...any) (string, error) {
	c.mu.RLock()
	resolved := c.matchLocked(tag)
	if _, ok := c.index[resolved][key]; !ok {
		resolved = c.def
		if _, ok := c.index[resolved][key]; !ok {
			c.mu.RUnlock()
			return "", apperrors.NewAppError(apperrors.ErrCatalogMessageNotFound,
				fmt.Sprintf("сообщение %q не найдено для локали %s", key, tag), nil)
		}
	}
	c.mu.RUnlock()

	p := message.NewPrinter(resolved, message.Catalog(c.builder))
	return p.Sprintf(key, args...), nil
}

// convertPlaceholders переводит {N} в %[N+1]v и экранирует литеральный %.
func convertPlaceholders(template string) string {
	var b strings.Builder
	b.Grow(len(template) + 8)
	for i := 0; i < len(template); i++ {
		ch := template[i]
		switch {
		case ch == '%':
			b.WriteString("%%")
		case ch == '{':
			j := i + 1
			for j < len(template) && template[j] >= '0' && template[j] <= '9' {
				j++
			}
			if j > i+1 && j < len(template) && template[j] == '}' {
				n := 0
				for _, d := range template[i+1 : j] {
					n = n*10 + int(d-'0')
				}
				fmt.Fprintf(&b, "%%[%d]v", n+1)
				i = j
				continue
			}
			b.WriteByte(ch)
		default:
			b.WriteByte(ch)
		}
	}
	return b.String()
}
