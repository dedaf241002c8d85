package message

import (
	"golang.org/x/text/language"

	"github.com/Kargones/logon/internal/masking"
)

// CatalogProvider рендерит сообщения из Catalog для локали, которую
// возвращает locale в момент вызова.
type CatalogProvider struct {
	catalog *Catalog
	locale  func() language.Tag
}

// NewCatalogProvider создаёт CatalogProvider. При nil locale используется
// локаль по умолчанию каталога.
func NewCatalogProvider(cat *Catalog, locale func() language.Tag) *CatalogProvider {
	if locale == nil {
		def := cat.Default()
		locale = func() language.Tag { return def }
	}
	return &CatalogProvider{catalog: cat, locale: locale}
}

func (p *CatalogProvider) Entry(method, args string) (string, error) {
	return p.catalog.Render(p.locale(), KeyEntry, method, args)
}

func (p *CatalogProvider) Exit(method string, result any) (string, error) {
	return p.catalog.Render(p.locale(), KeyExit, method, masking.Render(result))
}

func (p *CatalogProvider) Error(method, kind, text string) (string, error) {
	return p.catalog.Render(p.locale(), KeyError, method, kind, text)
}
