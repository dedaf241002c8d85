package message

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/Kargones/logon/internal/pkg/apperrors"
)

//go:embed catalog/messages.yaml catalog/catalog.schema.json
var catalogFS embed.FS

const schemaURL = "https://github.com/Kargones/logon/catalog.schema.json"

// catalogFile — структура YAML-файла каталога.
type catalogFile struct {
	Default  string                       `yaml:"default" json:"default"`
	Messages map[string]map[string]string `yaml:"messages" json:"messages"`
}

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func catalogSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		raw, err := catalogFS.ReadFile("catalog/catalog.schema.json")
		if err != nil {
			schemaErr = err
			return
		}
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
		if err != nil {
			schemaErr = err
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, doc); err != nil {
			schemaErr = err
			return
		}
		schema, schemaErr = c.Compile(schemaURL)
	})
	return schema, schemaErr
}

// LoadCatalog читает каталог из YAML-файла.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path) //nolint:gosec // путь задаётся конфигурацией
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrCatalogInvalid,
			fmt.Sprintf("не удалось прочитать каталог %s", path), err)
	}
	return ParseCatalog(data)
}

// ParseCatalog разбирает YAML-документ каталога и проверяет его по JSON Schema.
func ParseCatalog(data []byte) (*Catalog, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, invalid("некорректный YAML каталога", err)
	}
	// yaml.v3 и JSON Schema работают с разными типами чисел и map,
	// поэтому документ нормализуется через JSON.
	instance, err := toJSONValue(raw)
	if err != nil {
		return nil, invalid("каталог не приводится к JSON", err)
	}
	sch, err := catalogSchema()
	if err != nil {
		return nil, invalid("не удалось скомпилировать схему каталога", err)
	}
	if err := sch.Validate(instance); err != nil {
		return nil, invalid("каталог не соответствует схеме", err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, invalid("некорректная структура каталога", err)
	}
	def, err := language.Parse(file.Default)
	if err != nil {
		return nil, invalid(fmt.Sprintf("некорректная локаль по умолчанию %q", file.Default), err)
	}

	cat := NewCatalog(def)
	locales := make([]string, 0, len(file.Messages))
	for locale := range file.Messages {
		locales = append(locales, locale)
	}
	sort.Strings(locales)
	for _, locale := range locales {
		tag, err := language.Parse(locale)
		if err != nil {
			return nil, invalid(fmt.Sprintf("некорректная локаль %q", locale), err)
		}
		for key, tmpl := range file.Messages[locale] {
			if err := cat.Set(tag, key, tmpl); err != nil {
				return nil, err
			}
		}
	}
	return cat, nil
}

// DefaultCatalog возвращает встроенный каталог (en, pt-BR, ru).
// Встроенный файл проверяется тестами, поэтому ошибка здесь — ошибка сборки.
func DefaultCatalog() *Catalog {
	data, err := catalogFS.ReadFile("catalog/messages.yaml")
	if err != nil {
		panic(fmt.Sprintf("message: встроенный каталог недоступен: %v", err))
	}
	cat, err := ParseCatalog(data)
	if err != nil {
		panic(fmt.Sprintf("message: встроенный каталог некорректен: %v", err))
	}
	return cat
}

func toJSONValue(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func invalid(msg string, cause error) error {
	return apperrors.NewAppError(apperrors.ErrCatalogInvalid, msg, cause)
}
