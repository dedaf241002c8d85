// Package settings хранит текущий снимок настроек перехватчика.
//
// Снимок неизменяем: изменения публикуются заменой указателя (copy-on-write),
// поэтому один вызов всегда видит согласованный набор значений.
package settings

import (
	"fmt"
	"sync/atomic"

	"golang.org/x/text/language"

	"github.com/Kargones/logon/internal/config"
	"github.com/Kargones/logon/internal/masking"
	"github.com/Kargones/logon/internal/pkg/apperrors"
)

// Settings — снимок конфигурационной поверхности перехватчика.
type Settings struct {
	// Enabled — при false вызовы проходят без записей, спанов и метрик.
	Enabled bool

	ProjectName string

	// EnableI18n выбирает локализованный провайдер сообщений.
	EnableI18n bool

	Locale language.Tag

	// Masking — скомпилированная политика маскирования. Никогда не nil
	// в снимках, созданных NewStore.
	Masking *masking.Policy
}

// Store публикует снимки Settings. Безопасен для конкурентного использования.
type Store struct {
	current atomic.Pointer[Settings]
}

// NewStore создаёт хранилище с начальным снимком s.
func NewStore(s Settings) *Store {
	if s.Masking == nil {
		s.Masking = masking.NewPolicy(nil, false)
	}
	st := &Store{}
	st.current.Store(&s)
	return st
}

// FromConfig строит хранилище по секции logger конфигурации.
func FromConfig(cfg config.LoggerConfig) (*Store, error) {
	s, err := fromConfig(cfg)
	if err != nil {
		return nil, err
	}
	return NewStore(s), nil
}

func fromConfig(cfg config.LoggerConfig) (Settings, error) {
	tag, err := language.Parse(cfg.Locale)
	if err != nil {
		return Settings{}, apperrors.NewAppError(apperrors.ErrConfigValidate,
			fmt.Sprintf("некорректная локаль %q", cfg.Locale), err)
	}
	return Settings{
		Enabled:     cfg.Enabled,
		ProjectName: cfg.ProjectName,
		EnableI18n:  cfg.EnableI18n,
		Locale:      tag,
		Masking:     masking.NewPolicy(cfg.SensitiveKeys, cfg.MaskingEnabled),
	}, nil
}

// Apply заменяет снимок целиком значениями секции logger.
// При ошибке текущий снимок не меняется.
func (s *Store) Apply(cfg config.LoggerConfig) error {
	next, err := fromConfig(cfg)
	if err != nil {
		return err
	}
	s.current.Store(&next)
	return nil
}

// Load возвращает текущий снимок. Вызывающий код не должен его изменять.
func (s *Store) Load() *Settings {
	return s.current.Load()
}

// Update применяет fn к копии текущего снимка и публикует результат.
// Конкурентные Update не теряют изменений друг друга.
func (s *Store) Update(fn func(*Settings)) {
	for {
		old := s.current.Load()
		next := *old
		fn(&next)
		if next.Masking == nil {
			next.Masking = masking.NewPolicy(nil, false)
		}
		if s.current.CompareAndSwap(old, &next) {
			return
		}
	}
}

// SetEnabled включает или выключает перехват.
func (s *Store) SetEnabled(enabled bool) {
	s.Update(func(st *Settings) { st.Enabled = enabled })
}

// SetI18n переключает провайдер сообщений.
func (s *Store) SetI18n(enabled bool) {
	s.Update(func(st *Settings) { st.EnableI18n = enabled })
}

// SetLocale меняет локаль каталога.
func (s *Store) SetLocale(tag language.Tag) {
	s.Update(func(st *Settings) { st.Locale = tag })
}

// SetSensitiveKeys заменяет список маскируемых ключей, сохраняя флаг
// включения маскирования.
func (s *Store) SetSensitiveKeys(keys []string) {
	s.Update(func(st *Settings) {
		st.Masking = masking.NewPolicy(keys, st.Masking.Enabled())
	})
}

// SetMaskingEnabled включает или выключает маскирование, сохраняя ключи.
func (s *Store) SetMaskingEnabled(enabled bool) {
	s.Update(func(st *Settings) {
		st.Masking = masking.NewPolicy(st.Masking.Keys(), enabled)
	})
}
