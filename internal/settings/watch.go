package settings

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Kargones/logon/internal/config"
	"github.com/Kargones/logon/internal/pkg/logging"
)

// DefaultReloadDebounce — окно, в котором события одного сохранения файла
// схлопываются в одну перезагрузку.
const DefaultReloadDebounce = 200 * time.Millisecond

// Watcher перечитывает файл конфигурации при изменении и публикует секцию
// logger в Store. Файл с ошибками не меняет текущий снимок.
type Watcher struct {
	path     string
	store    *Store
	logger   logging.Logger
	debounce time.Duration
	fsw      *fsnotify.Watcher
	reloads  atomic.Int64
}

// NewWatcher подписывается на каталог файла path.
// Наблюдается каталог, а не файл: редакторы сохраняют файл через rename.
func NewWatcher(path string, store *Store, logger logging.Logger, debounce time.Duration) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close() //nolint:errcheck // исходная ошибка важнее
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	if debounce <= 0 {
		debounce = DefaultReloadDebounce
	}
	return &Watcher{
		path:     abs,
		store:    store,
		logger:   logging.OrNop(logger),
		debounce: debounce,
		fsw:      fsw,
	}, nil
}

// Run обрабатывает события до отмены ctx и закрывает подписку при выходе.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			timer.Reset(w.debounce)
		case <-timer.C:
			w.reload()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("ошибка наблюдения за файлом конфигурации", "path", w.path, "error", err)
		}
	}
}

// Reloads возвращает число применённых перезагрузок.
func (w *Watcher) Reloads() int64 {
	return w.reloads.Load()
}

func (w *Watcher) reload() {
	cfg, err := config.Load(w.path)
	if err != nil {
		w.logger.Warn("конфигурация не перечитана, действуют прежние настройки", "path", w.path, "error", err)
		return
	}
	if err := w.store.Apply(cfg.Logger); err != nil {
		w.logger.Warn("конфигурация не применена, действуют прежние настройки", "path", w.path, "error", err)
		return
	}
	w.reloads.Add(1)
	w.logger.Info("настройки перехватчика обновлены",
		"path", w.path,
		"enabled", cfg.Logger.Enabled,
		"i18n", cfg.Logger.EnableI18n,
		"locale", cfg.Logger.Locale,
	)
}
