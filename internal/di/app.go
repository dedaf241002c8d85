package di

import (
	"context"
	"errors"
	"time"

	"github.com/Kargones/logon/internal/app"
	"github.com/Kargones/logon/internal/config"
	"github.com/Kargones/logon/internal/interceptor"
	"github.com/Kargones/logon/internal/message"
	"github.com/Kargones/logon/internal/pkg/alerting"
	"github.com/Kargones/logon/internal/pkg/logging"
	"github.com/Kargones/logon/internal/pkg/metrics"
	"github.com/Kargones/logon/internal/pkg/tracing"
	"github.com/Kargones/logon/internal/settings"
	"github.com/Kargones/logon/internal/sink"
)

// App содержит инициализированные зависимости приложения.
// Создаётся через Wire DI в InitializeApp().
//
// При добавлении новых зависимостей:
// 1. Добавить поле в App struct
// 2. Создать провайдер в providers.go
// 3. Добавить провайдер в ProviderSet в wire.go
// 4. Перегенерировать wire_gen.go: go generate ./internal/di/...
type App struct {
	// Config содержит конфигурацию приложения.
	// Передаётся извне через InitializeApp().
	Config *config.Config

	// Logger — диагностический логгер и основной транспорт записей.
	Logger logging.Logger

	// Settings — изменяемый во время работы снимок настроек перехватчика.
	Settings *settings.Store

	// Watcher перечитывает секцию logger при изменении файла; nil, если
	// logger.watch выключен.
	Watcher *settings.Watcher

	// Catalog — каталог локализованных сообщений.
	Catalog *message.Catalog

	// Provider выбирает между каталогом и DefaultProvider по флагу i18n.
	Provider message.Provider

	// MetricsCollector — NopCollector при выключенных метриках.
	MetricsCollector metrics.Collector

	// Tracer — nop provider при выключенном трейсинге.
	Tracer *tracing.Provider

	// Alerter — NopAlerter при выключенном алертинге.
	Alerter alerting.Alerter

	Sink        *sink.AsyncSink
	Interceptor *interceptor.Interceptor
	Registry    *interceptor.Registry

	// Controller — пример прикладного кода, проходящего через перехватчик.
	Controller *app.UserController
}

// Shutdown дренирует очередь записей, завершает трейсинг и отправляет
// метрики. Таймаут дренажа берётся из sink.shutdownTimeout, если ctx
// не задаёт более ранний срок.
func (a *App) Shutdown(ctx context.Context) error {
	timeout := 10 * time.Second
	if a.Config != nil && a.Config.Sink.ShutdownTimeout > 0 {
		timeout = a.Config.Sink.ShutdownTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var errs []error
	if a.Sink != nil {
		if err := a.Sink.Close(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if a.Tracer != nil {
		if err := a.Tracer.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if a.MetricsCollector != nil {
		_ = a.MetricsCollector.Push(ctx) //nolint:errcheck // Push всегда возвращает nil
	}
	return errors.Join(errs...)
}
