//go:build wireinject

package di

import (
	"github.com/google/wire"

	"github.com/Kargones/logon/internal/config"
)

//go:generate wire

// ProviderSet объединяет все провайдеры приложения.
// Используется в InitializeApp для построения графа зависимостей.
//
// При добавлении новых провайдеров:
// 1. Создать функцию провайдера в providers.go
// 2. Добавить её в ProviderSet
// 3. Перегенерировать: go generate ./internal/di/...
var ProviderSet = wire.NewSet(
	ProvideLogger,
	ProvideSettings,
	ProvideSettingsWatcher,
	ProvideCatalog,
	ProvideMessageProvider,
	ProvideMetricsCollector,
	ProvideTracerProvider,
	ProvideAlerter,
	ProvideWriters,
	ProvideSink,
	ProvideInterceptor,
	ProvideRegistry,
	ProvideUserService,
	ProvideUserController,
	wire.Struct(new(App), "*"),
)

// InitializeApp создаёт App через Wire DI.
// Принимает Config, загруженный через config.Load().
//
// Возвращаемая cleanup-функция закрывает файл логов и соединение с SQL
// Server; вызывать её после App.Shutdown:
//
//	application, cleanup, err := di.InitializeApp(cfg)
//	if err != nil {
//	    return err
//	}
//	defer cleanup()
//	defer application.Shutdown(ctx)
func InitializeApp(cfg *config.Config) (*App, func(), error) {
	wire.Build(ProviderSet)
	return nil, nil, nil // Wire заменит это на реальную реализацию
}
