package di

import (
	"context"

	"golang.org/x/text/language"

	"github.com/Kargones/logon/internal/adapter/mssql"
	"github.com/Kargones/logon/internal/app"
	"github.com/Kargones/logon/internal/config"
	"github.com/Kargones/logon/internal/constants"
	"github.com/Kargones/logon/internal/interceptor"
	"github.com/Kargones/logon/internal/message"
	"github.com/Kargones/logon/internal/pkg/alerting"
	"github.com/Kargones/logon/internal/pkg/logging"
	"github.com/Kargones/logon/internal/pkg/metrics"
	"github.com/Kargones/logon/internal/pkg/tracing"
	"github.com/Kargones/logon/internal/settings"
	"github.com/Kargones/logon/internal/sink"
)

// newSQLClient создаёт SQL-транспорт. Подменяется в тестах.
var newSQLClient = func(opts mssql.Options, encrypt bool) (mssql.Client, error) {
	w, err := mssql.NewWriterWithEncrypt(opts, encrypt)
	if err != nil {
		return nil, err
	}
	return w, nil
}

func orDefault(cfg *config.Config) *config.Config {
	if cfg == nil {
		return config.Default()
	}
	return cfg
}

// ProvideLogger создаёт Logger по секции logging.
// Cleanup закрывает файл логов при output=file.
func ProvideLogger(cfg *config.Config) (logging.Logger, func()) {
	cfg = orDefault(cfg)
	logger, closer := logging.NewLogger(logging.Config{
		Format:     cfg.Logging.Format,
		Level:      cfg.Logging.Level,
		Output:     cfg.Logging.Output,
		FilePath:   cfg.Logging.FilePath,
		MaxSize:    cfg.Logging.MaxSize,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAge:     cfg.Logging.MaxAge,
		Compress:   cfg.Logging.Compress,
	})
	return logger, func() {
		_ = closer.Close() //nolint:errcheck // ошибку закрытия логов некуда писать
	}
}

// ProvideSettings создаёт хранилище настроек перехватчика по секции logger.
func ProvideSettings(cfg *config.Config) (*settings.Store, error) {
	return settings.FromConfig(orDefault(cfg).Logger)
}

// ProvideSettingsWatcher запускает перечитывание секции logger при изменении
// файла конфигурации (logger.watch). Возвращает nil, если наблюдение
// выключено или конфигурация загружена только из окружения.
func ProvideSettingsWatcher(cfg *config.Config, store *settings.Store, logger logging.Logger) (*settings.Watcher, func()) {
	cfg = orDefault(cfg)
	if !cfg.Logger.Watch || cfg.Path == "" {
		return nil, func() {}
	}
	w, err := settings.NewWatcher(cfg.Path, store, logger, 0)
	if err != nil {
		logger.Error("наблюдение за файлом конфигурации недоступно", "path", cfg.Path, "error", err)
		return nil, func() {}
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := w.Run(ctx); err != nil {
			logger.Warn("наблюдение за файлом конфигурации остановлено", "error", err)
		}
	}()
	logger.Debug("наблюдение за файлом конфигурации запущено", "path", cfg.Path)
	return w, func() {
		cancel()
		<-done
	}
}

// ProvideCatalog загружает каталог сообщений из logger.catalogPath
// или использует встроенный.
func ProvideCatalog(cfg *config.Config, logger logging.Logger) (*message.Catalog, error) {
	path := orDefault(cfg).Logger.CatalogPath
	if path == "" {
		return message.DefaultCatalog(), nil
	}
	cat, err := message.LoadCatalog(path)
	if err != nil {
		return nil, err
	}
	logger.Debug("каталог сообщений загружен", "path", path, "languages", len(cat.Languages()))
	return cat, nil
}

// ProvideMessageProvider связывает каталог и DefaultProvider через
// DelegatingProvider. Локаль и флаг i18n читаются из store при каждом вызове.
func ProvideMessageProvider(store *settings.Store, cat *message.Catalog) message.Provider {
	i18n := message.NewCatalogProvider(cat, func() language.Tag { return store.Load().Locale })
	return message.NewDelegatingProvider(i18n, message.NewDefaultProvider(), func() bool {
		return store.Load().EnableI18n
	})
}

// ProvideMetricsCollector создаёт Collector по секции metrics.
// При ошибке создания возвращает NopCollector и логирует ошибку.
func ProvideMetricsCollector(cfg *config.Config, logger logging.Logger) metrics.Collector {
	cfg = orDefault(cfg)
	collector, err := metrics.NewCollector(metrics.Config{
		Enabled:        cfg.Metrics.Enabled,
		PushgatewayURL: cfg.Metrics.PushgatewayURL,
		JobName:        cfg.Metrics.JobName,
		Timeout:        cfg.Metrics.Timeout,
		InstanceLabel:  cfg.Metrics.InstanceLabel,
	}, logger)
	if err != nil {
		logger.Error("ошибка создания MetricsCollector, используется NopCollector", "error", err)
		return metrics.NewNopCollector()
	}
	return collector
}

// ProvideTracerProvider создаёт OTel провайдер по секции tracing.
// При ошибке инициализации возвращает nop provider и логирует ошибку.
func ProvideTracerProvider(cfg *config.Config, logger logging.Logger) *tracing.Provider {
	cfg = orDefault(cfg)
	tp, err := tracing.NewTracerProvider(tracing.Config{
		Enabled:      cfg.Tracing.Enabled,
		Endpoint:     cfg.Tracing.Endpoint,
		ServiceName:  cfg.Tracing.ServiceName,
		Version:      constants.Version,
		Environment:  cfg.Tracing.Environment,
		Insecure:     cfg.Tracing.Insecure,
		Timeout:      cfg.Tracing.Timeout,
		SamplingRate: cfg.Tracing.SamplingRate,
	}, logger)
	if err != nil {
		logger.Error("ошибка инициализации tracing, используется nop provider", "error", err)
		return tracing.NewNopProvider()
	}
	return tp
}

// ProvideAlerter создаёт Alerter по секции alerting.
// При ошибке создания возвращает NopAlerter и логирует ошибку.
func ProvideAlerter(cfg *config.Config, logger logging.Logger) alerting.Alerter {
	cfg = orDefault(cfg)
	a := cfg.Alerting
	alerter, err := alerting.NewAlerter(alerting.Config{
		Enabled:         a.Enabled,
		RateLimitWindow: a.RateLimitWindow,
		Webhook: alerting.WebhookConfig{
			URLs:       a.URLs,
			Headers:    a.Headers,
			Timeout:    a.Timeout,
			MaxRetries: a.MaxRetries,
		},
		Rules: alerting.RulesConfig{
			MinSeverity:       a.MinSeverity,
			IncludeCodes:      a.IncludeCodes,
			ExcludeCodes:      a.ExcludeCodes,
			IncludeComponents: a.IncludeComponents,
			ExcludeComponents: a.ExcludeComponents,
		},
	}, logger)
	if err != nil {
		logger.Error("ошибка создания Alerter, используется NopAlerter", "error", err)
		return alerting.NewNopAlerter()
	}
	return alerter
}

// ProvideWriters собирает транспорты sink'а: logger всегда, alerting и
// SQL Server по конфигурации. Недоступный SQL Server не прерывает запуск:
// транспорт пропускается с ошибкой в логе.
func ProvideWriters(cfg *config.Config, logger logging.Logger, alerter alerting.Alerter) ([]sink.Writer, func()) {
	cfg = orDefault(cfg)
	writers := []sink.Writer{sink.NewLoggerWriter(logger)}
	cleanup := func() {}

	if cfg.Alerting.Enabled {
		writers = append(writers, sink.NewAlertWriter(alerter))
	}

	if cfg.SQLSink.Enabled {
		if client := connectSQL(cfg.SQLSink, logger); client != nil {
			writers = append(writers, client)
			cleanup = func() {
				if err := client.Close(); err != nil {
					logger.Warn("ошибка закрытия соединения с SQL Server", "error", err)
				}
			}
		}
	}
	return writers, cleanup
}

func connectSQL(c config.SQLSinkConfig, logger logging.Logger) mssql.Client {
	client, err := newSQLClient(mssql.Options{
		Server:   c.Server,
		Port:     c.Port,
		User:     c.User,
		Password: c.Password,
		Database: c.Database,
		Table:    c.Table,
		Timeout:  c.Timeout,

		ConnectAttempts: c.ConnectAttempts,
	}, c.Encrypt)
	if err != nil {
		logger.Error("некорректные параметры SQL-транспорта, запись в SQL Server отключена", "error", err)
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.Timeout)
	defer cancel()

	if err := client.Connect(ctx); err != nil {
		logger.Error("SQL Server недоступен, запись в SQL Server отключена", "server", c.Server, "error", err)
		return nil
	}
	if err := client.EnsureTable(ctx); err != nil {
		logger.Error("не удалось подготовить таблицу журнала, запись в SQL Server отключена",
			"table", c.Table, "error", err)
		_ = client.Close() //nolint:errcheck // исходная ошибка важнее
		return nil
	}
	logger.Info("SQL-транспорт подключён", "server", c.Server, "table", c.Table)
	return client
}

// ProvideSink создаёт AsyncSink. Cleanup закрывает его, если App.Shutdown
// не был вызван (повторное закрытие безопасно).
func ProvideSink(cfg *config.Config, writers []sink.Writer, collector metrics.Collector, logger logging.Logger) (*sink.AsyncSink, func()) {
	cfg = orDefault(cfg)
	s := sink.NewAsyncSink(sink.Config{
		QueueSize:    cfg.Sink.QueueSize,
		Overflow:     cfg.Sink.Overflow,
		WriteTimeout: cfg.Sink.WriteTimeout,
	}, writers, collector, logger)
	return s, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Sink.ShutdownTimeout)
		defer cancel()
		_ = s.Close(ctx) //nolint:errcheck // потери учтены в метриках и логе
	}
}

// ProvideInterceptor собирает перехватчик.
func ProvideInterceptor(
	store *settings.Store,
	provider message.Provider,
	s *sink.AsyncSink,
	collector metrics.Collector,
	tp *tracing.Provider,
	logger logging.Logger,
) *interceptor.Interceptor {
	return interceptor.New(store, provider, s,
		interceptor.WithMetrics(collector),
		interceptor.WithTracer(tp.Tracer()),
		interceptor.WithLogger(logger),
	)
}

// ProvideRegistry создаёт таблицу перехватываемых методов и регистрирует
// методы приложения.
func ProvideRegistry(ic *interceptor.Interceptor) (*interceptor.Registry, error) {
	reg := interceptor.NewRegistry(ic)
	if err := app.RegisterMethods(reg); err != nil {
		return nil, err
	}
	return reg, nil
}

// ProvideUserService создаёт сервис примера.
func ProvideUserService(reg *interceptor.Registry) *app.UserService {
	return app.NewUserService(reg)
}

// ProvideUserController создаёт контроллер примера.
func ProvideUserController(reg *interceptor.Registry, service *app.UserService) *app.UserController {
	return app.NewUserController(reg, service)
}
