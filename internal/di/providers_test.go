package di

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/Kargones/logon/internal/adapter/mssql"
	"github.com/Kargones/logon/internal/adapter/mssql/mssqltest"
	"github.com/Kargones/logon/internal/config"
	"github.com/Kargones/logon/internal/message"
	"github.com/Kargones/logon/internal/pkg/alerting"
	"github.com/Kargones/logon/internal/pkg/metrics"
	"github.com/Kargones/logon/internal/pkg/testutil"
	"github.com/Kargones/logon/internal/sink"
)

// stubSQLClient подменяет фабрику SQL-транспорта на время теста.
func stubSQLClient(t *testing.T, client mssql.Client, err error) {
	t.Helper()
	orig := newSQLClient
	newSQLClient = func(mssql.Options, bool) (mssql.Client, error) {
		return client, err
	}
	t.Cleanup(func() { newSQLClient = orig })
}

func writerNames(writers []sink.Writer) []string {
	names := make([]string, 0, len(writers))
	for _, w := range writers {
		names = append(names, w.Name())
	}
	return names
}

func TestProvideLogger_File(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.Output = "file"
	cfg.Logging.FilePath = filepath.Join(t.TempDir(), "logs", "logon.log")

	logger, cleanup := ProvideLogger(cfg)
	require.NotNil(t, logger)
	logger.Info("проверка записи в файл")
	cleanup()

	data, err := os.ReadFile(cfg.Logging.FilePath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "проверка записи в файл")
}

func TestProvideSettings(t *testing.T) {
	cfg := config.Default()
	cfg.Logger.Locale = "pt-BR"
	cfg.Logger.EnableI18n = true

	store, err := ProvideSettings(cfg)
	require.NoError(t, err)
	s := store.Load()
	assert.True(t, s.Enabled)
	assert.True(t, s.EnableI18n)
	assert.Equal(t, language.MustParse("pt-BR"), s.Locale)
	assert.Equal(t, "logon", s.ProjectName)

	cfg.Logger.Locale = "zz-!!"
	_, err = ProvideSettings(cfg)
	assert.Error(t, err)
}

func TestProvideCatalog(t *testing.T) {
	logger := testutil.NewRecordingLogger()

	t.Run("встроенный каталог", func(t *testing.T) {
		cat, err := ProvideCatalog(config.Default(), logger)
		require.NoError(t, err)
		assert.Contains(t, cat.Languages(), language.English)
	})

	t.Run("каталог из файла", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "messages.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`default: en
messages:
  en:
    log.entry: "in {0} {1}"
    log.exit: "out {0} {1}"
    log.error: "fail {0} {1} {2}"
`), 0o600))
		cfg := config.Default()
		cfg.Logger.CatalogPath = path

		cat, err := ProvideCatalog(cfg, logger)
		require.NoError(t, err)
		text, err := cat.Render(language.English, "log.entry", "m", "x")
		require.NoError(t, err)
		assert.Equal(t, "in m x", text)
	})

	t.Run("файл не найден", func(t *testing.T) {
		cfg := config.Default()
		cfg.Logger.CatalogPath = filepath.Join(t.TempDir(), "missing.yaml")

		_, err := ProvideCatalog(cfg, logger)
		assert.Error(t, err)
	})
}

func TestProvideMessageProvider_FollowsSettings(t *testing.T) {
	store, err := ProvideSettings(config.Default())
	require.NoError(t, err)
	provider := ProvideMessageProvider(store, mustDefaultCatalog(t))

	text, err := provider.Entry("filterUsers", "{}")
	require.NoError(t, err)
	assert.Equal(t, "Entering method filterUsers() with | Args: {}", text)

	store.SetI18n(true)
	store.SetLocale(language.Russian)
	text, err = provider.Entry("filterUsers", "{}")
	require.NoError(t, err)
	assert.Equal(t, "Вход в метод filterUsers() | Аргументы: {}", text)
}

func TestProvideMetricsCollector_FallbackToNop(t *testing.T) {
	logger := testutil.NewRecordingLogger()
	cfg := config.Default()
	cfg.Metrics.Enabled = true
	cfg.Metrics.JobName = ""

	collector := ProvideMetricsCollector(cfg, logger)

	assert.IsType(t, &metrics.NopCollector{}, collector)
	assert.True(t, logger.Contains("error", "NopCollector"))
}

func TestProvideTracerProvider_FallbackToNop(t *testing.T) {
	logger := testutil.NewRecordingLogger()
	cfg := config.Default()
	cfg.Tracing.Enabled = true
	cfg.Tracing.Endpoint = ""

	tp := ProvideTracerProvider(cfg, logger)

	require.NotNil(t, tp)
	assert.NotNil(t, tp.Tracer())
	assert.NoError(t, tp.Shutdown(context.Background()))
	assert.True(t, logger.Contains("error", "nop provider"))
}

func TestProvideAlerter_FallbackToNop(t *testing.T) {
	logger := testutil.NewRecordingLogger()
	cfg := config.Default()
	cfg.Alerting.Enabled = true

	alerter := ProvideAlerter(cfg, logger)

	assert.Equal(t, alerting.NewNopAlerter(), alerter)
	assert.True(t, logger.Contains("error", "NopAlerter"))
}

func TestProvideWriters(t *testing.T) {
	nop := alerting.NewNopAlerter()

	t.Run("только logger", func(t *testing.T) {
		writers, cleanup := ProvideWriters(config.Default(), testutil.NewRecordingLogger(), nop)
		defer cleanup()
		assert.Equal(t, []string{"logger"}, writerNames(writers))
	})

	t.Run("alerting и SQL Server", func(t *testing.T) {
		closed := 0
		client := &mssqltest.MockClient{CloseFunc: func() error { closed++; return nil }}
		stubSQLClient(t, client, nil)
		cfg := config.Default()
		cfg.Alerting.Enabled = true
		cfg.SQLSink.Enabled = true
		cfg.SQLSink.Server = "db.local"

		writers, cleanup := ProvideWriters(cfg, testutil.NewRecordingLogger(), nop)
		assert.Equal(t, []string{"logger", "alerting", "mssql"}, writerNames(writers))

		cleanup()
		assert.Equal(t, 1, closed)
	})

	t.Run("SQL Server недоступен", func(t *testing.T) {
		client := &mssqltest.MockClient{ConnectFunc: func(context.Context) error {
			return errors.New("connection refused")
		}}
		stubSQLClient(t, client, nil)
		logger := testutil.NewRecordingLogger()
		cfg := config.Default()
		cfg.SQLSink.Enabled = true
		cfg.SQLSink.Server = "db.local"

		writers, cleanup := ProvideWriters(cfg, logger, nop)
		defer cleanup()
		assert.Equal(t, []string{"logger"}, writerNames(writers))
		assert.True(t, logger.Contains("error", "SQL Server недоступен"))
	})

	t.Run("таблица не создана", func(t *testing.T) {
		closed := false
		client := &mssqltest.MockClient{
			EnsureTableFunc: func(context.Context) error { return errors.New("permission denied") },
			CloseFunc:       func() error { closed = true; return nil },
		}
		stubSQLClient(t, client, nil)
		logger := testutil.NewRecordingLogger()
		cfg := config.Default()
		cfg.SQLSink.Enabled = true
		cfg.SQLSink.Server = "db.local"

		writers, cleanup := ProvideWriters(cfg, logger, nop)
		defer cleanup()
		assert.Equal(t, []string{"logger"}, writerNames(writers))
		assert.True(t, closed)
		assert.True(t, logger.Contains("error", "таблицу журнала"))
	})

	t.Run("некорректные параметры", func(t *testing.T) {
		stubSQLClient(t, nil, errors.New("bad table"))
		logger := testutil.NewRecordingLogger()
		cfg := config.Default()
		cfg.SQLSink.Enabled = true

		writers, cleanup := ProvideWriters(cfg, logger, nop)
		defer cleanup()
		assert.Equal(t, []string{"logger"}, writerNames(writers))
		assert.True(t, logger.Contains("error", "некорректные параметры"))
	})
}

func TestProvideSink_CleanupIsIdempotent(t *testing.T) {
	logger := testutil.NewRecordingLogger()
	s, cleanup := ProvideSink(config.Default(), []sink.Writer{sink.NewLoggerWriter(logger)}, metrics.NewNopCollector(), logger)

	s.Info("запись {}", 1)
	require.NoError(t, s.Close(context.Background()))
	cleanup()

	assert.True(t, logger.Contains("info", "запись 1"))
}

func TestProvideRegistry_RegistersMethods(t *testing.T) {
	store, err := ProvideSettings(config.Default())
	require.NoError(t, err)
	logger := testutil.NewRecordingLogger()
	s, cleanup := ProvideSink(config.Default(), nil, metrics.NewNopCollector(), logger)
	defer cleanup()
	ic := ProvideInterceptor(store, ProvideMessageProvider(store, mustDefaultCatalog(t)), s,
		metrics.NewNopCollector(), ProvideTracerProvider(config.Default(), logger), logger)

	reg, err := ProvideRegistry(ic)
	require.NoError(t, err)
	assert.NotEmpty(t, reg.Methods())
	assert.Same(t, ic, reg.Interceptor())
}

func mustDefaultCatalog(t *testing.T) *message.Catalog {
	t.Helper()
	cat, err := ProvideCatalog(config.Default(), testutil.NewRecordingLogger())
	require.NoError(t, err)
	return cat
}

func TestProvideSettingsWatcher(t *testing.T) {
	logger := testutil.NewRecordingLogger()

	t.Run("выключено", func(t *testing.T) {
		cfg := config.Default()
		cfg.Path = filepath.Join(t.TempDir(), "logon.yaml")
		store, err := ProvideSettings(cfg)
		require.NoError(t, err)

		w, cleanup := ProvideSettingsWatcher(cfg, store, logger)
		defer cleanup()
		assert.Nil(t, w)
	})

	t.Run("перечитывает файл", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "logon.yaml")
		require.NoError(t, os.WriteFile(path, []byte("logger:\n  watch: true\n"), 0o600))
		cfg, err := config.Load(path)
		require.NoError(t, err)
		store, err := ProvideSettings(cfg)
		require.NoError(t, err)

		w, cleanup := ProvideSettingsWatcher(cfg, store, logger)
		defer cleanup()
		require.NotNil(t, w)

		require.NoError(t, os.WriteFile(path, []byte("logger:\n  watch: true\n  enabled: false\n"), 0o600))
		assert.Eventually(t, func() bool { return !store.Load().Enabled }, 5*time.Second, 20*time.Millisecond)
	})
}
