package di

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/Kargones/logon/internal/adapter/mssql/mssqltest"
	"github.com/Kargones/logon/internal/app"
	"github.com/Kargones/logon/internal/config"
	"github.com/Kargones/logon/internal/pkg/apperrors"
	"github.com/Kargones/logon/internal/sink"
)

// fileConfig направляет логи приложения в файл, чтобы тест мог их прочитать.
func fileConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Logging.Output = "file"
	cfg.Logging.FilePath = filepath.Join(t.TempDir(), "logon.log")
	return cfg
}

// runApp собирает приложение, выполняет fn и возвращает строки лога
// после остановки.
func runApp(t *testing.T, cfg *config.Config, fn func(a *App)) []string {
	t.Helper()
	application, cleanup, err := InitializeApp(cfg)
	require.NoError(t, err)

	fn(application)

	require.NoError(t, application.Shutdown(context.Background()))
	cleanup()

	data, err := os.ReadFile(cfg.Logging.FilePath)
	require.NoError(t, err)
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func linesWith(lines []string, substr string) []string {
	var out []string
	for _, l := range lines {
		if strings.Contains(l, substr) {
			out = append(out, l)
		}
	}
	return out
}

func TestInitializeApp_Defaults(t *testing.T) {
	application, cleanup, err := InitializeApp(config.Default())
	require.NoError(t, err)
	defer cleanup()

	assert.NotNil(t, application.Logger)
	assert.NotNil(t, application.Settings)
	assert.NotNil(t, application.Catalog)
	assert.NotNil(t, application.Provider)
	assert.NotNil(t, application.MetricsCollector)
	assert.NotNil(t, application.Tracer)
	assert.NotNil(t, application.Alerter)
	assert.NotNil(t, application.Sink)
	assert.Same(t, application.Interceptor, application.Registry.Interceptor())
	assert.NotNil(t, application.Controller)

	assert.NoError(t, application.Shutdown(context.Background()))
}

func TestInitializeApp_InvalidCatalog(t *testing.T) {
	cfg := config.Default()
	cfg.Logger.CatalogPath = filepath.Join(t.TempDir(), "missing.yaml")

	application, cleanup, err := InitializeApp(cfg)

	require.Error(t, err)
	assert.Nil(t, application)
	assert.Nil(t, cleanup)
}

func TestApp_FilterUsers_Success(t *testing.T) {
	cfg := fileConfig(t)
	var result string

	lines := runApp(t, cfg, func(a *App) {
		var err error
		result, err = a.Controller.FilterUsers(context.Background(), app.UserFilter{Name: "Ann", Email: "ann@example.com"})
		require.NoError(t, err)
	})

	assert.Equal(t, app.FilterResult, result)
	require.Len(t, linesWith(lines, "Entering method filterUsers()"), 1)
	require.Len(t, linesWith(lines, "Exiting method filterUsers()"), 1)
	assert.Len(t, linesWith(lines, "Entering method a()"), 2)
	assert.Len(t, linesWith(lines, "[logon][UserService]"), 8)
	assert.Contains(t, linesWith(lines, "Exiting method filterUsers()")[0], app.FilterResult)
}

func TestApp_FilterUsers_EmailRequired(t *testing.T) {
	cfg := fileConfig(t)

	lines := runApp(t, cfg, func(a *App) {
		_, err := a.Controller.FilterUsers(context.Background(), app.UserFilter{Name: "Ann"})
		require.Error(t, err)
		assert.Equal(t, apperrors.KindIllegalArgument, apperrors.KindOf(err))
		assert.Equal(t, 400, apperrors.StatusOf(err, 500))
	})

	errLines := linesWith(lines, "Error in method filterUsers: IllegalArgument - email required")
	require.Len(t, errLines, 1)
	assert.Contains(t, errLines[0], "level=ERROR")
	assert.Empty(t, linesWith(lines, "[logon][UserService]"))
}

func TestApp_FilterUsers_LocalizedAtRuntime(t *testing.T) {
	cfg := fileConfig(t)

	lines := runApp(t, cfg, func(a *App) {
		a.Settings.SetI18n(true)
		a.Settings.SetLocale(language.MustParse("pt-BR"))
		_, err := a.Controller.FilterUsers(context.Background(), app.UserFilter{Email: "ann@example.com"})
		require.NoError(t, err)
	})

	assert.Len(t, linesWith(lines, "Entrando no método: filterUsers()"), 1)
	assert.Empty(t, linesWith(lines, "Entering method"))
}

func TestApp_FilterUsers_Disabled(t *testing.T) {
	cfg := fileConfig(t)
	cfg.Logger.Enabled = false

	lines := runApp(t, cfg, func(a *App) {
		_, err := a.Controller.FilterUsers(context.Background(), app.UserFilter{Email: "ann@example.com"})
		require.NoError(t, err)
	})

	assert.Empty(t, linesWith(lines, "[logon]"))
}

func TestApp_SQLSinkReceivesRecords(t *testing.T) {
	client := &mssqltest.MockClient{}
	stubSQLClient(t, client, nil)
	cfg := fileConfig(t)
	cfg.SQLSink.Enabled = true
	cfg.SQLSink.Server = "db.local"

	runApp(t, cfg, func(a *App) {
		_, err := a.Controller.FilterUsers(context.Background(), app.UserFilter{Email: "ann@example.com"})
		require.NoError(t, err)
	})

	written := client.Written()
	require.Len(t, written, 10)
	traceID := written[0].Attr(sink.AttrTraceID)
	require.NotEmpty(t, traceID)
	for _, e := range written {
		assert.Equal(t, traceID, e.Attr(sink.AttrTraceID), "вложенные вызовы разделяют trace id")
		assert.Equal(t, sink.SeverityInfo, e.Severity)
	}
	assert.Equal(t, app.MethodFilterUsers, written[0].Attr(sink.AttrMethod))
	assert.Equal(t, app.MethodFilterUsers, written[len(written)-1].Attr(sink.AttrMethod))
}
