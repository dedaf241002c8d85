package settings

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/Kargones/logon/internal/config"
	"github.com/Kargones/logon/internal/pkg/testutil"
)

func writeConfig(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
}

// startWatcher запускает Watcher и останавливает его по завершении теста.
func startWatcher(t *testing.T, path string, store *Store, logger *testutil.RecordingLogger) *Watcher {
	t.Helper()
	w, err := NewWatcher(path, store, logger, 10*time.Millisecond)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		assert.NoError(t, w.Run(ctx))
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return w
}

func TestWatcher_ReloadsLoggerSection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logon.yaml")
	writeConfig(t, path, "logger:\n  enabled: true\n  locale: en\n")
	cfg, err := config.Load(path)
	require.NoError(t, err)
	store, err := FromConfig(cfg.Logger)
	require.NoError(t, err)
	logger := testutil.NewRecordingLogger()
	w := startWatcher(t, path, store, logger)

	writeConfig(t, path, "logger:\n  enabled: false\n  enableI18n: true\n  locale: ru\n")

	require.Eventually(t, func() bool { return w.Reloads() >= 1 }, 5*time.Second, 10*time.Millisecond)
	s := store.Load()
	assert.False(t, s.Enabled)
	assert.True(t, s.EnableI18n)
	assert.Equal(t, language.Russian, s.Locale)
	assert.True(t, logger.Contains("info", "настройки перехватчика обновлены"))
}

func TestWatcher_InvalidFileKeepsSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logon.yaml")
	writeConfig(t, path, "logger:\n  locale: en\n")
	store, err := FromConfig(config.Default().Logger)
	require.NoError(t, err)
	logger := testutil.NewRecordingLogger()
	w := startWatcher(t, path, store, logger)

	writeConfig(t, path, "logger:\n  locale: zz-!!\n")

	require.Eventually(t, func() bool {
		return logger.Contains("warn", "конфигурация не перечитана")
	}, 5*time.Second, 10*time.Millisecond)
	assert.Zero(t, w.Reloads())
	assert.Equal(t, language.English, store.Load().Locale)
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "logon.yaml")
	writeConfig(t, path, "logger:\n  locale: en\n")
	store, err := FromConfig(config.Default().Logger)
	require.NoError(t, err)
	w := startWatcher(t, path, store, testutil.NewRecordingLogger())

	writeConfig(t, filepath.Join(dir, "other.yaml"), "logger:\n  enabled: false\n")

	assert.Never(t, func() bool { return w.Reloads() > 0 }, 200*time.Millisecond, 20*time.Millisecond)
	assert.True(t, store.Load().Enabled)
}

func TestNewWatcher_MissingDirectory(t *testing.T) {
	_, err := NewWatcher(filepath.Join(t.TempDir(), "missing", "logon.yaml"), NewStore(Settings{}), nil, 0)
	assert.Error(t, err)
}
