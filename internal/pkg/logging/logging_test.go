package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerWithWriter_LevelFiltering(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		write     func(Logger)
		wantEmpty bool
	}{
		{"debug скрыт при info", LevelInfo, func(l Logger) { l.Debug("msg") }, true},
		{"info виден при info", LevelInfo, func(l Logger) { l.Info("msg") }, false},
		{"warn скрыт при error", LevelError, func(l Logger) { l.Warn("msg") }, true},
		{"error виден при error", LevelError, func(l Logger) { l.Error("msg") }, false},
		{"debug виден при debug", LevelDebug, func(l Logger) { l.Debug("msg") }, false},
		{"пустой уровень = info", "", func(l Logger) { l.Debug("msg") }, true},
		{"регистр не важен", "WARN", func(l Logger) { l.Info("msg") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.write(NewLoggerWithWriter(Config{Level: tt.level}, &buf))
			if tt.wantEmpty {
				assert.Empty(t, buf.String())
			} else {
				assert.Contains(t, buf.String(), "msg")
			}
		})
	}
}

func TestNewLoggerWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(Config{Format: FormatJSON}, &buf)

	logger.With("component", "sink").Info("запись", "count", 2)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &parsed))
	assert.Equal(t, "запись", parsed["msg"])
	assert.Equal(t, "INFO", parsed["level"])
	assert.Equal(t, "sink", parsed["component"])
	assert.EqualValues(t, 2, parsed["count"])
}

func TestSlogAdapter_Emit_UsesGivenTime(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(Config{Format: FormatJSON}, &buf)
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	logger.Emit(context.Background(), at, slog.LevelError, "сбой", "method", "a")

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &parsed))
	assert.Equal(t, "2024-03-01T12:00:00Z", parsed["time"])
	assert.Equal(t, "ERROR", parsed["level"])
	assert.Equal(t, "a", parsed["method"])
}

func TestSlogAdapter_Emit_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(Config{Level: LevelError}, &buf)

	logger.Emit(context.Background(), time.Time{}, slog.LevelInfo, "скрыто")

	assert.Empty(t, buf.String())
}

func TestNewSlogAdapter_Nil(t *testing.T) {
	adapter := NewSlogAdapter(nil)
	require.NotNil(t, adapter)
	assert.Equal(t, slog.Default(), adapter.Slog())
}

func TestNewLogger_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "logon.log")

	logger, closer := NewLogger(Config{Output: OutputFile, FilePath: path, Format: FormatText})
	logger.Info("в файл")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "в файл")
}

func TestNewLogger_FileWithoutPath_FallsBackToStderr(t *testing.T) {
	logger, closer := NewLogger(Config{Output: OutputFile})
	assert.NotNil(t, logger)
	assert.IsType(t, nopCloser{}, closer)
	assert.NoError(t, closer.Close())
}

func TestNewLogger_StreamOutputs(t *testing.T) {
	for _, out := range []string{OutputStderr, OutputStdout, "", "unknown"} {
		logger, closer := NewLogger(Config{Output: out})
		assert.NotNil(t, logger, out)
		assert.NoError(t, closer.Close(), out)
	}
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel(" Warn "))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestValidators(t *testing.T) {
	assert.True(t, IsValidLevel("DEBUG"))
	assert.False(t, IsValidLevel("trace"))
	assert.True(t, IsValidFormat("json"))
	assert.False(t, IsValidFormat("xml"))
	assert.True(t, IsValidOutput("stdout"))
	assert.False(t, IsValidOutput("syslog"))
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, DefaultFilePath, cfg.FilePath)
	assert.Equal(t, DefaultOutput, cfg.Output)
	assert.True(t, strings.HasSuffix(cfg.FilePath, "logon.log"))
}

func TestNopLogger(t *testing.T) {
	logger := NewNopLogger()
	assert.NotPanics(t, func() {
		logger.With("a", 1).With("b", 2).Info("message")
		logger.Debug("d")
		logger.Warn("w")
		logger.Error("e")
		logger.(*NopLogger).Emit(context.Background(), time.Now(), slog.LevelInfo, "x")
	})
	assert.Same(t, logger, logger.With("k", "v"))
}

func TestOrNop(t *testing.T) {
	assert.IsType(t, &NopLogger{}, OrNop(nil))
	l := NewLoggerWithWriter(Config{}, &bytes.Buffer{})
	assert.Same(t, l, OrNop(l))
}
