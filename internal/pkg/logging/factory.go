package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/Kargones/logon/internal/constants"
)

// NewLogger создаёт Logger согласно config и возвращает io.Closer
// для освобождения файла логов при остановке приложения.
//
// Output:
//   - "stderr" (default) и "stdout": стандартные потоки, Close ничего не делает;
//   - "file": файл с ротацией через lumberjack (MaxSize/MaxBackups/MaxAge/Compress).
//
// Некорректная конфигурация файла приводит к fallback на stderr с предупреждением.
func NewLogger(config Config) (*SlogAdapter, io.Closer) {
	config = config.withDefaults()

	var (
		w      io.Writer = os.Stderr
		closer io.Closer = nopCloser{}
	)
	switch config.Output {
	case OutputStdout:
		w = os.Stdout
	case OutputFile:
		if lj := newLumberjackWriter(config); lj != nil {
			w, closer = lj, lj
		}
	case OutputStderr:
	default:
		warnBootstrap("неизвестный logging output %q, используется stderr", config.Output)
	}

	return NewLoggerWithWriter(config, w), closer
}

// newLumberjackWriter создаёт ротируемый файл логов, при необходимости
// создавая директорию. Возвращает nil, если файл использовать нельзя.
func newLumberjackWriter(config Config) *lumberjack.Logger {
	if config.FilePath == "" {
		warnBootstrap("logging output=file, но filePath пуст, используется stderr")
		return nil
	}
	if dir := filepath.Dir(config.FilePath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, constants.DirPermStandard); err != nil {
			warnBootstrap("не удалось создать директорию логов %q: %v, используется stderr", dir, err)
			return nil
		}
	}
	return &lumberjack.Logger{
		Filename:   config.FilePath,
		MaxSize:    config.MaxSize,
		MaxBackups: config.MaxBackups,
		MaxAge:     config.MaxAge,
		Compress:   config.Compress,
	}
}

// NewLoggerWithWriter создаёт Logger, пишущий в w. Используется в тестах.
func NewLoggerWithWriter(config Config, w io.Writer) *SlogAdapter {
	config = config.withDefaults()
	opts := &slog.HandlerOptions{Level: ParseLevel(config.Level)}

	var handler slog.Handler
	if config.Format == FormatJSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return NewSlogAdapter(slog.New(handler))
}

// ParseLevel конвертирует строковый уровень в slog.Level.
// Неизвестное значение даёт slog.LevelInfo.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func warnBootstrap(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, "WARNING: "+format+"\n", args...) //nolint:errcheck // bootstrap stderr
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
