package testutil

import (
	"fmt"
	"strings"
	"sync"

	"github.com/Kargones/logon/internal/pkg/logging"
)

// LogLine — одна запись RecordingLogger.
type LogLine struct {
	Level string
	Msg   string
	Args  []any
}

// RecordingLogger реализует logging.Logger и запоминает все сообщения.
// Безопасен для одновременного использования.
type RecordingLogger struct {
	journal *journal
	attrs   []any
}

type journal struct {
	mu    sync.Mutex
	lines []LogLine
}

// NewRecordingLogger создаёт пустой RecordingLogger.
func NewRecordingLogger() *RecordingLogger {
	return &RecordingLogger{journal: &journal{}}
}

func (l *RecordingLogger) record(level, msg string, args []any) {
	all := append(append([]any(nil), l.attrs...), args...)
	l.journal.mu.Lock()
	defer l.journal.mu.Unlock()
	l.journal.lines = append(l.journal.lines, LogLine{Level: level, Msg: msg, Args: all})
}

func (l *RecordingLogger) Debug(msg string, args ...any) { l.record("debug", msg, args) }
func (l *RecordingLogger) Info(msg string, args ...any)  { l.record("info", msg, args) }
func (l *RecordingLogger) Warn(msg string, args ...any)  { l.record("warn", msg, args) }
func (l *RecordingLogger) Error(msg string, args ...any) { l.record("error", msg, args) }

// With возвращает логгер, пишущий в тот же журнал с дополнительными атрибутами.
func (l *RecordingLogger) With(args ...any) logging.Logger {
	return &RecordingLogger{journal: l.journal, attrs: append(append([]any(nil), l.attrs...), args...)}
}

// Lines возвращает копию журнала.
func (l *RecordingLogger) Lines() []LogLine {
	l.journal.mu.Lock()
	defer l.journal.mu.Unlock()
	return append([]LogLine(nil), l.journal.lines...)
}

// Messages возвращает сообщения уровня level.
func (l *RecordingLogger) Messages(level string) []string {
	var out []string
	for _, line := range l.Lines() {
		if line.Level == level {
			out = append(out, line.Msg)
		}
	}
	return out
}

// Contains сообщает, есть ли сообщение уровня level, содержащее substr
// в тексте или в значениях атрибутов.
func (l *RecordingLogger) Contains(level, substr string) bool {
	for _, line := range l.Lines() {
		if line.Level != level {
			continue
		}
		if strings.Contains(line.Msg, substr) || strings.Contains(fmt.Sprint(line.Args...), substr) {
			return true
		}
	}
	return false
}
