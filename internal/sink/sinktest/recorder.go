// Package sinktest содержит тестовые реализации sink.Sink и sink.Writer.
package sinktest

import (
	"context"
	"sync"
	"time"

	"github.com/Kargones/logon/internal/sink"
)

// Recorder синхронно запоминает записи. Реализует sink.Sink и sink.Writer,
// поэтому подходит и вместо AsyncSink, и как транспорт для него.
type Recorder struct {
	mu      sync.Mutex
	entries []sink.Entry

	// WriteErr возвращается из Write, если задан.
	WriteErr error
}

// NewRecorder создаёт пустой Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Info(template string, values ...any) {
	r.Submit(sink.Record{Severity: sink.SeverityInfo, Template: template, Values: values})
}

func (r *Recorder) Error(template string, values ...any) {
	r.Submit(sink.Record{Severity: sink.SeverityError, Template: template, Values: values})
}

func (r *Recorder) Submit(rec sink.Record) {
	r.append(sink.NewEntry(rec, time.Now()))
}

// Name возвращает имя транспорта.
func (r *Recorder) Name() string { return "recorder" }

// Write запоминает запись и возвращает WriteErr.
func (r *Recorder) Write(_ context.Context, e sink.Entry) error {
	r.append(e)
	return r.WriteErr
}

func (r *Recorder) append(e sink.Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
}

// Entries возвращает копию записанных записей.
func (r *Recorder) Entries() []sink.Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]sink.Entry(nil), r.entries...)
}

// Messages возвращает тексты записей по порядку.
func (r *Recorder) Messages() []string {
	entries := r.Entries()
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Message
	}
	return out
}

// Len возвращает число записей.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Reset очищает журнал.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = nil
}
