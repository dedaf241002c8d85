package sink

import (
	"context"
	"sync"
	"time"

	"github.com/Kargones/logon/internal/pkg/apperrors"
	"github.com/Kargones/logon/internal/pkg/logging"
	"github.com/Kargones/logon/internal/pkg/metrics"
)

// Поведение при заполненной очереди.
const (
	// OverflowGrow — очередь растёт без ограничения.
	OverflowGrow = "grow"
	// OverflowDropOldest — самая старая запись отбрасывается.
	OverflowDropOldest = "drop-oldest"
)

// DefaultWriteTimeout ограничивает одну запись в один транспорт.
const DefaultWriteTimeout = 5 * time.Second

// Config — настройки AsyncSink.
type Config struct {
	// QueueSize — ёмкость очереди. 0 — без ограничения.
	QueueSize int

	// Overflow применяется, когда QueueSize > 0 и очередь заполнена.
	Overflow string

	WriteTimeout time.Duration
}

// AsyncSink — очередь FIFO с единственным dispatcher'ом.
// Записи одного вызова доставляются в порядке отправки.
type AsyncSink struct {
	cfg       Config
	writers   []Writer
	collector metrics.Collector
	logger    logging.Logger
	now       func() time.Time

	mu     sync.Mutex
	cond   *sync.Cond
	queue  []Entry
	busy   bool
	closed bool

	done chan struct{}
}

// NewAsyncSink создаёт sink и запускает dispatcher.
// Остановка — через Close.
func NewAsyncSink(cfg Config, writers []Writer, collector metrics.Collector, logger logging.Logger) *AsyncSink {
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Overflow == "" {
		cfg.Overflow = OverflowGrow
	}
	s := &AsyncSink{
		cfg:       cfg,
		writers:   append([]Writer(nil), writers...),
		collector: metrics.OrNop(collector),
		logger:    logging.OrNop(logger).With("component", "sink"),
		now:       time.Now,
		done:      make(chan struct{}),
	}
	s.cond = sync.NewCond(&s.mu)
	go s.dispatch()
	return s
}

// Info отправляет информационную запись.
func (s *AsyncSink) Info(template string, values ...any) {
	s.Submit(Record{Severity: SeverityInfo, Template: template, Values: values})
}

// Error отправляет запись об ошибке.
func (s *AsyncSink) Error(template string, values ...any) {
	s.Submit(Record{Severity: SeverityError, Template: template, Values: values})
}

// Submit форматирует запись на goroutine вызывающего и ставит её в очередь.
// Паника форматирования перехватывается и учитывается как сбой.
func (s *AsyncSink) Submit(rec Record) {
	defer func() {
		if r := recover(); r != nil {
			s.collector.RecordSinkFault("format")
			s.logger.Error("паника при форматировании записи", "panic", r)
		}
	}()

	entry := NewEntry(rec, s.now())

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		s.collector.RecordSinkDropped(metrics.DropReasonClosed)
		return
	}
	if s.cfg.QueueSize > 0 && len(s.queue) >= s.cfg.QueueSize && s.cfg.Overflow == OverflowDropOldest {
		s.queue[0] = Entry{}
		s.queue = s.queue[1:]
		s.collector.RecordSinkDropped(metrics.DropReasonOverflow)
	}
	s.queue = append(s.queue, entry)
	s.collector.SetSinkQueueDepth(len(s.queue))
	s.cond.Broadcast()
}

// Len возвращает текущую длину очереди.
func (s *AsyncSink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// Flush ждёт, пока очередь опустеет и текущая запись будет доставлена.
func (s *AsyncSink) Flush(ctx context.Context) error {
	stop := context.AfterFunc(ctx, s.wake)
	defer stop()

	s.mu.Lock()
	defer s.mu.Unlock()
	for len(s.queue) > 0 || s.busy {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.cond.Wait()
	}
	return nil
}

// Close прекращает приём записей и дренирует очередь.
// Если ctx истекает раньше, оставшиеся записи отбрасываются и
// возвращается ошибка SINK.CLOSED. Повторный вызов возвращает nil.
func (s *AsyncSink) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.cond.Broadcast()
	s.mu.Unlock()

	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
	}

	s.mu.Lock()
	dropped := len(s.queue)
	s.queue = nil
	s.collector.SetSinkQueueDepth(0)
	s.mu.Unlock()

	for i := 0; i < dropped; i++ {
		s.collector.RecordSinkDropped(metrics.DropReasonClosed)
	}
	s.logger.Warn("очередь не дренирована до истечения таймаута", "dropped", dropped)
	return apperrors.NewAppError(apperrors.ErrSinkClosed, "очередь не дренирована до истечения таймаута", ctx.Err())
}

func (s *AsyncSink) wake() {
	s.mu.Lock()
	s.cond.Broadcast()
	s.mu.Unlock()
}

func (s *AsyncSink) dispatch() {
	defer close(s.done)
	for {
		s.mu.Lock()
		for len(s.queue) == 0 && !s.closed {
			s.cond.Wait()
		}
		if len(s.queue) == 0 {
			s.mu.Unlock()
			return
		}
		entry := s.queue[0]
		s.queue[0] = Entry{}
		s.queue = s.queue[1:]
		s.busy = true
		s.collector.SetSinkQueueDepth(len(s.queue))
		s.mu.Unlock()

		for _, w := range s.writers {
			s.write(w, entry)
		}

		s.mu.Lock()
		s.busy = false
		s.cond.Broadcast()
		s.mu.Unlock()
	}
}

// write доставляет запись в один транспорт. Ошибка или паника транспорта
// не влияет на остальные транспорты и следующие записи.
func (s *AsyncSink) write(w Writer, e Entry) {
	defer func() {
		if r := recover(); r != nil {
			s.collector.RecordSinkFault(w.Name())
			s.logger.Error("паника транспорта", "writer", w.Name(), "panic", r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.WriteTimeout)
	defer cancel()

	if err := w.Write(ctx, e); err != nil {
		s.collector.RecordSinkFault(w.Name())
		s.logger.Warn("ошибка записи в транспорт", "writer", w.Name(), "error", err)
	}
}
