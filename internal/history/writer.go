// AngelaMos | 2026
// writer.go

package history

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const (
	writeTimeout  = 10 * time.Second
	writeAttempts = 3
	retryBackoff  = 500 * time.Millisecond
)

// Writer persists generation records off the request path. Saves are
// enqueued fire-and-forget; failures are retried with backoff and finally
// logged, never surfaced to the caller.
type Writer struct {
	svc    *Service
	queue  chan *Record
	log    *slog.Logger
	wg     sync.WaitGroup
	closed sync.Once
}

func NewWriter(svc *Service, queueSize int, log *slog.Logger) *Writer {
	if queueSize <= 0 {
		queueSize = 256
	}

	w := &Writer{
		svc:   svc,
		queue: make(chan *Record, queueSize),
		log:   log,
	}

	w.wg.Add(1)
	go w.run()

	return w
}

// Enqueue hands a record to the background writer. Returns false when the
// queue is full, in which case the record is dropped and logged.
func (w *Writer) Enqueue(record *Record) bool {
	select {
	case w.queue <- record:
		return true
	default:
		w.log.Warn("history queue full, dropping record",
			"company_name", record.CompanyName,
			"status", record.Status,
		)
		return false
	}
}

func (w *Writer) run() {
	defer w.wg.Done()

	for record := range w.queue {
		w.persist(record)
	}
}

func (w *Writer) persist(record *Record) {
	var lastErr error

	for attempt := 1; attempt <= writeAttempts; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		_, err := w.svc.Save(ctx, record)
		cancel()

		if err == nil {
			return
		}

		lastErr = err
		if attempt < writeAttempts {
			time.Sleep(retryBackoff * time.Duration(attempt))
		}
	}

	w.log.Error("history write failed after retries",
		"error", lastErr,
		"record_id", record.ID,
		"status", record.Status,
	)
}

// Close drains the queue and stops the worker.
func (w *Writer) Close() {
	w.closed.Do(func() {
		close(w.queue)
	})
	w.wg.Wait()
}
