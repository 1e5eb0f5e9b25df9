// AngelaMos | 2026
// writer_test.go

package history

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelamos/logoforge/internal/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestWriter_PersistsEnqueuedRecords(t *testing.T) {
	repo := &memoryRepo{}
	svc := NewService(repo, config.HistoryConfig{})
	w := NewWriter(svc, 8, discardLogger())

	ok := w.Enqueue(&Record{CompanyName: "Acme"})
	assert.True(t, ok)
	ok = w.Enqueue(&Record{CompanyName: "Northwind"})
	assert.True(t, ok)

	// Close drains the queue before returning.
	w.Close()

	require.Len(t, repo.records, 2)
	assert.Equal(t, "Acme", repo.records[0].CompanyName)
	assert.NotEmpty(t, repo.records[0].ID)
}

func TestWriter_DropsWhenQueueFull(t *testing.T) {
	repo := &memoryRepo{}
	svc := NewService(repo, config.HistoryConfig{})

	// Construct without the worker so the queue stays full.
	w := &Writer{
		svc:   svc,
		queue: make(chan *Record, 1),
		log:   discardLogger(),
	}

	assert.True(t, w.Enqueue(&Record{CompanyName: "first"}))
	assert.False(t, w.Enqueue(&Record{CompanyName: "second"}))
}

func TestWriter_CloseIsIdempotent(t *testing.T) {
	repo := &memoryRepo{}
	svc := NewService(repo, config.HistoryConfig{})
	w := NewWriter(svc, 8, discardLogger())

	w.Close()
	w.Close()
}
