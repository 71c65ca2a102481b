package service

import (
	"context"
	"sync"
	"time"

	"github.com/luxehomes/property-assistant/internal/domain"
	"github.com/rs/zerolog/log"
)

// HistoryRecorder persists completed turns asynchronously. Delivery is
// at-most-once best-effort: failures are logged and swallowed, never
// retried and never surfaced into the conversation.
type HistoryRecorder struct {
	store   domain.HistoryStore
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewHistoryRecorder creates a recorder. A nil store disables recording.
func NewHistoryRecorder(store domain.HistoryStore, timeout time.Duration) *HistoryRecorder {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HistoryRecorder{store: store, timeout: timeout}
}

// Record hands off one completed turn without blocking the caller
func (r *HistoryRecorder) Record(record domain.HistoryRecord) {
	if r == nil || r.store == nil {
		return
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()

		if err := r.store.Append(ctx, record); err != nil {
			log.Warn().Err(err).Msg("failed to record chat turn")
		}
	}()
}

// Drain waits for outstanding writes; used on shutdown and in tests
func (r *HistoryRecorder) Drain() {
	if r == nil {
		return
	}
	r.wg.Wait()
}
