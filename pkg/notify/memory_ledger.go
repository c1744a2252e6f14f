package notify

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryLedger is an in-memory Ledger implementation. Suitable for
// development and testing.
type MemoryLedger struct {
	attempts map[uuid.UUID][]DeliveryAttempt
	mu       sync.RWMutex
}

// NewMemoryLedger creates an empty in-memory ledger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		attempts: make(map[uuid.UUID][]DeliveryAttempt),
	}
}

func (l *MemoryLedger) Record(ctx context.Context, attempt DeliveryAttempt) (uuid.UUID, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if attempt.ID == uuid.Nil {
		attempt.ID = uuid.New()
	}
	if attempt.CreatedAt.IsZero() {
		attempt.CreatedAt = time.Now()
	}

	l.attempts[attempt.NotificationID] = append(l.attempts[attempt.NotificationID], attempt)
	return attempt.ID, nil
}

func (l *MemoryLedger) History(ctx context.Context, notificationID uuid.UUID) ([]DeliveryAttempt, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	// Appends are already chronological per call site; return a copy to
	// prevent external mutation of stored data.
	history := l.attempts[notificationID]
	out := make([]DeliveryAttempt, len(history))
	copy(out, history)
	return out, nil
}

func (l *MemoryLedger) LatestOutcome(ctx context.Context, notificationID uuid.UUID, ch Channel) (DeliveryAttempt, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	history := l.attempts[notificationID]
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Channel == ch {
			return history[i], nil
		}
	}
	return DeliveryAttempt{}, ErrNoAttempts
}
