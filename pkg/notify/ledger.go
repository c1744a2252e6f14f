package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Outcome is the recorded result of a single delivery attempt.
type Outcome string

const (
	OutcomePending   Outcome = "pending"
	OutcomeSent      Outcome = "sent"
	OutcomeDelivered Outcome = "delivered"
	OutcomeFailed    Outcome = "failed"
)

// DeliveryAttempt is an append-only fact: one call to a channel sender and
// its result. A retry never updates an attempt in place; it appends a new
// attempt with an incremented attempt number.
type DeliveryAttempt struct {
	ID             uuid.UUID `json:"id"`
	NotificationID uuid.UUID `json:"notification_id"`
	Channel        Channel   `json:"channel"`
	Attempt        int       `json:"attempt"`
	Outcome        Outcome   `json:"outcome"`
	// Final marks a failed attempt as terminal: either the failure was
	// permanent or the retry budget is exhausted.
	Final     bool      `json:"final"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Terminal reports whether the attempt ends automatic processing for its
// notification/channel pair.
func (a DeliveryAttempt) Terminal() bool {
	switch a.Outcome {
	case OutcomeSent, OutcomeDelivered:
		return true
	case OutcomeFailed:
		return a.Final
	}
	return false
}

// Ledger is the append-only audit record of every delivery attempt and the
// source of truth for what actually happened. The notification's per-channel
// summary is a derived projection of it.
//
// Implementations must support concurrent appends from multiple channel
// tasks for the same notification.
type Ledger interface {
	// Record appends an attempt and returns its stored ID. The attempt's ID
	// and CreatedAt are filled in when zero.
	Record(ctx context.Context, attempt DeliveryAttempt) (uuid.UUID, error)

	// History returns all attempts for a notification in chronological order.
	History(ctx context.Context, notificationID uuid.UUID) ([]DeliveryAttempt, error)

	// LatestOutcome returns the most recent attempt for the
	// notification/channel pair, or ErrNoAttempts when none exists.
	LatestOutcome(ctx context.Context, notificationID uuid.UUID, ch Channel) (DeliveryAttempt, error)
}
