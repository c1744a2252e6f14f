package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mcwamsie/finsco-hub/pkg/notify"
)

// Ledger is the PostgreSQL implementation of notify.Ledger. Rows are
// append-only; attempts are never updated or deleted.
type Ledger struct {
	pool *pgxpool.Pool
}

// NewLedger creates a ledger over the shared pool.
func NewLedger(pool *pgxpool.Pool) *Ledger {
	return &Ledger{pool: pool}
}

func (l *Ledger) Record(ctx context.Context, attempt notify.DeliveryAttempt) (uuid.UUID, error) {
	if attempt.ID == uuid.Nil {
		attempt.ID = uuid.New()
	}
	if attempt.CreatedAt.IsZero() {
		attempt.CreatedAt = time.Now()
	}

	if attempt.Attempt > 0 {
		_, err := l.pool.Exec(ctx, `
			INSERT INTO delivery_attempts (id, notification_id, channel, attempt, outcome, final, error, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, attempt.ID, attempt.NotificationID, attempt.Channel, attempt.Attempt, attempt.Outcome, attempt.Final, attempt.Error, attempt.CreatedAt)
		if err != nil {
			return uuid.Nil, err
		}
		return attempt.ID, nil
	}

	// Attempt number unset: assign the next one for this (notification,
	// channel) inside the insert so concurrent writers never collide.
	_, err := l.pool.Exec(ctx, `
		INSERT INTO delivery_attempts (id, notification_id, channel, attempt, outcome, final, error, created_at)
		VALUES ($1, $2, $3,
			(SELECT COALESCE(MAX(attempt), 0) + 1 FROM delivery_attempts WHERE notification_id = $2 AND channel = $3),
			$4, $5, $6, $7)
	`, attempt.ID, attempt.NotificationID, attempt.Channel, attempt.Outcome, attempt.Final, attempt.Error, attempt.CreatedAt)
	if err != nil {
		return uuid.Nil, err
	}
	return attempt.ID, nil
}

func (l *Ledger) History(ctx context.Context, notificationID uuid.UUID) ([]notify.DeliveryAttempt, error) {
	rows, err := l.pool.Query(ctx, `
		SELECT id, notification_id, channel, attempt, outcome, final, error, created_at
		FROM delivery_attempts
		WHERE notification_id = $1
		ORDER BY created_at, attempt
	`, notificationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []notify.DeliveryAttempt
	for rows.Next() {
		var a notify.DeliveryAttempt
		if err := rows.Scan(&a.ID, &a.NotificationID, &a.Channel, &a.Attempt, &a.Outcome, &a.Final, &a.Error, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (l *Ledger) LatestOutcome(ctx context.Context, notificationID uuid.UUID, channel notify.Channel) (notify.DeliveryAttempt, error) {
	var a notify.DeliveryAttempt
	err := l.pool.QueryRow(ctx, `
		SELECT id, notification_id, channel, attempt, outcome, final, error, created_at
		FROM delivery_attempts
		WHERE notification_id = $1 AND channel = $2
		ORDER BY attempt DESC
		LIMIT 1
	`, notificationID, channel).Scan(&a.ID, &a.NotificationID, &a.Channel, &a.Attempt, &a.Outcome, &a.Final, &a.Error, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return notify.DeliveryAttempt{}, notify.ErrNoAttempts
		}
		return notify.DeliveryAttempt{}, err
	}
	return a, nil
}
