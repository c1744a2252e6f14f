package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mcwamsie/finsco-hub/pkg/notify"
)

// Storage is the PostgreSQL implementation of notify.Storage.
type Storage struct {
	pool *pgxpool.Pool
}

// NewStorage creates a storage over the shared pool.
func NewStorage(pool *pgxpool.Pool) *Storage {
	return &Storage{pool: pool}
}

func (s *Storage) Create(ctx context.Context, n notify.Notification) error {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	data, err := json.Marshal(n.Data)
	if err != nil {
		return fmt.Errorf("marshal notification data: %w", err)
	}
	delivery, err := json.Marshal(n.Delivery)
	if err != nil {
		return fmt.Errorf("marshal delivery summary: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO notifications (id, user_id, category, title, message, data, read, read_at, delivery, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, n.ID, n.UserID, n.Category, n.Title, n.Message, data, n.Read, n.ReadAt, delivery, n.CreatedAt)
	return err
}

func (s *Storage) Get(ctx context.Context, userID string, id uuid.UUID) (*notify.Notification, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, user_id, category, title, message, data, read, read_at, delivery, created_at
		FROM notifications
		WHERE user_id = $1 AND id = $2
	`, userID, id)

	n, err := scanNotification(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notify.ErrNotificationNotFound
		}
		return nil, err
	}
	return n, nil
}

func (s *Storage) List(ctx context.Context, userID string, opts notify.ListOptions) ([]notify.Notification, error) {
	query := strings.Builder{}
	query.WriteString(`
		SELECT id, user_id, category, title, message, data, read, read_at, delivery, created_at
		FROM notifications
		WHERE user_id = $1`)
	args := []any{userID}

	if opts.OnlyUnread {
		query.WriteString(" AND read = FALSE")
	}
	if len(opts.Categories) > 0 {
		args = append(args, opts.Categories)
		fmt.Fprintf(&query, " AND category = ANY($%d)", len(args))
	}
	if opts.Since != nil {
		args = append(args, *opts.Since)
		fmt.Fprintf(&query, " AND created_at >= $%d", len(args))
	}
	query.WriteString(" ORDER BY created_at DESC")
	if opts.Limit > 0 {
		args = append(args, opts.Limit)
		fmt.Fprintf(&query, " LIMIT $%d", len(args))
	}
	if opts.Offset > 0 {
		args = append(args, opts.Offset)
		fmt.Fprintf(&query, " OFFSET $%d", len(args))
	}

	rows, err := s.pool.Query(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []notify.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *n)
	}
	return out, rows.Err()
}

func (s *Storage) UpdateDelivery(ctx context.Context, id uuid.UUID, delivery map[notify.Channel]notify.DeliveryStatus) error {
	payload, err := json.Marshal(delivery)
	if err != nil {
		return fmt.Errorf("marshal delivery summary: %w", err)
	}
	tag, err := s.pool.Exec(ctx, `
		UPDATE notifications SET delivery = $2 WHERE id = $1
	`, id, payload)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return notify.ErrNotificationNotFound
	}
	return nil
}

func (s *Storage) MarkRead(ctx context.Context, userID string, ids ...uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := s.pool.Exec(ctx, `
		UPDATE notifications
		SET read = TRUE, read_at = NOW()
		WHERE user_id = $1 AND id = ANY($2) AND read = FALSE
	`, userID, ids)
	return err
}

func (s *Storage) Delete(ctx context.Context, userID string, ids ...uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := s.pool.Exec(ctx, `
		DELETE FROM notifications WHERE user_id = $1 AND id = ANY($2)
	`, userID, ids)
	return err
}

func (s *Storage) CountUnread(ctx context.Context, userID string) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND read = FALSE
	`, userID).Scan(&count)
	return count, err
}

func scanNotification(row pgx.Row) (*notify.Notification, error) {
	var (
		n        notify.Notification
		data     []byte
		delivery []byte
	)
	if err := row.Scan(&n.ID, &n.UserID, &n.Category, &n.Title, &n.Message, &data, &n.Read, &n.ReadAt, &delivery, &n.CreatedAt); err != nil {
		return nil, err
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &n.Data); err != nil {
			return nil, fmt.Errorf("unmarshal notification data: %w", err)
		}
	}
	if len(delivery) > 0 {
		if err := json.Unmarshal(delivery, &n.Delivery); err != nil {
			return nil, fmt.Errorf("unmarshal delivery summary: %w", err)
		}
	}
	return &n, nil
}
