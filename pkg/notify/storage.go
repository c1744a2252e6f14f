package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Storage handles notification persistence and retrieval. The engine
// persists a record before any delivery attempt so an undeliverable
// notification is still visible in the recipient's feed.
type Storage interface {
	// Create stores a new notification.
	Create(ctx context.Context, n Notification) error

	// Get retrieves a single notification owned by the user.
	Get(ctx context.Context, userID string, id uuid.UUID) (*Notification, error)

	// List returns notifications for a user, newest first.
	List(ctx context.Context, userID string, opts ListOptions) ([]Notification, error)

	// UpdateDelivery replaces the per-channel delivery summary.
	UpdateDelivery(ctx context.Context, id uuid.UUID, delivery map[Channel]DeliveryStatus) error

	// MarkRead marks notification(s) as read.
	MarkRead(ctx context.Context, userID string, ids ...uuid.UUID) error

	// Delete removes notification(s).
	Delete(ctx context.Context, userID string, ids ...uuid.UUID) error

	// CountUnread returns the unread count for a user, recomputed from the
	// stored records.
	CountUnread(ctx context.Context, userID string) (int, error)
}

// ListOptions provides filtering and pagination for listing notifications.
type ListOptions struct {
	Limit      int        // Maximum number of notifications to return (0 = no limit)
	Offset     int        // Number of notifications to skip for pagination
	OnlyUnread bool       // When true, only return unread notifications
	Categories []string   // If set, only return notifications of these categories
	Since      *time.Time // If set, only return notifications created after this time
}
