package notify_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcwamsie/finsco-hub/pkg/notify"
)

func storedNotification(userID, category, title string, createdAt time.Time) notify.Notification {
	return notify.Notification{
		ID:        uuid.New(),
		UserID:    userID,
		Category:  category,
		Title:     title,
		CreatedAt: createdAt,
	}
}

func TestMemoryStorage(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	base := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

	t.Run("create and get scoped by owner", func(t *testing.T) {
		t.Parallel()

		storage := notify.NewMemoryStorage()
		n := storedNotification("member-1", "claim_update", "Claim approved", base)
		require.NoError(t, storage.Create(ctx, n))

		got, err := storage.Get(ctx, "member-1", n.ID)
		require.NoError(t, err)
		assert.Equal(t, n.Title, got.Title)

		_, err = storage.Get(ctx, "member-2", n.ID)
		assert.ErrorIs(t, err, notify.ErrNotificationNotFound)
	})

	t.Run("list newest first with filters", func(t *testing.T) {
		t.Parallel()

		storage := notify.NewMemoryStorage()
		older := storedNotification("member-1", "claim_update", "older", base)
		newer := storedNotification("member-1", "payment_received", "newer", base.Add(time.Hour))
		require.NoError(t, storage.Create(ctx, older))
		require.NoError(t, storage.Create(ctx, newer))
		require.NoError(t, storage.Create(ctx, storedNotification("member-2", "claim_update", "other user", base)))

		all, err := storage.List(ctx, "member-1", notify.ListOptions{})
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, "newer", all[0].Title)

		byCategory, err := storage.List(ctx, "member-1", notify.ListOptions{Categories: []string{"claim_update"}})
		require.NoError(t, err)
		require.Len(t, byCategory, 1)
		assert.Equal(t, "older", byCategory[0].Title)

		since := base.Add(30 * time.Minute)
		recent, err := storage.List(ctx, "member-1", notify.ListOptions{Since: &since})
		require.NoError(t, err)
		require.Len(t, recent, 1)
		assert.Equal(t, "newer", recent[0].Title)

		limited, err := storage.List(ctx, "member-1", notify.ListOptions{Limit: 1, Offset: 1})
		require.NoError(t, err)
		require.Len(t, limited, 1)
		assert.Equal(t, "older", limited[0].Title)

		negative, err := storage.List(ctx, "member-1", notify.ListOptions{Offset: -3})
		require.NoError(t, err)
		assert.Len(t, negative, 2, "negative offset reads from the start")
	})

	t.Run("mark read sets read_at and filters unread", func(t *testing.T) {
		t.Parallel()

		storage := notify.NewMemoryStorage()
		n := storedNotification("member-1", "claim_update", "Claim approved", base)
		require.NoError(t, storage.Create(ctx, n))

		require.NoError(t, storage.MarkRead(ctx, "member-1", n.ID))

		got, err := storage.Get(ctx, "member-1", n.ID)
		require.NoError(t, err)
		assert.True(t, got.Read)
		require.NotNil(t, got.ReadAt)

		unread, err := storage.List(ctx, "member-1", notify.ListOptions{OnlyUnread: true})
		require.NoError(t, err)
		assert.Empty(t, unread)

		count, err := storage.CountUnread(ctx, "member-1")
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("update delivery summary", func(t *testing.T) {
		t.Parallel()

		storage := notify.NewMemoryStorage()
		n := storedNotification("member-1", "claim_update", "Claim approved", base)
		require.NoError(t, storage.Create(ctx, n))

		require.NoError(t, storage.UpdateDelivery(ctx, n.ID, map[notify.Channel]notify.DeliveryStatus{
			notify.ChannelEmail: notify.DeliverySent,
		}))

		got, err := storage.Get(ctx, "member-1", n.ID)
		require.NoError(t, err)
		assert.Equal(t, notify.DeliverySent, got.DeliveryStatusFor(notify.ChannelEmail))
		assert.Equal(t, notify.DeliveryNotAttempted, got.DeliveryStatusFor(notify.ChannelSMS))

		err = storage.UpdateDelivery(ctx, uuid.New(), nil)
		assert.ErrorIs(t, err, notify.ErrNotificationNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		t.Parallel()

		storage := notify.NewMemoryStorage()
		n := storedNotification("member-1", "claim_update", "Claim approved", base)
		require.NoError(t, storage.Create(ctx, n))

		require.NoError(t, storage.Delete(ctx, "member-1", n.ID))
		_, err := storage.Get(ctx, "member-1", n.ID)
		assert.ErrorIs(t, err, notify.ErrNotificationNotFound)
	})
}
