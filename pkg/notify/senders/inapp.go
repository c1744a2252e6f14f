package senders

import (
	"context"

	"github.com/mcwamsie/finsco-hub/pkg/notify"
	"github.com/mcwamsie/finsco-hub/pkg/notify/inbox"
)

// InAppSender marks in-app delivery by publishing to the live inbox feed.
// The notification record is persisted before any sender runs, so the
// stored inbox entry already exists; this sender only wakes up connected
// clients.
type InAppSender struct {
	feed *inbox.Feed
}

// NewInAppSender wraps a feed as the in-app channel sender.
func NewInAppSender(feed *inbox.Feed) (*InAppSender, error) {
	if feed == nil {
		return nil, ErrFeedNil
	}
	return &InAppSender{feed: feed}, nil
}

// Send publishes the notification to the recipient's live feed. Publishing
// to a closed feed is transient: a restarting process will have a fresh
// feed on the next dispatch.
func (s *InAppSender) Send(ctx context.Context, req notify.SendRequest) error {
	err := s.feed.Publish(ctx, notify.Notification{
		ID:      req.NotificationID,
		UserID:  req.Recipient,
		Title:   req.Title,
		Message: req.Body,
	})
	if err != nil {
		return notify.TransientError(err)
	}
	return nil
}
