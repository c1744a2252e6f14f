package notify

import (
	"time"

	"github.com/google/uuid"
)

// DeliveryStatus is the per-channel summary kept on a notification. It is a
// derived, eventually-consistent projection of the ledger.
type DeliveryStatus string

const (
	DeliveryNotAttempted DeliveryStatus = "not_attempted"
	DeliverySent         DeliveryStatus = "sent"
	DeliveryFailed       DeliveryStatus = "failed"
)

// Notification is the unit being delivered. It is created once by the
// caller; the dispatcher owns its Delivery summary for the duration of a
// delivery run, and only the recipient-facing API flips the read flag.
type Notification struct {
	ID        uuid.UUID                  `json:"id"`
	UserID    string                     `json:"user_id"`
	Category  string                     `json:"category"`
	Title     string                     `json:"title"`
	Message   string                     `json:"message"`
	Data      map[string]any             `json:"data,omitempty"`
	Read      bool                       `json:"read"`
	ReadAt    *time.Time                 `json:"read_at,omitempty"`
	Delivery  map[Channel]DeliveryStatus `json:"delivery"`
	CreatedAt time.Time                  `json:"created_at"`
}

// MarkAsRead marks the notification as read with the current timestamp.
func (n *Notification) MarkAsRead() {
	if n.Read {
		return
	}
	n.Read = true
	now := time.Now()
	n.ReadAt = &now
}

// DeliveryStatusFor returns the summary for the channel. Channels the
// dispatcher never touched report DeliveryNotAttempted.
func (n *Notification) DeliveryStatusFor(ch Channel) DeliveryStatus {
	if s, ok := n.Delivery[ch]; ok {
		return s
	}
	return DeliveryNotAttempted
}

// setDelivery records the summary for one channel, lazily allocating the map.
func (n *Notification) setDelivery(ch Channel, status DeliveryStatus) {
	if n.Delivery == nil {
		n.Delivery = make(map[Channel]DeliveryStatus)
	}
	n.Delivery[ch] = status
}
