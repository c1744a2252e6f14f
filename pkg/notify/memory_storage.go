package notify

import (
	"context"
	"errors"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStorage is an in-memory implementation of the Storage interface.
// Suitable for development and testing.
type MemoryStorage struct {
	byUser map[string][]Notification
	owner  map[uuid.UUID]string
	mu     sync.RWMutex
}

// NewMemoryStorage creates a new in-memory notification storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		byUser: make(map[string][]Notification),
		owner:  make(map[uuid.UUID]string),
	}
}

func (s *MemoryStorage) Create(ctx context.Context, n Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n.ID == uuid.Nil {
		return errors.New("notify: notification ID is required")
	}
	if n.UserID == "" {
		return errors.New("notify: user ID is required")
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	s.byUser[n.UserID] = append(s.byUser[n.UserID], n)
	s.owner[n.ID] = n.UserID
	return nil
}

func (s *MemoryStorage) Get(ctx context.Context, userID string, id uuid.UUID) (*Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, n := range s.byUser[userID] {
		if n.ID == id {
			// Return a copy to prevent external mutation of stored data.
			out := n
			out.Delivery = copyDelivery(n.Delivery)
			return &out, nil
		}
	}
	return nil, ErrNotificationNotFound
}

func (s *MemoryStorage) List(ctx context.Context, userID string, opts ListOptions) ([]Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var filtered []Notification
	for _, n := range s.byUser[userID] {
		if opts.OnlyUnread && n.Read {
			continue
		}
		if len(opts.Categories) > 0 && !slices.Contains(opts.Categories, n.Category) {
			continue
		}
		if opts.Since != nil && n.CreatedAt.Before(*opts.Since) {
			continue
		}
		filtered = append(filtered, n)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})

	start := opts.Offset
	if start < 0 {
		start = 0
	}
	if start > len(filtered) {
		return []Notification{}, nil
	}
	end := start + opts.Limit
	if opts.Limit == 0 || end > len(filtered) {
		end = len(filtered)
	}
	return filtered[start:end], nil
}

func (s *MemoryStorage) UpdateDelivery(ctx context.Context, id uuid.UUID, delivery map[Channel]DeliveryStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	userID, ok := s.owner[id]
	if !ok {
		return ErrNotificationNotFound
	}
	list := s.byUser[userID]
	for i := range list {
		if list[i].ID == id {
			list[i].Delivery = copyDelivery(delivery)
			return nil
		}
	}
	return ErrNotificationNotFound
}

func (s *MemoryStorage) MarkRead(ctx context.Context, userID string, ids ...uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idSet := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		idSet[id] = true
	}

	list := s.byUser[userID]
	for i := range list {
		if idSet[list[i].ID] {
			list[i].MarkAsRead()
		}
	}
	return nil
}

func (s *MemoryStorage) Delete(ctx context.Context, userID string, ids ...uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idSet := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		idSet[id] = true
	}

	var kept []Notification
	for _, n := range s.byUser[userID] {
		if idSet[n.ID] {
			delete(s.owner, n.ID)
			continue
		}
		kept = append(kept, n)
	}
	s.byUser[userID] = kept
	return nil
}

func (s *MemoryStorage) CountUnread(ctx context.Context, userID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, n := range s.byUser[userID] {
		if !n.Read {
			count++
		}
	}
	return count, nil
}

func copyDelivery(in map[Channel]DeliveryStatus) map[Channel]DeliveryStatus {
	if in == nil {
		return nil
	}
	out := make(map[Channel]DeliveryStatus, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
