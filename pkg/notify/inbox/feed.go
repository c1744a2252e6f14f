// Package inbox delivers in-app notifications to live subscribers. It is an
// in-process fan-out keyed by user: the in-app channel sender publishes into
// the feed, and any transport surface (SSE, WebSocket) the host application
// wires on top subscribes per connected user.
//
// Publishing never blocks: a subscriber whose buffer is full misses the
// message and is dropped, since the notification is already persisted and
// the live feed is only a convenience on top of storage.
package inbox

import (
	"context"
	"sync"

	"github.com/mcwamsie/finsco-hub/pkg/cache"
	"github.com/mcwamsie/finsco-hub/pkg/notify"
)

// Subscription receives a user's live notifications.
type Subscription struct {
	ch     chan notify.Notification
	closed bool
	mu     sync.RWMutex
}

// Receive returns the channel live notifications arrive on. The channel is
// closed when the subscription is closed.
func (s *Subscription) Receive() <-chan notify.Notification {
	return s.ch
}

// Close tears down the subscription. It is idempotent.
func (s *Subscription) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		close(s.ch)
		s.closed = true
	}
}

// push attempts a non-blocking delivery.
func (s *Subscription) push(n notify.Notification) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return false
	}
	select {
	case s.ch <- n:
		return true
	default:
		return false
	}
}

// userFeed is the set of live subscriptions for one user.
type userFeed struct {
	subs map[*Subscription]struct{}
	mu   sync.Mutex
}

// Feed fans in-app notifications out to live per-user subscribers. The
// number of users with active feeds is bounded by an LRU; evicting a user
// closes their subscriptions, which is acceptable because clients re-read
// their inbox from storage on reconnect.
type Feed struct {
	users      *cache.LRU[string, *userFeed]
	bufferSize int
	closed     bool
	mu         sync.Mutex
}

// FeedOption configures a Feed.
type FeedOption func(*feedOptions)

type feedOptions struct {
	bufferSize int
	maxUsers   int
}

// WithBufferSize sets the per-subscription channel buffer.
func WithBufferSize(n int) FeedOption {
	return func(o *feedOptions) {
		if n > 0 {
			o.bufferSize = n
		}
	}
}

// WithMaxUsers bounds the number of users with live feeds.
func WithMaxUsers(n int) FeedOption {
	return func(o *feedOptions) {
		if n > 0 {
			o.maxUsers = n
		}
	}
}

// NewFeed creates an inbox feed.
func NewFeed(opts ...FeedOption) *Feed {
	o := &feedOptions{bufferSize: 16, maxUsers: 10000}
	for _, opt := range opts {
		opt(o)
	}

	f := &Feed{
		users:      cache.NewLRU[string, *userFeed](o.maxUsers),
		bufferSize: o.bufferSize,
	}
	f.users.OnEvict(func(_ string, uf *userFeed) {
		uf.mu.Lock()
		defer uf.mu.Unlock()
		for sub := range uf.subs {
			sub.Close()
		}
		clear(uf.subs)
	})
	return f
}

// Subscribe opens a live subscription for the user. The subscription closes
// automatically when ctx is done.
func (f *Feed) Subscribe(ctx context.Context, userID string) *Subscription {
	sub := &Subscription{ch: make(chan notify.Notification, f.bufferSize)}

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		sub.Close()
		return sub
	}
	uf, ok := f.users.Get(userID)
	if !ok {
		uf = &userFeed{subs: make(map[*Subscription]struct{})}
		f.users.Put(userID, uf)
	}
	f.mu.Unlock()

	uf.mu.Lock()
	uf.subs[sub] = struct{}{}
	uf.mu.Unlock()

	if ctx.Done() != nil {
		go func() {
			<-ctx.Done()
			f.unsubscribe(userID, sub)
		}()
	}
	return sub
}

// Publish delivers a notification to every live subscriber of its user.
// Users without live subscribers simply miss the live push; their inbox in
// storage is unaffected.
func (f *Feed) Publish(ctx context.Context, n notify.Notification) error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return ErrFeedClosed
	}
	uf, ok := f.users.Get(n.UserID)
	f.mu.Unlock()
	if !ok {
		return nil
	}

	uf.mu.Lock()
	defer uf.mu.Unlock()
	for sub := range uf.subs {
		if !sub.push(n) {
			sub.Close()
			delete(uf.subs, sub)
		}
	}
	return nil
}

// Close shuts the feed down and closes every subscription.
func (f *Feed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.closed = true
	// Eviction callback closes every subscription.
	f.users.Purge()
}

func (f *Feed) unsubscribe(userID string, sub *Subscription) {
	f.mu.Lock()
	uf, ok := f.users.Get(userID)
	f.mu.Unlock()

	sub.Close()
	if !ok {
		return
	}
	uf.mu.Lock()
	delete(uf.subs, sub)
	uf.mu.Unlock()
}
