package unread

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcwamsie/finsco-hub/pkg/notify"
)

var (
	ErrClientNil  = errors.New("unread: redis client is nil")
	ErrStorageNil = errors.New("unread: storage is nil")
)

// Counter caches per-user unread notification counts in Redis. The count is
// derived state: on a cache miss it is recounted from storage and cached with
// a TTL, and every write path that changes read state invalidates the key.
type Counter struct {
	client    redis.UniversalClient
	storage   notify.Storage
	keyPrefix string
	ttl       time.Duration
}

// CounterOption customizes a Counter.
type CounterOption func(*Counter)

// WithKeyPrefix overrides the Redis key prefix. Default "unread:".
func WithKeyPrefix(prefix string) CounterOption {
	return func(c *Counter) {
		c.keyPrefix = prefix
	}
}

// WithTTL overrides how long a cached count lives. Default 10 minutes.
func WithTTL(ttl time.Duration) CounterOption {
	return func(c *Counter) {
		c.ttl = ttl
	}
}

// NewCounter creates a counter backed by the given Redis client, falling back
// to storage for recounts.
func NewCounter(client redis.UniversalClient, storage notify.Storage, opts ...CounterOption) (*Counter, error) {
	if client == nil {
		return nil, ErrClientNil
	}
	if storage == nil {
		return nil, ErrStorageNil
	}
	c := &Counter{
		client:    client,
		storage:   storage,
		keyPrefix: "unread:",
		ttl:       10 * time.Minute,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Get returns the unread count for a user, recounting from storage on a
// cache miss. A Redis read failure falls through to the recount so the
// caller still gets an answer.
func (c *Counter) Get(ctx context.Context, userID string) (int, error) {
	key := c.key(userID)

	cached, err := c.client.Get(ctx, key).Result()
	if err == nil {
		if n, parseErr := strconv.Atoi(cached); parseErr == nil {
			return n, nil
		}
	} else if !errors.Is(err, redis.Nil) && ctx.Err() != nil {
		return 0, ctx.Err()
	}

	count, err := c.storage.CountUnread(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("recount unread for %s: %w", userID, err)
	}

	// Cache failures are not worth surfacing: the next Get recounts.
	_ = c.client.Set(ctx, key, strconv.Itoa(count), c.ttl).Err()

	return count, nil
}

// Invalidate drops the cached count for a user. It implements
// notify.UnreadCache.
func (c *Counter) Invalidate(ctx context.Context, userID string) error {
	if err := c.client.Del(ctx, c.key(userID)).Err(); err != nil {
		return fmt.Errorf("invalidate unread for %s: %w", userID, err)
	}
	return nil
}

func (c *Counter) key(userID string) string {
	return c.keyPrefix + userID
}
