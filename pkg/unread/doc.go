// Package unread maintains a Redis-backed cache of per-user unread
// notification counts.
//
// The cached value is derived from storage and therefore disposable: a miss
// or stale key is recomputed with notify.Storage.CountUnread. Counter
// implements notify.UnreadCache so notify.Manager can invalidate it whenever
// a notification is created, read, or deleted.
package unread
