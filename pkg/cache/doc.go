// Package cache provides a small generic LRU used to bound per-user
// resources such as live inbox feeds.
package cache
