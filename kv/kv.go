package kv

import (
	"context"
	"time"
)

// Store is the key-value contract every service persists through.
// Values are opaque strings; callers JSON-encode what they need.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Del(ctx context.Context, keys ...string) error
	MGet(ctx context.Context, keys ...string) ([]string, error)
	MSet(ctx context.Context, entries map[string]string) error
	// GetByPrefix returns the values of every key starting with prefix.
	GetByPrefix(ctx context.Context, prefix string) ([]string, error)
	// SetNX writes only if the key is absent. Used for idempotency records.
	SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
}
