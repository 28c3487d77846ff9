package cache

import (
	"context"
	"time"
)

// Cache is a read-through byte cache with per-entry TTL. It backs the
// university reference lookups; everything stored in it is reconstructable
// from the upstream provider, so losing entries is always safe.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
}
