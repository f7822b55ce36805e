package cache

import (
	"context"
	"time"
)

// TTL windows. Aggregate and listing reads may be stale up to their TTL;
// an entity's own detail key is deleted synchronously on every write and
// is never served stale.
const (
	DetailTTL = 30 * time.Minute
	ListTTL   = 15 * time.Minute
	StatsTTL  = 15 * time.Minute
)

// Cache is the key-value collaborator used to memoize expensive
// recompositions. Implementations are injected at construction; services
// never reach for a shared global.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Delete(ctx context.Context, keys ...string)
}
