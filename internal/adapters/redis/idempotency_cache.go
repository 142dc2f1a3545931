package redis

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// IdempotencyCache is a write-through accelerator in front of C3's
// Postgres system of record: a completed receipt is served from Redis
// without a Postgres round trip, mirroring the teacher's
// CreateOrCheckIdempotencyKey's SetNX/Get pair.
type IdempotencyCache struct {
	Client *goredis.Client
	TTL    time.Duration
}

func NewIdempotencyCache(client *goredis.Client, ttl time.Duration) *IdempotencyCache {
	return &IdempotencyCache{Client: client, TTL: ttl}
}

func cacheKey(scopeHash string) string {
	return "ledgercore:idempotency:" + scopeHash
}

// GetResult returns the cached result JSON for scopeHash, or "" if
// nothing is cached — a cache miss is never an error, the caller falls
// back to Postgres.
func (c *IdempotencyCache) GetResult(ctx context.Context, scopeHash string) (string, error) {
	result, err := c.Client.Get(ctx, cacheKey(scopeHash)).Result()
	if errors.Is(err, goredis.Nil) {
		return "", nil
	}

	return result, err
}

// SetResult writes scopeHash's completed result JSON into the cache.
func (c *IdempotencyCache) SetResult(ctx context.Context, scopeHash, resultJSON string) error {
	return c.Client.Set(ctx, cacheKey(scopeHash), resultJSON, c.TTL).Err()
}
