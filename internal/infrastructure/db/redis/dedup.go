package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const dedupTTL = time.Hour

// DedupChecker claims idempotency keys in Redis.
// Key format: purchase:<user_id>:<idempotency_key>
type DedupChecker struct {
	client *redis.Client
	ttl    time.Duration
}

func NewDedupChecker(client *redis.Client) *DedupChecker {
	return &DedupChecker{client: client, ttl: dedupTTL}
}

// Claim atomically records key and reports whether this is its first use
// within the TTL window.
func (d *DedupChecker) Claim(ctx context.Context, key string) (bool, error) {
	ok, err := d.client.SetNX(ctx, d.key(key), "1", d.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("dedup claim: %w", err)
	}
	return ok, nil
}

func (d *DedupChecker) key(key string) string {
	return "purchase:" + key
}
