package redisx

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenBlacklist stores invalidated token signatures until the token would
// have expired anyway.
type TokenBlacklist struct {
	rdb *redis.Client
}

func NewTokenBlacklist(rdb *redis.Client) *TokenBlacklist {
	return &TokenBlacklist{rdb: rdb}
}

// Add is a no-op for tokens that are already expired.
func (b *TokenBlacklist) Add(ctx context.Context, signature string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return b.rdb.Set(ctx, fmt.Sprintf(KeyTokenBlacklist, signature), "1", ttl).Err()
}

func (b *TokenBlacklist) Contains(ctx context.Context, signature string) (bool, error) {
	return Exists(ctx, b.rdb, fmt.Sprintf(KeyTokenBlacklist, signature))
}
