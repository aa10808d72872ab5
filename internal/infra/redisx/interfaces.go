package redisx

import (
	"context"
	"time"

	"storefront-service/internal/domain"
)

type BlacklistInterface interface {
	Add(ctx context.Context, signature string, ttl time.Duration) error
	Contains(ctx context.Context, signature string) (bool, error)
}

type ProductCacheInterface interface {
	Get(ctx context.Context, id uint64) (*domain.Product, error)
	Set(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, ids ...uint64) error
}

var (
	_ BlacklistInterface    = (*TokenBlacklist)(nil)
	_ ProductCacheInterface = (*ProductCache)(nil)
)
