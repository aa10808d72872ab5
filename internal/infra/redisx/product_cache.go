package redisx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"storefront-service/internal/domain"

	"github.com/redis/go-redis/v9"
)

type ProductCache struct {
	rdb *redis.Client
}

func NewProductCache(rdb *redis.Client) *ProductCache {
	return &ProductCache{rdb: rdb}
}

// Get returns nil, nil on a cache miss.
func (c *ProductCache) Get(ctx context.Context, id uint64) (*domain.Product, error) {
	b, err := c.rdb.Get(ctx, fmt.Sprintf(KeyProduct, id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var p domain.Product
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *ProductCache) Set(ctx context.Context, p *domain.Product) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, fmt.Sprintf(KeyProduct, p.ID), data, TTLProductCache).Err()
}

func (c *ProductCache) Delete(ctx context.Context, ids ...uint64) error {
	if len(ids) == 0 {
		return nil
	}
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, fmt.Sprintf(KeyProduct, id))
	}
	return c.rdb.Del(ctx, keys...).Err()
}
