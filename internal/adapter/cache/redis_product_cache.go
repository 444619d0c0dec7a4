package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/legolas182/NatureGlow/internal/entity"
	"github.com/legolas182/NatureGlow/internal/usecase"
	"github.com/redis/go-redis/v9"
)

type RedisProductCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisProductCache(rdb *redis.Client, ttl time.Duration) *RedisProductCache {
	return &RedisProductCache{rdb: rdb, ttl: ttl}
}

func key(id string) string { return "product:" + id }

func (c *RedisProductCache) Get(ctx context.Context, id string) (*entity.Product, bool, error) {
	raw, err := c.rdb.Get(ctx, key(id)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var p entity.Product
	if err := json.Unmarshal(raw, &p); err != nil {
		// stale encoding; treat as a miss
		return nil, false, nil
	}
	return &p, true, nil
}

func (c *RedisProductCache) Set(ctx context.Context, p *entity.Product) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key(p.ID), raw, c.ttl).Err()
}

func (c *RedisProductCache) Invalidate(ctx context.Context, id string) error {
	return c.rdb.Del(ctx, key(id)).Err()
}

var _ usecase.ProductCache = (*RedisProductCache)(nil)
