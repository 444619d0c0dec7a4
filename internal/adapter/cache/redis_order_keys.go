package cache

import (
	"context"
	"time"

	"github.com/legolas182/NatureGlow/internal/usecase"
	"github.com/redis/go-redis/v9"
)

// pendingMarker fills a reserved key until the order id is bound. It can
// never collide with an order id; those are UUIDs.
const pendingMarker = "pending"

// RedisOrderKeys stores one key per (user, idempotency key): SETNX writes
// the pending marker, a successful create overwrites it with the order id,
// and a failed create deletes the key so the request may be resubmitted.
type RedisOrderKeys struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisOrderKeys(rdb *redis.Client, ttl time.Duration) *RedisOrderKeys {
	return &RedisOrderKeys{rdb: rdb, ttl: ttl}
}

func orderKey(userID, key string) string {
	return "order:idem:" + userID + ":" + key
}

func (s *RedisOrderKeys) Reserve(ctx context.Context, userID, key string) (bool, error) {
	return s.rdb.SetNX(ctx, orderKey(userID, key), pendingMarker, s.ttl).Result()
}

func (s *RedisOrderKeys) Release(ctx context.Context, userID, key string) error {
	return s.rdb.Del(ctx, orderKey(userID, key)).Err()
}

func (s *RedisOrderKeys) Bind(ctx context.Context, userID, key, orderID string) error {
	return s.rdb.Set(ctx, orderKey(userID, key), orderID, s.ttl).Err()
}

func (s *RedisOrderKeys) Lookup(ctx context.Context, userID, key string) (string, bool, error) {
	val, err := s.rdb.Get(ctx, orderKey(userID, key)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	if val == pendingMarker {
		// Reserved by an in-flight request, no order to return yet.
		return "", false, nil
	}
	return val, true, nil
}

var _ usecase.IdempotencyStore = (*RedisOrderKeys)(nil)
