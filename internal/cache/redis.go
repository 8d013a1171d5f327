package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "tts:audio:"

// RedisBackend stores entries in Redis, for deployments where several
// replicas should share one cache. A TTL of zero keeps entries forever.
type RedisBackend struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisBackend(client *redis.Client, ttl time.Duration) *RedisBackend {
	return &RedisBackend{client: client, ttl: ttl}
}

func (b *RedisBackend) Read(ctx context.Context, name string) ([]byte, error) {
	data, err := b.client.Get(ctx, redisKeyPrefix+name).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("cache get %s: %w", name, err)
	}
	return data, nil
}

func (b *RedisBackend) Write(ctx context.Context, name string, payload []byte) (string, error) {
	key := redisKeyPrefix + name
	if err := b.client.Set(ctx, key, payload, b.ttl).Err(); err != nil {
		return "", fmt.Errorf("cache set %s: %w", name, err)
	}
	return key, nil
}
