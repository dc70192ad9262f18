package store

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisBackend stores each record as a Redis string.
type RedisBackend struct {
	client  *redis.Client
	cartTTL time.Duration
}

// NewRedisBackend wraps client. cartTTL applies to the cart record only;
// zero means no expiry.
func NewRedisBackend(client *redis.Client, cartTTL time.Duration) *RedisBackend {
	return &RedisBackend{
		client:  client,
		cartTTL: cartTTL,
	}
}

func (r *RedisBackend) Get(ctx context.Context, key string) (string, bool, error) {
	data, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return data, true, nil
}

func (r *RedisBackend) Set(ctx context.Context, key, value string) error {
	var ttl time.Duration
	if key == KeyCart || strings.HasSuffix(key, ":"+KeyCart) {
		ttl = r.cartTTL
	}
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *RedisBackend) Close() error {
	return r.client.Close()
}
