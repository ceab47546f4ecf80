package storage

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// RedisKV stores values as plain Redis strings.
type RedisKV struct {
	client *redis.Client
}

func NewRedisKV(client *redis.Client) *RedisKV {
	return &RedisKV{client: client}
}

func (r *RedisKV) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	return data, err
}

func (r *RedisKV) Set(ctx context.Context, key string, value []byte) error {
	return r.client.Set(ctx, key, value, 0).Err()
}

// Close releases the underlying connection pool.
func (r *RedisKV) Close() error {
	return r.client.Close()
}
