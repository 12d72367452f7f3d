package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const DefaultRedisPrefix = "weekgrid:"

// RedisMedium stores each key as a plain string value under a prefix.
type RedisMedium struct {
	client *redis.Client
	prefix string
}

func NewRedisMedium(client *redis.Client, prefix string) (*RedisMedium, error) {
	if client == nil {
		return nil, errors.New("storage: nil redis client")
	}
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisMedium{client: client, prefix: prefix}, nil
}

// RedisKey returns the redis key a storage key lives under.
func (r *RedisMedium) RedisKey(key string) string {
	return r.prefix + key
}

func (r *RedisMedium) Load(ctx context.Context, key string) ([]byte, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	data, err := r.client.Get(ctx, r.RedisKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return data, nil
}

func (r *RedisMedium) Save(ctx context.Context, key string, value []byte) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.RedisKey(key), value, 0).Err(); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

func (r *RedisMedium) Close() error {
	return r.client.Close()
}
