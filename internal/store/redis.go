package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const DefaultRedisPrefix = "storefront:"

type RedisKV struct {
	client    *redis.Client
	keyPrefix string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func NewRedisKV(ctx context.Context, cfg RedisConfig) (*RedisKV, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return NewRedisKVWithClient(client, DefaultRedisPrefix), nil
}

// NewRedisKVWithClient wraps an existing client. An empty prefix uses
// DefaultRedisPrefix.
func NewRedisKVWithClient(client *redis.Client, keyPrefix string) *RedisKV {
	if keyPrefix == "" {
		keyPrefix = DefaultRedisPrefix
	}
	return &RedisKV{client: client, keyPrefix: keyPrefix}
}

func (r *RedisKV) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, r.keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("get slot %s: %w", key, err)
	}
	return data, nil
}

func (r *RedisKV) Put(ctx context.Context, key string, value []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.keyPrefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("set slot %s: %w", key, err)
	}
	return nil
}

func (r *RedisKV) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("delete slot %s: %w", key, err)
	}
	return nil
}

func (r *RedisKV) Close() error {
	return r.client.Close()
}
