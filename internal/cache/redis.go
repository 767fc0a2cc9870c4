// Package cache holds short-lived read caches in Redis.
package cache

import (
	"context"
	"fmt"
	"time"

	"food-ordering-system/internal/config"

	"github.com/redis/go-redis/v9"
)

// Cache stores string values under namespaced keys. Get returns "" on a miss.
type Cache interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	GenerateKey(operation, key string) string
}

// RedisCache is the go-redis backed Cache
type RedisCache struct {
	client      *redis.Client
	serviceName string
}

// NewRedisCache returns a Cache on the configured Redis, namespaced by serviceName
func NewRedisCache(cfg config.RedisConfig, serviceName string) *RedisCache {
	return &RedisCache{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
		serviceName: serviceName,
	}
}

func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *RedisCache) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (r *RedisCache) GenerateKey(operation, key string) string {
	return generateKey(r.serviceName, operation, key)
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}

func generateKey(service, operation, key string) string {
	return fmt.Sprintf("%s:%s:%s", service, operation, key)
}

// Nop never stores anything; every Get is a miss
type Nop struct{}

func (Nop) Set(context.Context, string, interface{}, time.Duration) error { return nil }
func (Nop) Get(context.Context, string) (string, error) { return "", nil }
func (Nop) GenerateKey(operation, key string) string { return generateKey("nop", operation, key) }
