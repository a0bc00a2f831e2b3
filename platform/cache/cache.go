// Package cache provides a thin Redis-backed JSON cache.
// This is part of the platform layer and contains no business logic.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned when the key is not present in the cache.
var ErrMiss = errors.New("cache miss")

// Cache wraps a Redis client with JSON marshalling helpers.
// A nil *Cache is a valid no-op cache, so callers need no nil checks.
type Cache struct {
	client *redis.Client
}

// New connects to Redis using the given URL. An empty URL disables
// caching and returns nil (a valid no-op cache).
func New(ctx context.Context, redisURL string) (*Cache, error) {
	if redisURL == "" {
		return nil, nil
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return &Cache{client: client}, nil
}

// NewWithClient wraps an existing Redis client. Used in tests with miniredis.
func NewWithClient(client *redis.Client) *Cache {
	return &Cache{client: client}
}

// GetJSON loads the key and unmarshals it into dest. Returns ErrMiss when absent.
func (c *Cache) GetJSON(ctx context.Context, key string, dest interface{}) error {
	if c == nil {
		return ErrMiss
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrMiss
	}
	if err != nil {
		return err
	}

	return json.Unmarshal(data, dest)
}

// SetJSON marshals value and stores it under key with the given TTL.
func (c *Cache) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c == nil {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, key, data, ttl).Err()
}

// DeletePrefix removes all keys with the given prefix.
func (c *Cache) DeletePrefix(ctx context.Context, prefix string) error {
	if c == nil {
		return nil
	}

	iter := c.client.Scan(ctx, 0, prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

// Close releases the underlying Redis connection.
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
