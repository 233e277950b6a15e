package redis

import (
	"context"
	"errors"
	"time"

	"github.com/oggyb/portfolio-backend/internal/cache"
	"github.com/redis/go-redis/v9"
)

// Client is a thin Redis-backed implementation of the cache interface.
type Client struct {
	rdb *redis.Client
}

// NewFromClient wraps an existing go-redis client so the cache can share a
// connection pool with the task broker.
func NewFromClient(rdb *redis.Client) *Client {
	return &Client{rdb: rdb}
}

// Ping checks if Redis is reachable.
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// SetNX stores a value only when the key does not exist yet.
func (c *Client) SetNX(ctx context.Context, key string, value string, ttl time.Duration) (bool, error) {
	return c.rdb.SetNX(ctx, key, value, ttl).Result()
}

// Get retrieves a value by key.
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	v, err := c.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", cache.ErrMiss
	}
	return v, err
}

// Del deletes a key from Redis.
func (c *Client) Del(ctx context.Context, key string) error {
	return c.rdb.Del(ctx, key).Err()
}

// Incr atomically increments the numeric value at key.
func (c *Client) Incr(ctx context.Context, key string) (int64, error) {
	return c.rdb.Incr(ctx, key).Result()
}

var _ cache.Cache = (*Client)(nil)
