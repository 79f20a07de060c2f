package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/redis/go-redis/v9"
)

// RedisCache shares resolved records between service instances. Redis
// failures degrade to cache misses.
type RedisCache[T any] struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisCache[T any](client *redis.Client, prefix string, ttl time.Duration) *RedisCache[T] {
	return &RedisCache[T]{client: client, prefix: prefix, ttl: ttl}
}

func (c *RedisCache[T]) key(id int) string {
	return fmt.Sprintf("%s:%d", c.prefix, id)
}

func (c *RedisCache[T]) Get(ctx context.Context, id int) (T, bool) {
	var value T
	raw, err := c.client.Get(ctx, c.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return value, false
	}
	if err != nil {
		log.Warnf("redis get %s failed: %v", c.key(id), err)
		return value, false
	}
	if err := json.Unmarshal(raw, &value); err != nil {
		log.Warnf("redis value %s is not valid json: %v", c.key(id), err)
		return value, false
	}
	return value, true
}

func (c *RedisCache[T]) Add(ctx context.Context, id int, value T) {
	raw, err := json.Marshal(value)
	if err != nil {
		log.Warnf("encoding %s for redis failed: %v", c.key(id), err)
		return
	}
	if err := c.client.Set(ctx, c.key(id), raw, c.ttl).Err(); err != nil {
		log.Warnf("redis set %s failed: %v", c.key(id), err)
	}
}

func (c *RedisCache[T]) Remove(ctx context.Context, id int) {
	if err := c.client.Del(ctx, c.key(id)).Err(); err != nil {
		log.Warnf("redis del %s failed: %v", c.key(id), err)
	}
}

// OpenRedis connects to addr and checks the connection.
func OpenRedis(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", addr, err)
	}
	return client, nil
}
