package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"solver-route-service/internal/platform/obs"
	"solver-route-service/internal/ports"
)

// RedisOutputCache stores solver output as JSON strings with a TTL.
type RedisOutputCache struct {
	Client *redis.Client
}

func NewRedisOutputCache(client *redis.Client) *RedisOutputCache {
	return &RedisOutputCache{Client: client}
}

func (c *RedisOutputCache) Get(ctx context.Context, key string) (_ ports.SolverOutput, _ bool, err error) {
	defer obs.Time(ctx, "output.cache.redis.Get")(&err)

	if c.Client == nil {
		return ports.SolverOutput{}, false, errors.New("output cache: redis client is nil")
	}

	raw, err := c.Client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ports.SolverOutput{}, false, nil
	}
	if err != nil {
		return ports.SolverOutput{}, false, fmt.Errorf("get output cache key=%q: %w", key, err)
	}

	var out ports.SolverOutput
	if err := json.Unmarshal(raw, &out); err != nil {
		return ports.SolverOutput{}, false, fmt.Errorf("get output cache key=%q: decode: %w", key, err)
	}

	return out, true, nil
}

// Put stores out under key; a non-positive ttl keeps the entry until evicted.
func (c *RedisOutputCache) Put(ctx context.Context, key string, out ports.SolverOutput, ttl time.Duration) (err error) {
	defer obs.Time(ctx, "output.cache.redis.Put")(&err)

	if c.Client == nil {
		return errors.New("output cache: redis client is nil")
	}
	if ttl < 0 {
		ttl = 0
	}

	raw, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("put output cache key=%q: encode: %w", key, err)
	}

	if err := c.Client.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("put output cache key=%q: %w", key, err)
	}

	return nil
}
