package cache

import (
	"context"
	"errors"
	"fmt"
	"itinerary-route-service/internal/domain"
	"itinerary-route-service/internal/platform/obs"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLegCache stores provider legs in Redis with a per-entry TTL.
type RedisLegCache struct {
	Client *redis.Client
	Prefix string
}

func NewRedisLegCache(client *redis.Client) *RedisLegCache {
	return &RedisLegCache{Client: client, Prefix: "itinerary:"}
}

func (c *RedisLegCache) GetLegs(ctx context.Context, key string) (_ []domain.Leg, _ bool, err error) {
	defer obs.Time(ctx, "legs.redis.Get")(&err)

	if c.Client == nil {
		return nil, false, errors.New("redis leg cache: client is nil")
	}

	b, err := c.Client.Get(ctx, c.Prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis leg cache: get %q: %w", key, err)
	}

	legs, err := decodeLegs(b)
	if err != nil {
		return nil, false, fmt.Errorf("redis leg cache: %w", err)
	}
	return legs, true, nil
}

func (c *RedisLegCache) PutLegs(ctx context.Context, key string, legs []domain.Leg, ttl time.Duration) (err error) {
	defer obs.Time(ctx, "legs.redis.Put")(&err)

	if c.Client == nil {
		return errors.New("redis leg cache: client is nil")
	}
	if key == "" {
		return errors.New("redis leg cache: key must not be empty")
	}

	b, err := encodeLegs(legs)
	if err != nil {
		return fmt.Errorf("redis leg cache: %w", err)
	}

	if err := c.Client.Set(ctx, c.Prefix+key, b, ttl).Err(); err != nil {
		return fmt.Errorf("redis leg cache: set %q: %w", key, err)
	}
	return nil
}
