package cache

import (
	"context"
	"errors"
	"fmt"
	"route-optimizer-service/internal/platform/obs"
	"route-optimizer-service/internal/ports"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "distance:"

// RedisDistanceCache stores pair results as "meters:seconds" strings with a TTL.
// A zero TTL keeps entries forever.
type RedisDistanceCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisDistanceCache(client *redis.Client, ttl time.Duration) *RedisDistanceCache {
	return &RedisDistanceCache{client: client, ttl: ttl}
}

func (c *RedisDistanceCache) GetMany(
	ctx context.Context,
	pairs []ports.Pair,
) (_ map[ports.Pair]ports.DistanceResult, err error) {
	defer obs.Time(ctx, "distance.cache.redis.GetMany")(&err)

	out := make(map[ports.Pair]ports.DistanceResult, len(pairs))
	if len(pairs) == 0 {
		return out, nil
	}

	keys := make([]string, len(pairs))
	for i, p := range pairs {
		keys[i] = redisKeyPrefix + ports.NewPair(p.A, p.B).Key()
	}

	vals, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("get redis distance cache: mget: %w", err)
	}

	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue
		}
		r, err := decodeRedisValue(s)
		if err != nil {
			return nil, fmt.Errorf("get redis distance cache key=%q: %w", keys[i], err)
		}
		out[pairs[i]] = r
	}

	return out, nil
}

func (c *RedisDistanceCache) PutMany(
	ctx context.Context,
	results map[ports.Pair]ports.DistanceResult,
) (err error) {
	defer obs.Time(ctx, "distance.cache.redis.PutMany")(&err)

	if len(results) == 0 {
		return nil
	}

	pipe := c.client.TxPipeline()
	for p, r := range results {
		key := redisKeyPrefix + ports.NewPair(p.A, p.B).Key()
		pipe.Set(ctx, key, fmt.Sprintf("%d:%d", r.DistanceMeters, r.DurationSeconds), c.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("put redis distance cache: exec pipeline: %w", err)
	}

	return nil
}

func decodeRedisValue(s string) (ports.DistanceResult, error) {
	m, sec, ok := strings.Cut(s, ":")
	if !ok {
		return ports.DistanceResult{}, errors.New("malformed cache value")
	}
	meters, err := strconv.Atoi(m)
	if err != nil {
		return ports.DistanceResult{}, fmt.Errorf("malformed meters %q", m)
	}
	seconds, err := strconv.Atoi(sec)
	if err != nil {
		return ports.DistanceResult{}, fmt.Errorf("malformed seconds %q", sec)
	}
	return ports.DistanceResult{DistanceMeters: meters, DurationSeconds: seconds}, nil
}
