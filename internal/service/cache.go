package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/student-portal-api/internal/observability"
)

// jsonCache stores JSON documents in Redis. A nil client disables caching.
type jsonCache struct {
	client *redis.Client
	name   string
	ttl    time.Duration
	logger zerolog.Logger
}

func newJSONCache(client *redis.Client, name string, ttl time.Duration, logger zerolog.Logger) jsonCache {
	return jsonCache{client: client, name: name, ttl: ttl, logger: logger}
}

// get loads key into target and reports whether it was a hit.
func (c jsonCache) get(ctx context.Context, key string, target interface{}) bool {
	if c.client == nil {
		return false
	}

	cached, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn().Err(err).Str("cache", c.name).Msg("failed to read cache")
		}
		observability.CacheRequests().WithLabelValues(c.name, "miss").Inc()
		return false
	}

	if err := json.Unmarshal(cached, target); err != nil {
		c.logger.Warn().Err(err).Str("cache", c.name).Msg("discarding malformed cache entry")
		observability.CacheRequests().WithLabelValues(c.name, "miss").Inc()
		return false
	}

	observability.CacheRequests().WithLabelValues(c.name, "hit").Inc()
	return true
}

func (c jsonCache) set(ctx context.Context, key string, value interface{}) {
	if c.client == nil || c.ttl <= 0 {
		return
	}

	payload, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn().Err(err).Str("cache", c.name).Msg("failed to encode cache entry")
		return
	}

	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Str("cache", c.name).Msg("failed to store cache entry")
	}
}

// invalidate deletes every key matching pattern.
func (c jsonCache) invalidate(ctx context.Context, pattern string) {
	if c.client == nil {
		return
	}

	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	keys := make([]string, 0)
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.logger.Warn().Err(err).Str("cache", c.name).Msg("failed to scan cache keys")
		return
	}
	if len(keys) == 0 {
		return
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn().Err(err).Str("cache", c.name).Msg("failed to invalidate cache")
	}
}
