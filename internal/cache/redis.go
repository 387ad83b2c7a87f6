package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/BrainTwoPoint0/nexus-sub002/internal/domain/model"
	"github.com/BrainTwoPoint0/nexus-sub002/pkg/logger"
	"github.com/BrainTwoPoint0/nexus-sub002/pkg/metrics"
)

// Default Redis cache configuration constants.
const (
	defaultKeyPrefix = "nexus:score"
)

// RedisOption applies a configuration option to the RedisCache.
type RedisOption func(*RedisCache)

// WithRedisTTL sets how long entries stay valid.
func WithRedisTTL(ttl time.Duration) RedisOption {
	return func(c *RedisCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithKeyPrefix sets the key namespace prefix.
func WithKeyPrefix(prefix string) RedisOption {
	return func(c *RedisCache) {
		if prefix != "" {
			c.keyPrefix = prefix
		}
	}
}

// WithRedisLogger sets a custom logger for the cache.
func WithRedisLogger(log logger.Logger) RedisOption {
	return func(c *RedisCache) {
		if log != nil {
			c.logger = log
		}
	}
}

// RedisCache is a Redis-backed score cache for multi-process deployments.
// Backend failures are logged and read as misses; they never propagate.
type RedisCache struct {
	client    *redis.Client
	ttl       time.Duration
	keyPrefix string
	logger    logger.Logger
}

// NewRedisCache wraps an existing Redis client.
func NewRedisCache(client *redis.Client, opts ...RedisOption) *RedisCache {
	c := &RedisCache{
		client:    client,
		ttl:       defaultTTL,
		keyPrefix: defaultKeyPrefix,
		logger:    logger.Get().Named("redis-cache"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached score for a pair and whether it was present.
func (c *RedisCache) Get(ctx context.Context, key model.PairKey) (model.MatchScore, bool) {
	raw, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			metrics.RecordErrorByComponent("cache", "redis_get")
			c.logger.Warn(ctx, "redis get failed", logger.Error(err))
		}
		metrics.RecordCacheMiss()
		return model.MatchScore{}, false
	}

	var score model.MatchScore
	if err := json.Unmarshal(raw, &score); err != nil {
		metrics.RecordErrorByComponent("cache", "redis_decode")
		c.logger.Warn(ctx, "redis entry decode failed", logger.Error(err))
		metrics.RecordCacheMiss()
		return model.MatchScore{}, false
	}

	metrics.RecordCacheHit()
	return score, true
}

// Set stores a score, replacing any previous entry for its pair.
func (c *RedisCache) Set(ctx context.Context, score model.MatchScore) {
	raw, err := json.Marshal(score)
	if err != nil {
		metrics.RecordErrorByComponent("cache", "redis_encode")
		c.logger.Warn(ctx, "redis entry encode failed", logger.Error(err))
		return
	}
	if err := c.client.Set(ctx, c.key(score.Key()), raw, c.ttl).Err(); err != nil {
		metrics.RecordErrorByComponent("cache", "redis_set")
		c.logger.Warn(ctx, "redis set failed", logger.Error(err))
	}
}

// Invalidate drops the entry for a pair, if any.
func (c *RedisCache) Invalidate(ctx context.Context, key model.PairKey) {
	if err := c.client.Del(ctx, c.key(key)).Err(); err != nil {
		metrics.RecordErrorByComponent("cache", "redis_del")
		c.logger.Warn(ctx, "redis delete failed", logger.Error(err))
	}
}

func (c *RedisCache) key(key model.PairKey) string {
	return fmt.Sprintf("%s:%s:%s", c.keyPrefix, key.CandidateID, key.JobID)
}
