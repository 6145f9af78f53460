package ai

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const cacheKeyPrefix = "helpdesk:ai:severity:"

// CacheStore is the part of the redis client the cache needs.
type CacheStore interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// CachedOracle memoizes non-fallback suggestions in Redis. Cache errors are
// logged and otherwise ignored.
type CachedOracle struct {
	next   SeverityOracle
	store  CacheStore
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachedOracle(next SeverityOracle, store CacheStore, ttl time.Duration, logger *zap.Logger) *CachedOracle {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedOracle{next: next, store: store, ttl: ttl, logger: logger.Named("ai.cache")}
}

func (c *CachedOracle) SuggestSeverity(ctx context.Context, title, description string) Suggestion {
	key := CacheKey(title, description)

	cached, err := c.store.Get(ctx, key).Result()
	switch {
	case err == nil:
		if severity, ok := MapToSeverity(cached); ok {
			return Suggestion{Severity: severity, Message: MessageSuccess}
		}
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("severity cache read failed", zap.Error(err))
	}

	suggestion := c.next.SuggestSeverity(ctx, title, description)
	if suggestion.Fallback {
		return suggestion
	}
	if err := c.store.Set(ctx, key, string(suggestion.Severity), c.ttl).Err(); err != nil {
		c.logger.Warn("severity cache write failed", zap.Error(err))
	}
	return suggestion
}

// CacheKey hashes the prompt inputs.
func CacheKey(title, description string) string {
	sum := sha256.Sum256([]byte(title + "\x00" + description))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}
