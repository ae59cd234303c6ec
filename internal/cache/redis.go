package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ramihatou97/DCS-sub011/internal/domain"
	"github.com/redis/go-redis/v9"
)

// PatternCache is a read-through shared cache in front of the pattern
// store's FilterByPathology lookups, so multiple extraction-service
// instances don't each hit Postgres for the same pathology's pattern set
// on every request. It is optional: a nil *PatternCache (no Redis URL
// configured) means every lookup simply falls through to the store.
type PatternCache struct {
	redis      *redis.Client
	defaultTTL time.Duration
}

// NewPatternCache parses redisURL and verifies connectivity with a short
// ping before returning, failing fast rather than failing silently on
// first use.
func NewPatternCache(redisURL string, defaultTTL time.Duration) (*PatternCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}

	if defaultTTL <= 0 {
		defaultTTL = 24 * time.Hour
	}
	return &PatternCache{redis: client, defaultTTL: defaultTTL}, nil
}

type cachedPatterns struct {
	Patterns  []domain.LearnedPattern `json:"patterns"`
	CachedAt  time.Time               `json:"cachedAt"`
	ExpiresAt time.Time               `json:"expiresAt"`
}

// Get returns the cached pattern set for types, or (nil, false) on a
// cache miss, a corrupted entry (evicted on read), or an expired entry.
func (c *PatternCache) Get(ctx context.Context, types []domain.PathologyType) ([]domain.LearnedPattern, bool, error) {
	key := cacheKey(types)

	val, err := c.redis.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading pattern cache: %w", err)
	}

	var cached cachedPatterns
	if err := json.Unmarshal([]byte(val), &cached); err != nil {
		c.redis.Del(ctx, key)
		return nil, false, nil
	}
	if time.Now().After(cached.ExpiresAt) {
		c.redis.Del(ctx, key)
		return nil, false, nil
	}
	return cached.Patterns, true, nil
}

// Set caches patterns for types using ttl, or the cache's default TTL
// when ttl is zero.
func (c *PatternCache) Set(ctx context.Context, types []domain.PathologyType, patterns []domain.LearnedPattern, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	key := cacheKey(types)

	cached := cachedPatterns{Patterns: patterns, CachedAt: time.Now(), ExpiresAt: time.Now().Add(ttl)}
	encoded, err := json.Marshal(cached)
	if err != nil {
		return fmt.Errorf("marshaling pattern cache entry: %w", err)
	}
	return c.redis.Set(ctx, key, encoded, ttl).Err()
}

// Invalidate drops the cached entry for types. The pattern stores do not
// call it on Insert, UpdateConfidence, Delete, or Rollback, so without an
// explicit call a cached pattern set lives until its TTL expires.
func (c *PatternCache) Invalidate(ctx context.Context, types []domain.PathologyType) error {
	return c.redis.Del(ctx, cacheKey(types)).Err()
}

func (c *PatternCache) Close() error {
	return c.redis.Close()
}

func cacheKey(types []domain.PathologyType) string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	sort.Strings(names)
	return "patterns:" + strings.Join(names, ",")
}
