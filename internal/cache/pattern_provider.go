package cache

import (
	"context"

	"github.com/ramihatou97/DCS-sub011/internal/domain"
	"github.com/ramihatou97/DCS-sub011/internal/patterns"
)

// CachedPatternProvider implements coordinator.PatternProvider by
// putting PatternCache in front of a patterns.Store: a cache hit skips
// the store (and, transitively, its circuit breaker) entirely; a miss
// falls through to the store and populates the cache for next time. A
// nil cache degrades to a direct pass-through, so wiring Redis remains
// optional.
type CachedPatternProvider struct {
	store patterns.Store
	cache *PatternCache
}

// NewCachedPatternProvider wraps store with cache. cache may be nil.
func NewCachedPatternProvider(store patterns.Store, cache *PatternCache) *CachedPatternProvider {
	return &CachedPatternProvider{store: store, cache: cache}
}

func (p *CachedPatternProvider) FilterByPathology(ctx context.Context, types []domain.PathologyType) ([]domain.LearnedPattern, error) {
	if p.cache == nil {
		return p.store.FilterByPathology(ctx, types)
	}

	if cached, ok, err := p.cache.Get(ctx, types); err == nil && ok {
		return cached, nil
	}

	result, err := p.store.FilterByPathology(ctx, types)
	if err != nil {
		return nil, err
	}

	_ = p.cache.Set(ctx, types, result, 0)
	return result, nil
}
