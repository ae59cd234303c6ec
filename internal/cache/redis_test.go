package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/ramihatou97/DCS-sub011/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPatternCache(t *testing.T) (*PatternCache, *miniredis.Miniredis) {
	t.Helper()
	server, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(server.Close)

	cache, err := NewPatternCache("redis://"+server.Addr(), time.Hour)
	require.NoError(t, err)
	t.Cleanup(func() { cache.Close() })
	return cache, server
}

func TestPatternCache_MissThenHit(t *testing.T) {
	cache, _ := newTestPatternCache(t)
	ctx := context.Background()
	types := []domain.PathologyType{domain.SAH}

	_, ok, err := cache.Get(ctx, types)
	require.NoError(t, err)
	assert.False(t, ok)

	patterns := []domain.LearnedPattern{{ID: 1, Field: "destination", Pattern: "p"}}
	require.NoError(t, cache.Set(ctx, types, patterns, 0))

	got, ok, err := cache.Get(ctx, types)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.Equal(t, "p", got[0].Pattern)
}

func TestPatternCache_ExpiredEntryIsMiss(t *testing.T) {
	cache, server := newTestPatternCache(t)
	ctx := context.Background()
	types := []domain.PathologyType{domain.TBI}

	require.NoError(t, cache.Set(ctx, types, []domain.LearnedPattern{{ID: 1}}, time.Second))
	server.FastForward(2 * time.Second)

	_, ok, err := cache.Get(ctx, types)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPatternCache_Invalidate(t *testing.T) {
	cache, _ := newTestPatternCache(t)
	ctx := context.Background()
	types := []domain.PathologyType{domain.ICH}

	require.NoError(t, cache.Set(ctx, types, []domain.LearnedPattern{{ID: 1}}, 0))
	require.NoError(t, cache.Invalidate(ctx, types))

	_, ok, err := cache.Get(ctx, types)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPatternCache_DistinctKeysPerPathologySet(t *testing.T) {
	cache, _ := newTestPatternCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, []domain.PathologyType{domain.SAH}, []domain.LearnedPattern{{ID: 1}}, 0))
	require.NoError(t, cache.Set(ctx, []domain.PathologyType{domain.TBI}, []domain.LearnedPattern{{ID: 2}}, 0))

	sahResult, ok, err := cache.Get(ctx, []domain.PathologyType{domain.SAH})
	require.NoError(t, err)
	require.True(t, ok)
	assert.EqualValues(t, 1, sahResult[0].ID)

	tbiResult, ok, err := cache.Get(ctx, []domain.PathologyType{domain.TBI})
	require.NoError(t, err)
	require.True(t, ok)
	assert.EqualValues(t, 2, tbiResult[0].ID)
}
