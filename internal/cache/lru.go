// Package cache provides two caching layers: an in-process LRU for
// pathology-detection and source-quality results, and an optional
// Redis-backed cache for pattern lookups shared across instances.
package cache

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/hashicorp/golang-lru/v2"
	"github.com/ramihatou97/DCS-sub011/internal/domain"
)

// ComputationCache memoizes pathology detection and source-quality
// assessment results by a NoteKey over normalized note text; both
// computations are pure functions of that text. The coordinator and the
// orchestrator do not consult it: the orchestrator's refinement loop
// recomputes both on every coordinator pass.
type ComputationCache struct {
	pathology *lru.Cache[string, domain.PathologyDetection]
	quality   *lru.Cache[string, domain.SourceQualityReport]
}

// NewComputationCache creates a cache holding up to size entries per
// computation kind.
func NewComputationCache(size int) (*ComputationCache, error) {
	if size <= 0 {
		size = 128
	}
	pathology, err := lru.New[string, domain.PathologyDetection](size)
	if err != nil {
		return nil, err
	}
	quality, err := lru.New[string, domain.SourceQualityReport](size)
	if err != nil {
		return nil, err
	}
	return &ComputationCache{pathology: pathology, quality: quality}, nil
}

// NoteKey derives a stable cache key from normalized note text, so
// callers never need to hold the raw note text as a map key.
func NoteKey(normalizedText string) string {
	sum := sha256.Sum256([]byte(normalizedText))
	return hex.EncodeToString(sum[:])
}

func (c *ComputationCache) GetPathology(key string) (domain.PathologyDetection, bool) {
	return c.pathology.Get(key)
}

func (c *ComputationCache) SetPathology(key string, detection domain.PathologyDetection) {
	c.pathology.Add(key, detection)
}

func (c *ComputationCache) GetQuality(key string) (domain.SourceQualityReport, bool) {
	return c.quality.Get(key)
}

func (c *ComputationCache) SetQuality(key string, report domain.SourceQualityReport) {
	c.quality.Add(key, report)
}

// Purge drops every entry from both layers.
func (c *ComputationCache) Purge() {
	c.pathology.Purge()
	c.quality.Purge()
}
