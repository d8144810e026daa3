// SPDX-License-Identifier: MIT
// Copyright (c) 2026 StaticHQ
// Source: github.com/statichq/sitemin

package sitemin

import (
	"encoding/hex"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/zeebo/blake3"
)

// cacheKeyLength is the number of hex characters kept from the digest.
const cacheKeyLength = 16

// defaultCacheKey is returned for a nil or empty configuration subset.
const defaultCacheKey = "default"

// CompressorCache memoizes constructed compressor objects, one bounded
// LRU sub-cache per compressor type. A single mutex covers every
// read-modify-write across all sub-caches: these are rare, expensive
// operations, not a hot path needing fine-grained locking.
type CompressorCache struct {
	mu     sync.Mutex
	caches map[CompressorType]*lru.Cache[string, any]
	stats  CacheStats
	log    *slog.Logger
}

// NewCompressorCache creates an empty cache with css/js/html
// sub-caches of MaxCacheSize entries each.
func NewCompressorCache(log *slog.Logger) *CompressorCache {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	c := &CompressorCache{
		caches: make(map[CompressorType]*lru.Cache[string, any], 3),
		log:    log,
	}
	for _, t := range []CompressorType{TypeCSS, TypeJS, TypeHTML} {
		// Eviction callbacks run while c.mu is held by the mutating call.
		sub, _ := lru.NewWithEvict[string, any](MaxCacheSize, func(key string, _ any) {
			c.stats.Evictions++
			c.log.Debug("compressor evicted", slog.String("type", string(t)), slog.String("key", key))
		})
		c.caches[t] = sub
	}

	return c
}

// GetOrCreate returns the cached compressor for (t, key), constructing
// it via factory on a miss. A hit bumps recency; a miss at capacity
// evicts the least-recently-used entry. The factory runs under the
// cache lock and must not re-enter the cache: nested construction uses
// the lock-free compressor helpers instead. A factory error propagates
// and nothing is cached.
func (c *CompressorCache) GetOrCreate(t CompressorType, key string, factory func() (any, error)) (any, error) {
	if factory == nil {
		return nil, ErrNilFactory
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	sub, ok := c.caches[t]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCompressorType, t)
	}

	if cached, hit := sub.Get(key); hit {
		c.stats.Hits++
		return cached, nil
	}

	c.stats.Misses++
	built, err := factory()
	if err != nil {
		return nil, err
	}

	sub.Add(key, built)
	return built, nil
}

// ClearAll empties every sub-cache and resets statistics to zero.
func (c *CompressorCache) ClearAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, sub := range c.caches {
		sub.Purge()
	}
	c.stats = CacheStats{}
}

// Stats returns a snapshot copy of the counters.
func (c *CompressorCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.stats
}

// SizeSnapshot holds current per-type cache sizes and their total.
type SizeSnapshot struct {
	CSS   int `json:"css" yaml:"css"`
	JS    int `json:"js" yaml:"js"`
	HTML  int `json:"html" yaml:"html"`
	Total int `json:"total" yaml:"total"`
}

// Sizes returns current per-type entry counts plus a total.
func (c *CompressorCache) Sizes() SizeSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snapshot := SizeSnapshot{
		CSS:  c.caches[TypeCSS].Len(),
		JS:   c.caches[TypeJS].Len(),
		HTML: c.caches[TypeHTML].Len(),
	}
	snapshot.Total = snapshot.CSS + snapshot.JS + snapshot.HTML
	return snapshot
}

// HitRatio returns hits / (hits + misses), or 0.0 before any lookup.
func (c *CompressorCache) HitRatio() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := c.stats.Hits + c.stats.Misses
	if total == 0 {
		return 0.0
	}

	return float64(c.stats.Hits) / float64(total)
}

// GenerateCacheKey derives a deterministic, order-independent key from
// one configuration subset: entries sorted by key, rendered to one
// canonical string, digested with BLAKE3, and truncated for
// readability. A nil or empty subset maps to "default".
func GenerateCacheKey(subset map[string]any) string {
	if len(subset) == 0 {
		return defaultCacheKey
	}

	names := make([]string, 0, len(subset))
	for name := range subset {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		fmt.Fprintf(&b, "%s=%v;", name, subset[name])
	}

	sum := blake3.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])[:cacheKeyLength]
}
