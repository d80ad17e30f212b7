package scans

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"nutriscan-backend/internal/shared/telemetry"
	"nutriscan-backend/nutrition/analyzer"
)

const cacheKeyPrefix = "nutriscan:analysis:"

// Cache stores completed analyses keyed by input digest. Identical
// label text re-analyzed within the TTL skips the pipeline.
type Cache interface {
	GetAnalysis(ctx context.Context, key string) (*analyzer.Analysis, bool)
	SetAnalysis(ctx context.Context, key string, analysis *analyzer.Analysis)
}

// RedisCache is a cache-aside layer over Redis. Every failure degrades
// to a miss so the pipeline recomputes instead of failing the request.
type RedisCache struct {
	Client *redis.Client
	TTL    time.Duration
}

// NewRedisCache constructs a RedisCache.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{Client: client, TTL: ttl}
}

// GetAnalysis looks up a cached analysis.
func (c *RedisCache) GetAnalysis(ctx context.Context, key string) (*analyzer.Analysis, bool) {
	data, err := c.Client.Get(ctx, cacheKeyPrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			telemetry.Warn("analysis cache get failed", map[string]any{"error": err.Error()})
		}
		return nil, false
	}
	var a analyzer.Analysis
	if err := json.Unmarshal(data, &a); err != nil {
		telemetry.Warn("analysis cache entry corrupt", map[string]any{"error": err.Error()})
		return nil, false
	}
	return &a, true
}

// SetAnalysis stores an analysis under the key for the configured TTL.
func (c *RedisCache) SetAnalysis(ctx context.Context, key string, analysis *analyzer.Analysis) {
	if analysis == nil {
		return
	}
	data, err := json.Marshal(analysis)
	if err != nil {
		return
	}
	if err := c.Client.Set(ctx, cacheKeyPrefix+key, data, c.TTL).Err(); err != nil {
		telemetry.Warn("analysis cache set failed", map[string]any{"error": err.Error()})
	}
}

// MemoryCache is a process-local Cache for tests and cacheless dev runs.
type MemoryCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryCacheEntry
}

type memoryCacheEntry struct {
	analysis  analyzer.Analysis
	expiresAt time.Time
}

// NewMemoryCache constructs a MemoryCache with the given TTL.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]memoryCacheEntry),
	}
}

// GetAnalysis looks up a cached analysis, expiring stale entries.
func (c *MemoryCache) GetAnalysis(_ context.Context, key string) (*analyzer.Analysis, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.ttl > 0 && c.now().After(entry.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	a := entry.analysis
	return &a, true
}

// SetAnalysis stores an analysis under the key.
func (c *MemoryCache) SetAnalysis(_ context.Context, key string, analysis *analyzer.Analysis) {
	if analysis == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = memoryCacheEntry{analysis: *analysis, expiresAt: c.now().Add(c.ttl)}
}

var (
	_ Cache = (*RedisCache)(nil)
	_ Cache = (*MemoryCache)(nil)
)
