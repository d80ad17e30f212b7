package products

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"nutriscan-backend/internal/shared/telemetry"
)

const cacheKeyPrefix = "nutriscan:product:"

// Cache stores resolved products keyed by barcode so repeat lookups
// skip the upstream call. Each lookup still records its own scan.
type Cache interface {
	GetProduct(ctx context.Context, barcode string) (Product, bool)
	SetProduct(ctx context.Context, barcode string, product Product)
}

// RedisCache is a cache-aside layer over Redis. Failures degrade to a
// miss so lookups fall through to the upstream API.
type RedisCache struct {
	Client *redis.Client
	TTL    time.Duration
}

// NewRedisCache constructs a RedisCache.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{Client: client, TTL: ttl}
}

// GetProduct looks up a cached product.
func (c *RedisCache) GetProduct(ctx context.Context, barcode string) (Product, bool) {
	data, err := c.Client.Get(ctx, cacheKeyPrefix+barcode).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			telemetry.Warn("product cache get failed", map[string]any{"error": err.Error()})
		}
		return Product{}, false
	}
	var p Product
	if err := json.Unmarshal(data, &p); err != nil {
		telemetry.Warn("product cache entry corrupt", map[string]any{"error": err.Error()})
		return Product{}, false
	}
	return p, true
}

// SetProduct stores a product under its barcode for the configured TTL.
func (c *RedisCache) SetProduct(ctx context.Context, barcode string, product Product) {
	data, err := json.Marshal(product)
	if err != nil {
		return
	}
	if err := c.Client.Set(ctx, cacheKeyPrefix+barcode, data, c.TTL).Err(); err != nil {
		telemetry.Warn("product cache set failed", map[string]any{"error": err.Error()})
	}
}

// MemoryCache is a process-local Cache for tests and cacheless dev runs.
type MemoryCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]memoryEntry
}

type memoryEntry struct {
	product   Product
	expiresAt time.Time
}

// NewMemoryCache constructs a MemoryCache with the given TTL.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{ttl: ttl, entries: make(map[string]memoryEntry)}
}

// GetProduct looks up a cached product, expiring stale entries.
func (c *MemoryCache) GetProduct(_ context.Context, barcode string) (Product, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[barcode]
	if !ok {
		return Product{}, false
	}
	if c.ttl > 0 && time.Now().After(entry.expiresAt) {
		delete(c.entries, barcode)
		return Product{}, false
	}
	return entry.product, true
}

// SetProduct stores a product under its barcode.
func (c *MemoryCache) SetProduct(_ context.Context, barcode string, product Product) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[barcode] = memoryEntry{product: product, expiresAt: time.Now().Add(c.ttl)}
}

var (
	_ Cache = (*RedisCache)(nil)
	_ Cache = (*MemoryCache)(nil)
)
