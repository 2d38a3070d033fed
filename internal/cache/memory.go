package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/clinical-calculator-mcp-server/internal/domain"
)

// MemoryCache is an in-process LRU cache whose entries expire after a fixed TTL.
type MemoryCache struct {
	lru *expirable.LRU[string, *domain.CalculatorResult]
	counters
}

// NewMemoryCache creates a cache holding at most maxItems results for ttl each.
func NewMemoryCache(maxItems int, ttl time.Duration) (*MemoryCache, error) {
	if maxItems <= 0 {
		return nil, fmt.Errorf("cache size must be positive, got %d", maxItems)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("cache ttl must be positive, got %s", ttl)
	}
	return &MemoryCache{
		lru: expirable.NewLRU[string, *domain.CalculatorResult](maxItems, nil, ttl),
	}, nil
}

// Get returns a copy of the cached result.
func (c *MemoryCache) Get(_ context.Context, key string) (*domain.CalculatorResult, bool) {
	r, ok := c.lru.Get(key)
	c.record(ok)
	if !ok {
		return nil, false
	}
	return r.Clone(), true
}

// Set stores a copy of result.
func (c *MemoryCache) Set(_ context.Context, key string, result *domain.CalculatorResult) error {
	if result == nil {
		return nil
	}
	c.lru.Add(key, result.Clone())
	return nil
}

// Purge drops every entry.
func (c *MemoryCache) Purge() {
	c.lru.Purge()
}

// Stats returns hit and miss counts and the current size.
func (c *MemoryCache) Stats() Stats {
	return Stats{Hits: c.hits.Load(), Misses: c.misses.Load(), Size: c.lru.Len()}
}

// Close implements domain.ResultCache.
func (c *MemoryCache) Close() error {
	c.lru.Purge()
	return nil
}
