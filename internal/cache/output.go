// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"sync"
	"time"
)

// Generated documents are keyed by the base URL they were built for:
// the resolved base can change between requests (CMS-provided base,
// configured site URL, or request host), and a document built for one
// base must not be served for another.

// RobotsKey returns the cache key for the robots.txt document.
func RobotsKey(baseURL string) string {
	return "output:robots:" + baseURL
}

// SitemapIndexKey returns the cache key for the sitemap index document.
func SitemapIndexKey(baseURL string) string {
	return "output:sitemap-index:" + baseURL
}

// SitemapKey returns the cache key for one locale's sitemap.
func SitemapKey(locale, baseURL string) string {
	return "output:sitemap:" + locale + ":" + baseURL
}

// BuildFunc generates a document when the cache has no fresh copy.
type BuildFunc func(ctx context.Context) ([]byte, error)

// OutputCache caches generated documents (robots.txt, sitemaps) on top
// of a Cache backend. Concurrent requests for the same cold key build
// the document once.
type OutputCache struct {
	cache Cache
	ttl   time.Duration
	mu    sync.Mutex
}

// NewOutputCache creates an output cache. TTL defaults to 1 hour.
func NewOutputCache(backend Cache, ttl time.Duration) *OutputCache {
	if ttl == 0 {
		ttl = time.Hour
	}
	return &OutputCache{cache: backend, ttl: ttl}
}

// GetOrBuild returns the cached document for key, generating and
// caching it when missing or expired.
func (c *OutputCache) GetOrBuild(ctx context.Context, key string, build BuildFunc) ([]byte, error) {
	if out, err := c.cache.Get(ctx, key); err == nil {
		return out, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check after acquiring the lock
	if out, err := c.cache.Get(ctx, key); err == nil {
		return out, nil
	}

	out, err := build(ctx)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(ctx, key, out, c.ttl); err != nil {
		// A failed write still leaves us with a valid document
		return out, nil
	}

	return out, nil
}

// Invalidate removes one cached document.
func (c *OutputCache) Invalidate(ctx context.Context, key string) error {
	return c.cache.Delete(ctx, key)
}

// InvalidateAll clears every cached document.
func (c *OutputCache) InvalidateAll(ctx context.Context) error {
	return c.cache.Clear(ctx)
}
