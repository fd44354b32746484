package capture

import (
	"context"
	"sync"
	"time"
)

// URLResolver resolves the active page URL from the browser, typically a
// round-trip over the DevTools protocol.
type URLResolver interface {
	ActiveURL(ctx context.Context) (string, error)
}

// urlCache avoids a resolver round-trip per captured event. A ttl of 0
// disables caching.
type urlCache struct {
	mu       sync.Mutex
	resolver URLResolver
	ttl      time.Duration

	url     string
	fetched time.Time
}

func newURLCache(resolver URLResolver, ttl time.Duration) *urlCache {
	return &urlCache{resolver: resolver, ttl: ttl}
}

// resolve returns the active URL, best-effort: on resolver failure the
// last known URL (possibly empty) is returned so capture never blocks on
// URL resolution.
func (c *urlCache) resolve(ctx context.Context) string {
	if c.resolver == nil {
		return ""
	}

	c.mu.Lock()
	if c.ttl > 0 && c.url != "" && time.Since(c.fetched) < c.ttl {
		url := c.url
		c.mu.Unlock()
		return url
	}
	stale := c.url
	c.mu.Unlock()

	url, err := c.resolver.ActiveURL(ctx)
	if err != nil {
		return stale
	}

	c.mu.Lock()
	c.url = url
	c.fetched = time.Now()
	c.mu.Unlock()
	return url
}

// invalidate clears the cache, used on navigation events.
func (c *urlCache) invalidate() {
	c.mu.Lock()
	c.url = ""
	c.mu.Unlock()
}
