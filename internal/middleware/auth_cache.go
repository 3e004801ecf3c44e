package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sync"
	"time"
)

const (
	sessionCacheTTL    = 5 * time.Minute
	negativeCacheTTL   = 30 * time.Second
	maxCacheEntries    = 10000
	cacheCleanupPeriod = 60 * time.Second
)

// errCachedNotFound is returned for negative cache hits.
var errCachedNotFound = errors.New("session not found (cached)")

type cachedSession struct {
	sess      *Session // nil marks a cached lookup failure
	fetchedAt time.Time
}

// ttl returns the appropriate TTL for this entry.
func (cs cachedSession) ttl() time.Duration {
	if cs.sess == nil {
		return negativeCacheTTL
	}
	return sessionCacheTTL
}

// hashToken returns a hex-encoded SHA-256 hash of the token so raw tokens
// are never stored in memory.
func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}

// CachedSessionLookup wraps a SessionLookup with a bounded in-memory cache.
type CachedSessionLookup struct {
	inner SessionLookup
	mu    sync.RWMutex
	cache map[string]cachedSession
}

// NewCachedSessionLookup creates a caching wrapper around the given lookup.
// The provided context controls the lifetime of the eviction goroutine.
func NewCachedSessionLookup(ctx context.Context, inner SessionLookup) *CachedSessionLookup {
	c := &CachedSessionLookup{
		inner: inner,
		cache: make(map[string]cachedSession),
	}
	go c.evictLoop(ctx)
	return c
}

// evictLoop periodically removes expired entries from the cache.
func (c *CachedSessionLookup) evictLoop(ctx context.Context) {
	ticker := time.NewTicker(cacheCleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.mu.Lock()
			now := time.Now()
			for k, v := range c.cache {
				if now.Sub(v.fetchedAt) >= v.ttl() {
					delete(c.cache, k)
				}
			}
			c.mu.Unlock()
		}
	}
}

// GetSessionByToken returns a cached session or delegates to the inner
// lookup. Failed lookups are negatively cached for 30s so invalid tokens
// cannot hammer the database.
func (c *CachedSessionLookup) GetSessionByToken(ctx context.Context, token string) (*Session, error) {
	ht := hashToken(token)

	c.mu.RLock()
	entry, ok := c.cache[ht]
	if ok && time.Since(entry.fetchedAt) < entry.ttl() {
		c.mu.RUnlock()
		if entry.sess == nil {
			return nil, errCachedNotFound
		}
		return entry.sess, nil
	}
	c.mu.RUnlock()

	sess, err := c.inner.GetSessionByToken(ctx, token)
	if err != nil {
		c.mu.Lock()
		c.cache[ht] = cachedSession{sess: nil, fetchedAt: time.Now()}
		c.mu.Unlock()
		return nil, err
	}

	c.mu.Lock()
	if len(c.cache) >= maxCacheEntries {
		now := time.Now()
		for k, v := range c.cache {
			if now.Sub(v.fetchedAt) >= v.ttl() {
				delete(c.cache, k)
			}
		}
		for k := range c.cache {
			if len(c.cache) < maxCacheEntries {
				break
			}
			delete(c.cache, k)
		}
	}
	c.cache[ht] = cachedSession{sess: sess, fetchedAt: time.Now()}
	c.mu.Unlock()

	return sess, nil
}
