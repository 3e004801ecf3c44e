package client

import (
	"strings"
	"sync"
)

// queryCache is the in-memory read cache. Entries are raw response bodies
// keyed by request path plus encoded parameters. Concurrent writes to the
// same key are last-write-wins; there is no TTL, only explicit invalidation.
type queryCache struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

func newQueryCache() *queryCache {
	return &queryCache{entries: make(map[string][]byte)}
}

func (qc *queryCache) get(key string) ([]byte, bool) {
	qc.mu.RLock()
	defer qc.mu.RUnlock()
	data, ok := qc.entries[key]
	return data, ok
}

func (qc *queryCache) set(key string, data []byte) {
	qc.mu.Lock()
	defer qc.mu.Unlock()
	qc.entries[key] = data
}

// invalidatePrefix drops every entry whose key starts with prefix, so
// invalidating a collection path also evicts its filtered variants and
// item sub-paths.
func (qc *queryCache) invalidatePrefix(prefix string) {
	qc.mu.Lock()
	defer qc.mu.Unlock()
	for key := range qc.entries {
		if strings.HasPrefix(key, prefix) {
			delete(qc.entries, key)
		}
	}
}
