// File: httpsession/cache.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package httpsession

import (
	"strings"
	"sync"
)

// ResponseCache is a name -> cached-response-bytes map consulted for GET
// requests before a request ever reaches application handlers. Path
// lookups strip any query string, matching how a request URL maps to a
// cache entry.
type ResponseCache struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

// NewResponseCache returns an empty cache.
func NewResponseCache() *ResponseCache {
	return &ResponseCache{entries: make(map[string][]byte)}
}

// Put stores the wire bytes of a complete response under path.
func (c *ResponseCache) Put(path string, response []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[path] = response
}

// Delete removes a cache entry, if present.
func (c *ResponseCache) Delete(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, path)
}

// Lookup returns the cached response for path (query string stripped), if
// any.
func (c *ResponseCache) Lookup(path string) ([]byte, bool) {
	if q := strings.IndexByte(path, '?'); q >= 0 {
		path = path[:q]
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	b, ok := c.entries[path]
	return b, ok
}
