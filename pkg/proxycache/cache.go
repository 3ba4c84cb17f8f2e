// Package proxycache holds recently proxied objects in memory so repeated
// QR/thumbnail requests don't hit the object store. It is never a source of
// truth: every entry can be rebuilt from storage at any time.
package proxycache

import (
	"sort"
	"sync"
	"time"
)

// Resource categories, each with its own per-item size ceiling expressed as
// a fraction of the total byte budget. Anything bigger is served straight
// through without being cached.
const (
	CategoryQR        = "qr"
	CategoryThumbnail = "thumbnail"
	CategoryFile      = "file"
)

var categoryCeiling = map[string]float64{
	CategoryQR:        0.10,
	CategoryThumbnail: 0.20,
	CategoryFile:      0.20,
}

type Entry struct {
	Bytes       []byte
	ContentType string
	ETag        string

	lastAccess time.Time
}

type Cache struct {
	mu sync.Mutex

	entries    map[string]*Entry
	totalBytes int64

	maxBytes   int64
	maxEntries int
}

func New(maxBytes int64, maxEntries int) *Cache {
	return &Cache{
		entries:    make(map[string]*Entry),
		maxBytes:   maxBytes,
		maxEntries: maxEntries,
	}
}

func cacheKey(category, storageKey string) string {
	return category + "/" + storageKey
}

// Get returns the cached entry for (category, storageKey), refreshing its
// access time on a hit
func (c *Cache) Get(category, storageKey string) (*Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[cacheKey(category, storageKey)]
	if !ok {
		return nil, false
	}

	e.lastAccess = time.Now()
	return e, true
}

// Put stores an object if it fits under its category's per-item ceiling.
// Returns false when the object was too large to cache; callers still serve
// it, it just isn't retained.
func (c *Cache) Put(category, storageKey string, data []byte, contentType, etag string) bool {
	ceiling := int64(float64(c.maxBytes) * categoryCeiling[category])
	if int64(len(data)) > ceiling {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey(category, storageKey)

	if old, ok := c.entries[key]; ok {
		c.totalBytes -= int64(len(old.Bytes))
	}

	c.entries[key] = &Entry{
		Bytes:       data,
		ContentType: contentType,
		ETag:        etag,
		lastAccess:  time.Now(),
	}
	c.totalBytes += int64(len(data))

	if len(c.entries) > c.maxEntries || c.totalBytes > c.maxBytes {
		c.evictLocked()
	}

	return true
}

// Sweep runs the eviction pass if the cache is over either budget. Meant to
// be called from a periodic job.
func (c *Cache) Sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) > c.maxEntries || c.totalBytes > c.maxBytes {
		c.evictLocked()
	}
}

// evictLocked drops the least-recently-accessed half of the entries. Not
// strict LRU: bounded memory matters more than hit rate, since the object
// store always backs a miss.
func (c *Cache) evictLocked() {
	type aged struct {
		key  string
		last time.Time
	}

	all := make([]aged, 0, len(c.entries))
	for k, e := range c.entries {
		all = append(all, aged{key: k, last: e.lastAccess})
	}

	sort.Slice(all, func(i, j int) bool {
		return all[i].last.Before(all[j].last)
	})

	for _, a := range all[:len(all)/2] {
		c.totalBytes -= int64(len(c.entries[a.key].Bytes))
		delete(c.entries, a.key)
	}
}

// Len reports the number of cached entries
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

// Size reports the cached byte total
func (c *Cache) Size() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.totalBytes
}
