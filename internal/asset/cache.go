package asset

import (
	"errors"
	"fmt"
	"image"
	"sync"
)

// ErrNotFound means no base image is indexed for a variant.
var ErrNotFound = errors.New("asset: no image for variant")

// Resolver resolves a variant id to its decoded base image.
type Resolver interface {
	Resolve(variant string) (image.Image, error)
}

// Cache is a concurrency-safe base image cache.
type Cache struct {
	mu    sync.RWMutex
	items map[string]*cacheEntry
	index *Index
}

type cacheEntry struct {
	img *image.NRGBA
	err error
}

// NewCache creates a new image cache backed by the given index.
func NewCache(index *Index) *Cache {
	return &Cache{
		items: make(map[string]*cacheEntry),
		index: index,
	}
}

// Resolve loads and caches the base image for a variant. Load failures are
// cached too, so a broken file is read once.
func (c *Cache) Resolve(variant string) (image.Image, error) {
	path, ok := c.index.ResolvePath(variant)
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrNotFound, variant)
	}

	// Fast path: read lock
	c.mu.RLock()
	if entry, exists := c.items[path]; exists {
		c.mu.RUnlock()
		return entry.result()
	}
	c.mu.RUnlock()

	// Slow path: load from disk
	img, err := LoadImage(path)

	// Write lock with double-check
	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, exists := c.items[path]; exists {
		return entry.result()
	}
	entry := &cacheEntry{img: img, err: err}
	c.items[path] = entry
	return entry.result()
}

func (e *cacheEntry) result() (image.Image, error) {
	if e.err != nil {
		return nil, e.err
	}
	return e.img, nil
}
