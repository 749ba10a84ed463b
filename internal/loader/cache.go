package loader

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/gcbaptista/site-search/model"
)

// Cache holds the collection for one search session. The collection is
// fetched on first Get and reused until Invalidate. Concurrent Gets while a
// fetch is in flight share that fetch. Failed fetches are not cached, so the
// next Get retries.
type Cache struct {
	fetcher Fetcher
	source  string
	group   singleflight.Group

	mu         sync.RWMutex
	docs       model.Collection
	loaded     bool
	generation uint64
}

// NewCache creates a Cache reading source through fetcher.
func NewCache(fetcher Fetcher, source string) *Cache {
	return &Cache{fetcher: fetcher, source: source}
}

// Source returns the index location this cache reads.
func (c *Cache) Source() string {
	return c.source
}

// Cached returns the collection if it has been loaded.
func (c *Cache) Cached() (model.Collection, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.docs, c.loaded
}

// Get returns the collection, loading it if needed. Cancelling ctx stops the
// wait but not a fetch other callers may still be waiting on.
func (c *Cache) Get(ctx context.Context) (model.Collection, error) {
	if docs, ok := c.Cached(); ok {
		return docs, nil
	}

	ch := c.group.DoChan("collection", func() (interface{}, error) {
		c.mu.RLock()
		if c.loaded {
			docs := c.docs
			c.mu.RUnlock()
			return docs, nil
		}
		gen := c.generation
		c.mu.RUnlock()

		docs, err := c.fetcher.Load(context.WithoutCancel(ctx), c.source)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		if c.generation == gen {
			c.docs = docs
			c.loaded = true
		}
		c.mu.Unlock()
		return docs, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(model.Collection), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Invalidate drops the cached collection; the next Get fetches again.
// A fetch already in flight still answers its waiters but is not cached.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.docs = nil
	c.loaded = false
	c.generation++
}
