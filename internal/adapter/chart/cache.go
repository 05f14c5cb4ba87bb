package chart

import (
	"container/list"
	"sync"

	"github.com/couchcryptid/covid-tracker-service/internal/domain"
	"github.com/couchcryptid/covid-tracker-service/internal/observability"
)

// ViewRenderer turns a view into image bytes.
type ViewRenderer interface {
	Render(v domain.View) ([]byte, error)
}

// CachedRenderer wraps a ViewRenderer with an in-memory LRU cache keyed by
// View.Key, which changes whenever the view state or the dataset version does.
type CachedRenderer struct {
	inner   ViewRenderer
	cache   *lruCache
	metrics *observability.Metrics
}

// NewCachedRenderer creates a cache decorator around a renderer.
func NewCachedRenderer(inner ViewRenderer, maxEntries int, metrics *observability.Metrics) *CachedRenderer {
	return &CachedRenderer{
		inner:   inner,
		cache:   newLRUCache(maxEntries),
		metrics: metrics,
	}
}

func (c *CachedRenderer) Render(v domain.View) ([]byte, error) {
	key := v.Key()
	if img, ok := c.cache.get(key); ok {
		c.metrics.ChartCache.WithLabelValues("hit").Inc()
		return img, nil
	}
	c.metrics.ChartCache.WithLabelValues("miss").Inc()

	img, err := c.inner.Render(v)
	if err != nil {
		return nil, err
	}
	c.cache.put(key, img)
	return img, nil
}

// lruCache is a thread-safe LRU of rendered images. The front of order is
// the most recently used entry.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*list.Element
	order      *list.List
}

type entry struct {
	key   string
	value []byte
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*list.Element),
		order:      list.New(),
	}
}

func (c *lruCache) get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*entry).value, true
}

func (c *lruCache) put(key string, value []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		el.Value.(*entry).value = value
		c.order.MoveToFront(el)
		return
	}

	c.entries[key] = c.order.PushFront(&entry{key: key, value: value})
	for c.order.Len() > c.maxEntries {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*entry).key)
	}
}

func (c *lruCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
