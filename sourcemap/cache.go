// Copyright © 2024 The ELPS authors

package sourcemap

import (
	"os"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Cache holds recently used consumers keyed by the path of their source
// map file.
type Cache struct {
	lru    *lru.Cache[string, *Consumer]
	hits   prometheus.Counter
	misses prometheus.Counter
}

// NewCache returns a Cache holding at most size consumers.  Cache metrics
// are registered with registerer, or with a private registry if registerer
// is nil.
func NewCache(size int, registerer prometheus.Registerer) (*Cache, error) {
	cache, err := lru.New[string, *Consumer](size)
	if err != nil {
		return nil, err
	}
	if registerer == nil {
		registerer = prometheus.NewRegistry()
	}
	factory := promauto.With(registerer)
	return &Cache{
		lru: cache,
		hits: factory.NewCounter(prometheus.CounterOpts{
			Name: "sourcemap_cache_hits_total",
			Help: "Number of source map lookups served from the cache.",
		}),
		misses: factory.NewCounter(prometheus.CounterOpts{
			Name: "sourcemap_cache_misses_total",
			Help: "Number of source map lookups that read a file.",
		}),
	}, nil
}

// Load returns the consumer for the source map file at path, reading and
// decoding the file on a cache miss.  Files that fail to decode are not
// cached.
func (c *Cache) Load(path string) (*Consumer, error) {
	if cons, ok := c.lru.Get(path); ok {
		c.hits.Inc()
		return cons, nil
	}
	c.misses.Inc()
	b, err := os.ReadFile(path) //nolint:gosec // CLI tool reads user-specified files
	if err != nil {
		return nil, err
	}
	f, err := ParseFile(b)
	if err != nil {
		return nil, err
	}
	cons, err := f.Consumer()
	if err != nil {
		return nil, err
	}
	c.lru.Add(path, cons)
	return cons, nil
}

// Len returns the number of cached consumers.
func (c *Cache) Len() int {
	return c.lru.Len()
}
