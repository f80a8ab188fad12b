package source

import (
	"context"
	"fmt"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/hashicorp/golang-lru/v2/simplelru"
	"github.com/rs/zerolog/log"
)

// Fetcher retrieves the encoded bytes behind a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// FetcherFunc adapts a plain function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, url string) ([]byte, error)

// Fetch calls f(ctx, url).
func (f FetcherFunc) Fetch(ctx context.Context, url string) ([]byte, error) {
	return f(ctx, url)
}

// Key returns the cache key of a source URL: the 64-bit xxHash of the exact
// URL string. Distinct URLs that collide share one entry.
func Key(url string) uint64 {
	return xxhash.Sum64String(url)
}

// Cache provides thread-safe, capacity-bounded caching of fetched source
// images to avoid redundant network reads.
//
// Entries are evicted in least-recently-used order once the cache holds
// capacity entries. A lookup hit counts as a use.
//
// Cache is safe for concurrent use by multiple goroutines. The lock only
// guards in-memory bookkeeping and is never held while fetching, so a slow
// origin delays only the requests that wait on it.
//
// # Concurrent Misses
//
// Requests that miss on the same URL at the same time each fetch it
// independently. The last one to finish overwrites the others' entry; the
// bytes are identical in the normal case, so this only costs bandwidth.
//
// # Example Usage
//
//	cache, err := source.NewCache(1024, source.NewHTTPFetcher(source.FetcherConfig{}))
//	if err != nil {
//	    return err
//	}
//	data, err := cache.GetOrFetch(ctx, "https://example.com/cat.jpg")
type Cache struct {
	mu      sync.Mutex
	entries *simplelru.LRU[uint64, []byte]
	fetcher Fetcher
}

// NewCache creates an empty cache holding at most capacity sources.
//
// Parameters:
//   - capacity: Maximum number of entries. Must be positive.
//   - fetcher: Collaborator used on a miss. Must not be nil.
func NewCache(capacity int, fetcher Fetcher) (*Cache, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("source cache requires a fetcher")
	}
	entries, err := simplelru.NewLRU[uint64, []byte](capacity, func(key uint64, data []byte) {
		log.Debug().Uint64("key", key).Int("bytes", len(data)).Msg("evicted source")
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create source cache: %w", err)
	}
	return &Cache{
		entries: entries,
		fetcher: fetcher,
	}, nil
}

// GetOrFetch returns the bytes for url from the cache, or fetches and stores
// them if not cached.
//
// Returns:
//   - []byte: The encoded source. The slice is shared with the cache and with
//     other callers; it must not be modified.
//   - error: The fetcher's error, unchanged. Failed fetches are not cached,
//     so the next request for the same URL tries again.
//
// # Context
//
// ctx is passed to the fetcher only. A hit never blocks on the network.
func (c *Cache) GetOrFetch(ctx context.Context, url string) ([]byte, error) {
	key := Key(url)

	c.mu.Lock()
	data, ok := c.entries.Get(key)
	c.mu.Unlock()
	if ok {
		log.Debug().Str("url", url).Uint64("key", key).Msg("source cache hit")
		return data, nil
	}

	log.Debug().Str("url", url).Uint64("key", key).Msg("source cache miss")
	data, err := c.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries.Add(key, data)
	c.mu.Unlock()

	return data, nil
}

// Contains reports whether url is cached without updating its recency.
func (c *Cache) Contains(url string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries.Contains(Key(url))
}

// Len returns the number of cached sources.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries.Len()
}

// Evict removes a specific source from the cache by its URL.
//
// If the URL is not in the cache, this method does nothing.
// After eviction, the next GetOrFetch call for this URL fetches again.
func (c *Cache) Evict(url string) {
	c.mu.Lock()
	c.entries.Remove(Key(url))
	c.mu.Unlock()
}

// Clear removes all sources from the cache, freeing the associated memory.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries.Purge()
	c.mu.Unlock()
}
