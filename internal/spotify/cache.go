package spotify

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
)

// CacheTTL is the duration after which a cached lookup is considered stale.
const CacheTTL = 24 * time.Hour

// Resolver looks up a playable link for a song.
type Resolver interface {
	ResolveTrack(ctx context.Context, title, artist string) (string, error)
}

type cacheEntry struct {
	url       string
	miss      bool
	fetchedAt time.Time
}

// CachedResolver remembers lookups in memory so repeated songs, such as the
// fallback sequence, cost one search. Definite misses are cached too;
// transport errors are not.
type CachedResolver struct {
	resolver Resolver
	ttl      time.Duration
	now      func() time.Time

	mu      sync.Mutex
	entries map[string]cacheEntry
}

// NewCachedResolver wraps resolver with an in-memory cache.
func NewCachedResolver(resolver Resolver) *CachedResolver {
	return &CachedResolver{
		resolver: resolver,
		ttl:      CacheTTL,
		now:      time.Now,
		entries:  make(map[string]cacheEntry),
	}
}

// ResolveTrack implements Resolver.
func (c *CachedResolver) ResolveTrack(ctx context.Context, title, artist string) (string, error) {
	key := cacheKey(title, artist)

	c.mu.Lock()
	entry, found := c.entries[key]
	c.mu.Unlock()

	// Lazy invalidation of stale entries
	if found && c.now().Sub(entry.fetchedAt) < c.ttl {
		if entry.miss {
			return "", ErrNoMatch
		}
		return entry.url, nil
	}

	url, err := c.resolver.ResolveTrack(ctx, title, artist)
	switch {
	case err == nil:
		c.store(key, cacheEntry{url: url, fetchedAt: c.now()})
	case errors.Is(err, ErrNoMatch):
		c.store(key, cacheEntry{miss: true, fetchedAt: c.now()})
	}
	return url, err
}

func (c *CachedResolver) store(key string, entry cacheEntry) {
	c.mu.Lock()
	c.entries[key] = entry
	c.mu.Unlock()
}

func cacheKey(title, artist string) string {
	return strings.ToLower(strings.TrimSpace(artist)) + "\x00" + strings.ToLower(strings.TrimSpace(title))
}
