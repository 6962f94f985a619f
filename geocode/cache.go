package geocode

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"geosleuth/types"
)

// Cached remembers successful lookups for a fixed TTL. Errors are never stored.
type Cached struct {
	next  Geocoder
	cache *cache.Cache
}

func NewCached(next Geocoder, ttl time.Duration) *Cached {
	return &Cached{next: next, cache: cache.New(ttl, 2*ttl)}
}

func cacheKey(name string, limit int) string {
	return fmt.Sprintf("%d|%s", limit, strings.ToLower(strings.TrimSpace(name)))
}

func (c *Cached) Geocode(ctx context.Context, name string, limit int) ([]types.Place, error) {
	key := cacheKey(name, limit)
	if v, ok := c.cache.Get(key); ok {
		return clonePlaces(v.([]types.Place)), nil
	}

	places, err := c.next.Geocode(ctx, name, limit)
	if err != nil {
		return nil, err
	}
	c.cache.SetDefault(key, clonePlaces(places))
	return places, nil
}

func clonePlaces(p []types.Place) []types.Place {
	out := make([]types.Place, len(p))
	copy(out, p)
	return out
}

// Unwrap returns the geocoder behind the cache.
func (c *Cached) Unwrap() Geocoder {
	return c.next
}
