package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// ResolverCache is a read-through cache of catalog identity lookups:
// artist name -> artist id and (artist id, album title) -> album id.
// It only accelerates resolution; correctness rests on the unique indexes
// in MySQL. A nil client disables caching entirely.
type ResolverCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewResolverCache creates a resolver cache. client may be nil.
func NewResolverCache(client *redis.Client, ttl time.Duration) *ResolverCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &ResolverCache{client: client, ttl: ttl}
}

func artistKey(name string) string {
	return fmt.Sprintf("resolver:artist:%s", name)
}

func albumKey(artistID int64, title string) string {
	return fmt.Sprintf("resolver:album:%d:%s", artistID, title)
}

// GetArtistID returns the cached artist id for a name. ok is false on miss,
// disabled cache, or any Redis error (misses and errors look the same to
// the resolver — it just falls through to the database).
func (c *ResolverCache) GetArtistID(ctx context.Context, name string) (int64, bool) {
	return c.getID(ctx, artistKey(name))
}

// SetArtistID caches an artist id under its name.
func (c *ResolverCache) SetArtistID(ctx context.Context, name string, id int64) {
	c.setID(ctx, artistKey(name), id)
}

// GetAlbumID returns the cached album id for an identity key.
func (c *ResolverCache) GetAlbumID(ctx context.Context, artistID int64, title string) (int64, bool) {
	return c.getID(ctx, albumKey(artistID, title))
}

// SetAlbumID caches an album id under its identity key.
func (c *ResolverCache) SetAlbumID(ctx context.Context, artistID int64, title string, id int64) {
	c.setID(ctx, albumKey(artistID, title), id)
}

func (c *ResolverCache) getID(ctx context.Context, key string) (int64, bool) {
	if c == nil || c.client == nil {
		return 0, false
	}
	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		return 0, false
	}
	id, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func (c *ResolverCache) setID(ctx context.Context, key string, id int64) {
	if c == nil || c.client == nil {
		return
	}
	// Best effort; a failed write just means a future database lookup.
	c.client.Set(ctx, key, strconv.FormatInt(id, 10), c.ttl)
}
