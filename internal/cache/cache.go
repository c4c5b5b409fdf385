// Package cache implements the TTL-bounded result cache over Redis.
//
// The cache is a best-effort optimization, never a source of truth: every
// operation degrades to a no-op or cache-miss when Redis is unreachable, and
// favorite flags are never trusted from cached payloads.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// noKeyword is the key sentinel for searches without a keyword.
const noKeyword = "none"

// Cache stores serialized search results and per-user favorites blobs.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// New returns a Cache applying ttl to every entry.
func New(rdb *redis.Client, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, ttl: ttl}
}

// searchKey builds the deterministic key for a (lat, lon, keyword) search.
// Coordinates are normalized to four decimal places so numerically equal
// values with different textual precision share one entry.
func searchKey(lat, lon float64, keyword string) string {
	if keyword == "" {
		keyword = noKeyword
	}
	return fmt.Sprintf("search:lat=%.4f&lon=%.4f&keyword=%s", lat, lon, keyword)
}

// favoritesKey builds the key for a user's cached favorites blob.
func favoritesKey(userID string) string {
	return fmt.Sprintf("history:userId=%s", userID)
}

// GetSearch returns the cached payload for a search, or ok=false on miss.
// Redis errors count as misses.
func (c *Cache) GetSearch(ctx context.Context, lat, lon float64, keyword string) (string, bool) {
	key := searchKey(lat, lon, keyword)
	val, err := c.rdb.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("[cache] get %s: %v", key, err)
		}
		return "", false
	}
	return val, true
}

// SetSearch stores a search payload with the configured TTL. Failures are
// logged and swallowed; a cache write must never fail a request.
func (c *Cache) SetSearch(ctx context.Context, lat, lon float64, keyword, payload string) {
	key := searchKey(lat, lon, keyword)
	if err := c.rdb.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		log.Printf("[cache] set %s: %v", key, err)
	}
}

// GetFavorites returns the cached favorites blob for a user, or ok=false.
func (c *Cache) GetFavorites(ctx context.Context, userID string) (string, bool) {
	key := favoritesKey(userID)
	val, err := c.rdb.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("[cache] get %s: %v", key, err)
		}
		return "", false
	}
	return val, true
}

// SetFavorites stores a user's favorites blob with the configured TTL.
func (c *Cache) SetFavorites(ctx context.Context, userID, payload string) {
	key := favoritesKey(userID)
	if err := c.rdb.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		log.Printf("[cache] set %s: %v", key, err)
	}
}

// DeleteFavorites invalidates a user's favorites blob. Called on every
// favorites mutation so stale favorite state is never served.
func (c *Cache) DeleteFavorites(ctx context.Context, userID string) {
	key := favoritesKey(userID)
	if err := c.rdb.Del(ctx, key).Err(); err != nil {
		log.Printf("[cache] del %s: %v", key, err)
	}
}
