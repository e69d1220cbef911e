// feed.go provides a Valkey-backed cache for the approved-content feeds.
// The public blog and travsnap listings are served from here when warm;
// a terminal moderation decision invalidates the affected feed so newly
// approved content appears without waiting for TTL expiry.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ceylonrover/CeylonRover-ServerSide/internal/models"
)

const (
	// feedKeyPrefix is the Valkey key prefix for cached feed pages.
	feedKeyPrefix = "feed:"

	// DefaultFeedTTL is how long a feed page stays cached.
	DefaultFeedTTL = 5 * time.Minute
)

// FeedCache manages cached JSON feed pages in Valkey.
type FeedCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewFeedCache creates a feed cache backed by the given Valkey client.
func NewFeedCache(client *redis.Client, ttl time.Duration) *FeedCache {
	if ttl == 0 {
		ttl = DefaultFeedTTL
	}
	return &FeedCache{client: client, ttl: ttl}
}

func feedKey(contentType models.ContentType, limit, offset int) string {
	return fmt.Sprintf("%s%s:%d:%d", feedKeyPrefix, contentType, limit, offset)
}

// Get retrieves a cached feed page. Returns false on miss; cache errors
// count as misses so the caller falls through to the database.
func (c *FeedCache) Get(ctx context.Context, contentType models.ContentType, limit, offset int) ([]byte, bool) {
	val, err := c.client.Get(ctx, feedKey(contentType, limit, offset)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("feed cache get error", "content_type", string(contentType), "error", err)
		return nil, false
	}
	return val, true
}

// Set stores a rendered feed page with the configured TTL.
func (c *FeedCache) Set(ctx context.Context, contentType models.ContentType, limit, offset int, payload []byte) {
	if err := c.client.Set(ctx, feedKey(contentType, limit, offset), payload, c.ttl).Err(); err != nil {
		slog.Warn("feed cache set error", "content_type", string(contentType), "error", err)
	}
}

// InvalidateFeed drops every cached page of one content type's feed.
func (c *FeedCache) InvalidateFeed(ctx context.Context, contentType models.ContentType) error {
	pattern := feedKeyPrefix + string(contentType) + ":*"
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return fmt.Errorf("feed cache scan: %w", err)
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("feed cache del: %w", err)
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}
