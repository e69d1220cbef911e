package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ceylonrover/CeylonRover-ServerSide/internal/models"
)

// testValkeyClient returns a Redis client connected to the test Valkey.
// Skips the test if Valkey is unavailable.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15, // Use DB 15 for tests to isolate from dev data.
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, "feed:*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})

	return client
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestFeedCache_SetGetMiss(t *testing.T) {
	client := testValkeyClient(t)
	c := NewFeedCache(client, time.Minute)
	ctx := context.Background()

	if _, ok := c.Get(ctx, models.ContentTypeBlog, 20, 0); ok {
		t.Fatal("expected miss on cold cache")
	}

	payload := []byte(`[{"id":1}]`)
	c.Set(ctx, models.ContentTypeBlog, 20, 0, payload)

	got, ok := c.Get(ctx, models.ContentTypeBlog, 20, 0)
	if !ok {
		t.Fatal("expected hit after set")
	}
	if string(got) != string(payload) {
		t.Errorf("got %q, want %q", got, payload)
	}

	// A different page is a separate key.
	if _, ok := c.Get(ctx, models.ContentTypeBlog, 20, 20); ok {
		t.Error("expected miss for a different offset")
	}
}

func TestFeedCache_InvalidateFeedScopedToType(t *testing.T) {
	client := testValkeyClient(t)
	c := NewFeedCache(client, time.Minute)
	ctx := context.Background()

	c.Set(ctx, models.ContentTypeBlog, 20, 0, []byte(`blogs`))
	c.Set(ctx, models.ContentTypeBlog, 20, 20, []byte(`blogs p2`))
	c.Set(ctx, models.ContentTypeTravsnap, 20, 0, []byte(`snaps`))

	if err := c.InvalidateFeed(ctx, models.ContentTypeBlog); err != nil {
		t.Fatalf("InvalidateFeed: %v", err)
	}

	if _, ok := c.Get(ctx, models.ContentTypeBlog, 20, 0); ok {
		t.Error("blog feed page 1 survived invalidation")
	}
	if _, ok := c.Get(ctx, models.ContentTypeBlog, 20, 20); ok {
		t.Error("blog feed page 2 survived invalidation")
	}
	if _, ok := c.Get(ctx, models.ContentTypeTravsnap, 20, 0); !ok {
		t.Error("travsnap feed wrongly invalidated")
	}
}
