package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// InsightsCache stores generated insights per username so repeated loads do
// not re-run analytics and generation.
type InsightsCache interface {
	Get(ctx context.Context, username string) (InsightsResponse, bool)
	Set(ctx context.Context, username string, response InsightsResponse)
}

type noopCache struct{}

func (noopCache) Get(context.Context, string) (InsightsResponse, bool) {
	return InsightsResponse{}, false
}
func (noopCache) Set(context.Context, string, InsightsResponse) {}

// MemoryCache is an in-process TTL cache for insights responses.
type MemoryCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	response InsightsResponse
	expires  time.Time
}

// NewMemoryCache creates a cache with the given TTL. Non-positive TTLs
// default to five minutes.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &MemoryCache{
		ttl:     ttl,
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Get returns a cached response when present and unexpired.
func (c *MemoryCache) Get(_ context.Context, username string) (InsightsResponse, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[username]
	if !ok {
		return InsightsResponse{}, false
	}
	if c.now().After(entry.expires) {
		delete(c.entries, username)
		return InsightsResponse{}, false
	}
	return entry.response, true
}

// Set caches a response for the TTL window.
func (c *MemoryCache) Set(_ context.Context, username string, response InsightsResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[username] = memoryEntry{response: response, expires: c.now().Add(c.ttl)}
}

const redisKeyPrefix = "advisor:insights:"

// RedisCache stores insights responses in Redis so replicas share one cache.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache connects to the Redis instance described by the URL.
func NewRedisCache(redisURL string, ttl time.Duration) (*RedisCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("advisor: parse redis url: %w", err)
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	client := redis.NewClient(opt)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("advisor: redis ping: %w", err)
	}
	return &RedisCache{client: client, ttl: ttl}, nil
}

// Get returns a cached response when present. Decode failures read as a
// cache miss.
func (c *RedisCache) Get(ctx context.Context, username string) (InsightsResponse, bool) {
	raw, err := c.client.Get(ctx, redisKeyPrefix+username).Result()
	if err != nil {
		return InsightsResponse{}, false
	}
	var response InsightsResponse
	if err := json.Unmarshal([]byte(raw), &response); err != nil {
		return InsightsResponse{}, false
	}
	return response, true
}

// Set caches a response for the TTL window. Encoding or network failures are
// dropped; the cache is best effort.
func (c *RedisCache) Set(ctx context.Context, username string, response InsightsResponse) {
	raw, err := json.Marshal(response)
	if err != nil {
		return
	}
	c.client.Set(ctx, redisKeyPrefix+username, raw, c.ttl)
}

// Close releases the Redis connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
