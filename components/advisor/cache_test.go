package advisor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheRoundTrip(t *testing.T) {
	t.Parallel()

	cache := NewMemoryCache(time.Minute)
	response := InsightsResponse{Username: "testuser", Insights: "narrative"}

	_, ok := cache.Get(context.Background(), "testuser")
	assert.False(t, ok)

	cache.Set(context.Background(), "testuser", response)
	cached, ok := cache.Get(context.Background(), "testuser")
	require.True(t, ok)
	assert.Equal(t, response, cached)

	_, ok = cache.Get(context.Background(), "otheruser")
	assert.False(t, ok)
}

func TestMemoryCacheExpires(t *testing.T) {
	t.Parallel()

	cache := NewMemoryCache(5 * time.Minute)
	base := time.Date(2026, 8, 26, 10, 0, 0, 0, time.UTC)
	now := base
	cache.now = func() time.Time { return now }

	cache.Set(context.Background(), "testuser", InsightsResponse{Username: "testuser"})

	now = base.Add(4 * time.Minute)
	_, ok := cache.Get(context.Background(), "testuser")
	assert.True(t, ok)

	now = base.Add(6 * time.Minute)
	_, ok = cache.Get(context.Background(), "testuser")
	assert.False(t, ok)
}

func TestNewMemoryCacheDefaultsTTL(t *testing.T) {
	t.Parallel()

	cache := NewMemoryCache(0)
	assert.Equal(t, 5*time.Minute, cache.ttl)
}
