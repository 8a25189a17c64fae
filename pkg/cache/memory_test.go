package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_GetSet(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	type item struct{ Name string }

	var out item
	found, err := c.Get(ctx, "k", &out)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.Set(ctx, "k", item{Name: "ada"}, time.Minute))
	found, err = c.Get(ctx, "k", &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "ada", out.Name)
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()
	now := time.Now()
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "k", 1, time.Second))
	ttl, _ := c.TTL(ctx, "k")
	assert.Equal(t, time.Second, ttl)

	now = now.Add(2 * time.Second)
	ok, _ := c.Exists(ctx, "k")
	assert.False(t, ok)

	ttl, _ = c.TTL(ctx, "k")
	assert.Equal(t, time.Duration(-2), ttl)
}

func TestMemoryCache_Increment(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	n, err := c.Increment(ctx, "attempts")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.NoError(t, c.Expire(ctx, "attempts", time.Minute))
	n, _ = c.Increment(ctx, "attempts")
	assert.Equal(t, int64(2), n)

	ttl, _ := c.TTL(ctx, "attempts")
	assert.Greater(t, ttl, time.Duration(0))
}

func TestMemoryCache_DeletePattern(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "girl:slug:ada", 1, 0))
	require.NoError(t, c.Set(ctx, "girl:slug:eve", 1, 0))
	require.NoError(t, c.Set(ctx, "other", 1, 0))

	require.NoError(t, c.DeletePattern(ctx, "girl:slug:*"))

	ok, _ := c.Exists(ctx, "girl:slug:ada")
	assert.False(t, ok)
	ok, _ = c.Exists(ctx, "other")
	assert.True(t, ok)
}
