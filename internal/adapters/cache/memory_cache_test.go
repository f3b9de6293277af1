package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/montimage/email-domain-classifier/internal/core"
)

func newEntry(fingerprint string, ttl time.Duration) *core.CacheEntry {
	now := time.Now()
	return &core.CacheEntry{
		Fingerprint: fingerprint,
		Domain:      "finance",
		Confidence:  0.85,
		LastSeen:    now,
		ExpiresAt:   now.Add(ttl),
	}
}

func TestMemoryCacheSetGet(t *testing.T) {
	c := NewMemoryCache(zap.NewNop(), time.Hour)
	defer c.Stop()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, newEntry("fp1", time.Hour)))

	entry, err := c.Get(ctx, "fp1")
	require.NoError(t, err)
	assert.Equal(t, "finance", entry.Domain)
	assert.InDelta(t, 0.85, entry.Confidence, 1e-9)
}

func TestMemoryCacheMiss(t *testing.T) {
	c := NewMemoryCache(zap.NewNop(), time.Hour)
	defer c.Stop()

	_, err := c.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache(zap.NewNop(), time.Hour)
	defer c.Stop()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, newEntry("fp1", -time.Minute)))

	_, err := c.Get(ctx, "fp1")
	assert.ErrorIs(t, err, ErrExpired)
}

func TestMemoryCacheDelete(t *testing.T) {
	c := NewMemoryCache(zap.NewNop(), time.Hour)
	defer c.Stop()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, newEntry("fp1", time.Hour)))
	require.NoError(t, c.Delete(ctx, "fp1"))

	_, err := c.Get(ctx, "fp1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryCacheCleanup(t *testing.T) {
	c := NewMemoryCache(zap.NewNop(), time.Hour)
	defer c.Stop()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, newEntry("live", time.Hour)))
	require.NoError(t, c.Set(ctx, newEntry("dead", -time.Minute)))

	require.NoError(t, c.Cleanup(ctx))

	_, err := c.Get(ctx, "live")
	assert.NoError(t, err)
	_, err = c.Get(ctx, "dead")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryCacheGetReturnsCopy(t *testing.T) {
	c := NewMemoryCache(zap.NewNop(), time.Hour)
	defer c.Stop()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, newEntry("fp1", time.Hour)))

	entry, err := c.Get(ctx, "fp1")
	require.NoError(t, err)
	entry.Domain = "mutated"

	again, err := c.Get(ctx, "fp1")
	require.NoError(t, err)
	assert.Equal(t, "finance", again.Domain)
}
