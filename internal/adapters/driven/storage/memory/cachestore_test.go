package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillframe/contexta/internal/core/domain"
)

func TestCacheStore_SetGet(t *testing.T) {
	store := NewCacheStore()
	ctx := context.Background()

	err := store.Set(ctx, "k1", []byte("value"), time.Minute, []string{"content", "user:u1"})
	require.NoError(t, err)

	got, err := store.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), got)
}

func TestCacheStore_Get_Missing(t *testing.T) {
	store := NewCacheStore()

	_, err := store.Get(context.Background(), "absent")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCacheStore_TTLExpiry(t *testing.T) {
	store := NewCacheStore()
	ctx := context.Background()

	now := time.Now()
	store.SetClock(func() time.Time { return now })

	require.NoError(t, store.Set(ctx, "k1", []byte("v"), 30*time.Minute, []string{"content"}))

	// Still live just before expiry
	now = now.Add(29 * time.Minute)
	_, err := store.Get(ctx, "k1")
	require.NoError(t, err)

	// Expired afterwards
	now = now.Add(2 * time.Minute)
	_, err = store.Get(ctx, "k1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Zero(t, store.Len())
}

func TestCacheStore_InvalidateByTags(t *testing.T) {
	store := NewCacheStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k1", []byte("a"), time.Minute, []string{"content", "user:u1"}))
	require.NoError(t, store.Set(ctx, "k2", []byte("b"), time.Minute, []string{"content", "user:u2"}))
	require.NoError(t, store.Set(ctx, "k3", []byte("c"), time.Minute, []string{"content", "user:u1"}))

	removed, err := store.InvalidateByTags(ctx, []string{"user:u1"})
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	_, err = store.Get(ctx, "k1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = store.Get(ctx, "k2")
	assert.NoError(t, err)
}

func TestCacheStore_InvalidateByTags_ContentTag(t *testing.T) {
	store := NewCacheStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k1", []byte("a"), time.Minute, []string{"content", "user:u1"}))
	require.NoError(t, store.Set(ctx, "k2", []byte("b"), time.Minute, []string{"content", "user:u2"}))

	removed, err := store.InvalidateByTags(ctx, []string{"content"})
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	assert.Zero(t, store.Len())
}

func TestCacheStore_ValueIsolation(t *testing.T) {
	store := NewCacheStore()
	ctx := context.Background()

	original := []byte("value")
	require.NoError(t, store.Set(ctx, "k1", original, time.Minute, []string{"content"}))

	// Mutating the caller's slice must not affect the stored value
	original[0] = 'X'

	got, err := store.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), got)
}

func TestCacheStore_ConcurrentAccess(t *testing.T) {
	store := NewCacheStore()
	ctx := context.Background()

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func(n int) {
			defer func() { done <- struct{}{} }()
			key := string(rune('a' + n))
			for j := 0; j < 100; j++ {
				_ = store.Set(ctx, key, []byte("v"), time.Minute, []string{"content"})
				_, _ = store.Get(ctx, key)
				_, _ = store.InvalidateByTags(ctx, []string{"user:none"})
			}
		}(i)
	}
	for i := 0; i < 8; i++ {
		<-done
	}
}
