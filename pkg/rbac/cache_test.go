package rbac_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/rolekit/pkg/rbac"
	"github.com/dmitrymomot/rolekit/pkg/role"
)

func TestMemoryCache_SetGet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cache := rbac.NewMemoryCache(10)

	r := role.Role{ID: "r1", Name: "Cashier", Level: 30}
	cache.Set(ctx, "r1:t1", r)

	got, ok := cache.Get(ctx, "r1:t1")
	require.True(t, ok)
	assert.Equal(t, r, got)

	_, ok = cache.Get(ctx, "r1:t2")
	assert.False(t, ok)
}

func TestMemoryCache_Overwrite(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cache := rbac.NewMemoryCache(10)

	cache.Set(ctx, "r1:t1", role.Role{ID: "r1", Level: 30})
	cache.Set(ctx, "r1:t1", role.Role{ID: "r1", Level: 55})

	got, ok := cache.Get(ctx, "r1:t1")
	require.True(t, ok)
	assert.Equal(t, 55, got.Level)
	assert.Equal(t, 1, cache.Len())
}

func TestMemoryCache_EvictsLeastRecentlyUsed(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cache := rbac.NewMemoryCache(2)

	cache.Set(ctx, "a:t1", role.Role{ID: "a"})
	cache.Set(ctx, "b:t1", role.Role{ID: "b"})

	// Touch a so b becomes the eviction candidate.
	_, ok := cache.Get(ctx, "a:t1")
	require.True(t, ok)

	cache.Set(ctx, "c:t1", role.Role{ID: "c"})
	assert.Equal(t, 2, cache.Len())

	_, ok = cache.Get(ctx, "b:t1")
	assert.False(t, ok)
	_, ok = cache.Get(ctx, "a:t1")
	assert.True(t, ok)
	_, ok = cache.Get(ctx, "c:t1")
	assert.True(t, ok)
}

func TestMemoryCache_RemoveDropsAllScopes(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cache := rbac.NewMemoryCache(10)

	// The same role id can be cached under multiple scopes.
	cache.Set(ctx, "owner:system", role.Role{ID: "owner"})
	cache.Set(ctx, "owner:t1", role.Role{ID: "owner"})
	cache.Set(ctx, "other:t1", role.Role{ID: "other"})

	cache.Remove(ctx, "owner")

	_, ok := cache.Get(ctx, "owner:system")
	assert.False(t, ok)
	_, ok = cache.Get(ctx, "owner:t1")
	assert.False(t, ok)
	_, ok = cache.Get(ctx, "other:t1")
	assert.True(t, ok)
}

func TestMemoryCache_RemoveIsPrefixExact(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cache := rbac.NewMemoryCache(10)

	// "owner" must not sweep "ownership" entries.
	cache.Set(ctx, "owner:t1", role.Role{ID: "owner"})
	cache.Set(ctx, "ownership:t1", role.Role{ID: "ownership"})

	cache.Remove(ctx, "owner")

	_, ok := cache.Get(ctx, "ownership:t1")
	assert.True(t, ok)
}

func TestMemoryCache_Clear(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cache := rbac.NewMemoryCache(10)

	cache.Set(ctx, "a:t1", role.Role{ID: "a"})
	cache.Set(ctx, "b:t1", role.Role{ID: "b"})
	cache.Clear(ctx)

	assert.Zero(t, cache.Len())
	_, ok := cache.Get(ctx, "a:t1")
	assert.False(t, ok)
}

func TestMemoryCache_DefaultCapacity(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cache := rbac.NewMemoryCache(0)

	// Non-positive capacity falls back to the default rather than caching
	// nothing.
	cache.Set(ctx, "a:t1", role.Role{ID: "a"})
	_, ok := cache.Get(ctx, "a:t1")
	assert.True(t, ok)
}

func TestNoopCache(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cache := rbac.NoopCache{}

	cache.Set(ctx, "a:t1", role.Role{ID: "a"})
	_, ok := cache.Get(ctx, "a:t1")
	assert.False(t, ok)

	// No-ops must still be safe to call.
	cache.Remove(ctx, "a")
	cache.Clear(ctx)
}
