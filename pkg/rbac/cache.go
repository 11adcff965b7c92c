package rbac

import (
	"container/list"
	"context"
	"strings"
	"sync"

	"github.com/dmitrymomot/rolekit/pkg/role"
)

// Cache stores resolved roles keyed by (roleID, scope). It is a
// correctness-neutral performance layer with a fixed invalidation contract:
// Clear on role creation, Remove(roleID) on update and delete. After any
// lifecycle write the next read must reflect the write.
type Cache interface {
	// Get retrieves a cached role by key.
	Get(ctx context.Context, key string) (role.Role, bool)

	// Set stores a resolved role under key.
	Set(ctx context.Context, key string, r role.Role)

	// Remove drops every cache entry for the given role id, regardless of
	// scope.
	Remove(ctx context.Context, roleID string)

	// Clear drops all entries.
	Clear(ctx context.Context)
}

// systemScope is the cache scope for lookups without a tenant context.
const systemScope = "system"

// cacheKey builds the canonical cache key for a role lookup.
func cacheKey(roleID, tenantID string) string {
	if tenantID == "" {
		tenantID = systemScope
	}
	return roleID + ":" + tenantID
}

// DefaultCacheSize is the default capacity of the in-memory role cache.
const DefaultCacheSize = 1000

type memoryCacheEntry struct {
	key  string
	role role.Role
}

// MemoryCache is a bounded, thread-safe LRU role cache. The reference
// behavior used an unbounded map; bounding is an allowed strengthening
// since eviction only costs a re-resolution.
type MemoryCache struct {
	mu       sync.Mutex
	capacity int
	items    map[string]*list.Element
	eviction *list.List
}

// NewMemoryCache creates an LRU role cache with the given capacity.
// Non-positive capacities fall back to DefaultCacheSize.
func NewMemoryCache(capacity int) *MemoryCache {
	if capacity <= 0 {
		capacity = DefaultCacheSize
	}
	return &MemoryCache{
		capacity: capacity,
		items:    make(map[string]*list.Element),
		eviction: list.New(),
	}
}

// Get retrieves a cached role and marks it recently used.
func (c *MemoryCache) Get(ctx context.Context, key string) (role.Role, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		return role.Role{}, false
	}
	c.eviction.MoveToFront(elem)
	return elem.Value.(*memoryCacheEntry).role, true
}

// Set stores a resolved role, evicting the least recently used entry when
// the cache is at capacity.
func (c *MemoryCache) Set(ctx context.Context, key string, r role.Role) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.eviction.MoveToFront(elem)
		elem.Value.(*memoryCacheEntry).role = r
		return
	}

	c.items[key] = c.eviction.PushFront(&memoryCacheEntry{key: key, role: r})

	if c.eviction.Len() > c.capacity {
		oldest := c.eviction.Back()
		if oldest != nil {
			c.eviction.Remove(oldest)
			delete(c.items, oldest.Value.(*memoryCacheEntry).key)
		}
	}
}

// Remove drops every entry whose key belongs to the given role id.
func (c *MemoryCache) Remove(ctx context.Context, roleID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	prefix := roleID + ":"
	for key, elem := range c.items {
		if strings.HasPrefix(key, prefix) {
			c.eviction.Remove(elem)
			delete(c.items, key)
		}
	}
}

// Clear drops all entries.
func (c *MemoryCache) Clear(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*list.Element)
	c.eviction.Init()
}

// Len reports the number of cached entries.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.eviction.Len()
}

// NoopCache disables caching. Useful for tests that exercise store paths.
type NoopCache struct{}

func (NoopCache) Get(ctx context.Context, key string) (role.Role, bool) { return role.Role{}, false }
func (NoopCache) Set(ctx context.Context, key string, r role.Role)      {}
func (NoopCache) Remove(ctx context.Context, roleID string)             {}
func (NoopCache) Clear(ctx context.Context)                             {}
