package rbac

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/rolekit/pkg/role"
)

// RedisCacheConfig configures the Redis-backed role cache.
type RedisCacheConfig struct {
	ConnectionURL  string        `env:"REDIS_URL,required"`                                 // ConnectionURL is the URL of the Redis server, e.g. "redis://:password@localhost:6379/0".
	KeyPrefix      string        `env:"REDIS_ROLE_CACHE_PREFIX" envDefault:"rolekit:role:"` // KeyPrefix namespaces all role cache keys.
	TTL            time.Duration `env:"REDIS_ROLE_CACHE_TTL" envDefault:"0"`                // TTL for cached roles; 0 means no expiry (invalidation handles freshness).
	RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`                // RetryAttempts is the number of retry attempts to connect to the server.
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"5s"`               // RetryInterval is the interval between retry attempts.
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s"`             // ConnectTimeout bounds the overall connection phase.
}

// Redis cache errors.
var (
	ErrFailedToParseRedisConnString = errors.New("rbac.redis_invalid_conn_string")
	ErrRedisNotReady                = errors.New("rbac.redis_not_ready")
)

// RedisCache is a Cache backed by Redis. Unlike MemoryCache it is shared
// across processes, so lifecycle invalidations performed by one process are
// observed by all of them.
type RedisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisCache creates a role cache over an existing Redis client.
// An empty prefix defaults to "rolekit:role:".
func NewRedisCache(client *redis.Client, prefix string, ttl time.Duration) *RedisCache {
	if prefix == "" {
		prefix = "rolekit:role:"
	}
	return &RedisCache{client: client, prefix: prefix, ttl: ttl}
}

// ConnectRedisCache connects to Redis with retries and returns a ready
// cache. Returns ErrFailedToParseRedisConnString for a malformed URL and
// ErrRedisNotReady when all attempts fail.
func ConnectRedisCache(ctx context.Context, cfg RedisCacheConfig) (*RedisCache, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	opt, err := redis.ParseURL(cfg.ConnectionURL)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseRedisConnString, err)
	}

	for range cfg.RetryAttempts {
		client := redis.NewClient(opt)
		if err := client.Ping(ctx).Err(); err == nil {
			return NewRedisCache(client, cfg.KeyPrefix, cfg.TTL), nil
		}

		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrRedisNotReady, ctx.Err())
		case <-time.After(cfg.RetryInterval):
		}
	}

	return nil, ErrRedisNotReady
}

// Get retrieves a cached role by key.
func (c *RedisCache) Get(ctx context.Context, key string) (role.Role, bool) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		return role.Role{}, false
	}

	var r role.Role
	if err := json.Unmarshal(data, &r); err != nil {
		return role.Role{}, false
	}
	return r, true
}

// Set stores a resolved role under key. Encoding or transport failures are
// swallowed: a cache miss is always safe.
func (c *RedisCache) Set(ctx context.Context, key string, r role.Role) {
	data, err := json.Marshal(r)
	if err != nil {
		return
	}
	c.client.Set(ctx, c.prefix+key, data, c.ttl)
}

// Remove drops every cache entry for the given role id.
func (c *RedisCache) Remove(ctx context.Context, roleID string) {
	c.deleteByPattern(ctx, c.prefix+roleID+":*")
}

// Clear drops all role cache entries under the prefix.
func (c *RedisCache) Clear(ctx context.Context) {
	c.deleteByPattern(ctx, c.prefix+"*")
}

func (c *RedisCache) deleteByPattern(ctx context.Context, pattern string) {
	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		c.client.Del(ctx, iter.Val())
	}
}
