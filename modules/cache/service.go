// Package cache provides a caching layer using the mono.Storage interface.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-monolith/mono/pkg/storage"
	goredis "github.com/redis/go-redis/v9"
)

// ErrPrefixScanUnavailable is returned by InvalidatePrefix when the service
// has no Redis client to enumerate keys with.
var ErrPrefixScanUnavailable = errors.New("prefix invalidation requires a redis client")

// CacheService defines the high-level caching operations used by consumers.
// Every key is stored under the service's namespace prefix.
type CacheService interface {
	// Get retrieves a value from the cache and unmarshals it into dest.
	// Returns true if the key was found (cache hit), false otherwise.
	Get(ctx context.Context, key string, dest any) (bool, error)

	// Set stores a value in the cache with the default TTL.
	// The value is JSON-marshaled before storage.
	Set(ctx context.Context, key string, value any) error

	// SetWithTTL stores a value in the cache with a custom TTL.
	SetWithTTL(ctx context.Context, key string, value any, ttl time.Duration) error

	// Delete removes a single key from the cache.
	Delete(ctx context.Context, key string) error

	// InvalidatePrefix removes every key in this namespace that starts with prefix.
	// An empty prefix clears the whole namespace and nothing outside it.
	InvalidatePrefix(ctx context.Context, prefix string) error
}

// cacheService implements CacheService using the Storage interface.
type cacheService struct {
	storage storage.Storage
	client  goredis.UniversalClient
	prefix  string
	ttl     time.Duration
}

// NewCacheService creates a new CacheService wrapping the provided storage.
// client may be nil, in which case InvalidatePrefix returns ErrPrefixScanUnavailable.
func NewCacheService(s storage.Storage, client goredis.UniversalClient, prefix string, ttl time.Duration) CacheService {
	return &cacheService{
		storage: s,
		client:  client,
		prefix:  prefix,
		ttl:     ttl,
	}
}

// Get retrieves a value from the cache.
func (c *cacheService) Get(ctx context.Context, key string, dest any) (bool, error) {
	fullKey := c.prefix + key

	data, err := c.storage.GetWithContext(ctx, fullKey)
	if err != nil {
		return false, fmt.Errorf("cache get error: %w", err)
	}

	// nil or empty means key not found (cache miss)
	if len(data) == 0 {
		return false, nil
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("cache unmarshal error: %w", err)
	}
	return true, nil
}

// Set stores a value with the default TTL.
func (c *cacheService) Set(ctx context.Context, key string, value any) error {
	return c.SetWithTTL(ctx, key, value, c.ttl)
}

// SetWithTTL stores a value with a custom TTL.
func (c *cacheService) SetWithTTL(ctx context.Context, key string, value any, ttl time.Duration) error {
	fullKey := c.prefix + key

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal error: %w", err)
	}

	if err := c.storage.SetWithContext(ctx, fullKey, data, ttl); err != nil {
		return fmt.Errorf("cache set error: %w", err)
	}
	return nil
}

// Delete removes a single key.
func (c *cacheService) Delete(ctx context.Context, key string) error {
	fullKey := c.prefix + key

	if err := c.storage.DeleteWithContext(ctx, fullKey); err != nil {
		return fmt.Errorf("cache delete error: %w", err)
	}
	return nil
}

// InvalidatePrefix scans for the namespaced keys and deletes them in one DEL.
func (c *cacheService) InvalidatePrefix(ctx context.Context, prefix string) error {
	if c.client == nil {
		return ErrPrefixScanUnavailable
	}

	pattern := c.prefix + prefix + "*"
	var keys []string
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("cache scan error: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("cache invalidate error: %w", err)
	}
	log.Printf("[cache] Invalidated %d keys matching %s", len(keys), pattern)
	return nil
}
