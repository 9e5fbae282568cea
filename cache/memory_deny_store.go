package cache

import (
	"context"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// MemoryDenyStore implements DenyStore using ttlcache.
type MemoryDenyStore struct {
	cache *ttlcache.Cache[string, *DenyEntry]
}

// NewMemoryDenyStore creates a new in-memory deny store with automatic cleanup.
//
//nolint:ireturn
func NewMemoryDenyStore(defaultTTL time.Duration) DenyStore {
	cache := ttlcache.New(
		ttlcache.WithTTL[string, *DenyEntry](defaultTTL),
		ttlcache.WithDisableTouchOnHit[string, *DenyEntry](),
	)

	// Start the cleanup process
	go cache.Start()

	return &MemoryDenyStore{
		cache: cache,
	}
}

// Set implements DenyStore.Set.
func (s *MemoryDenyStore) Set(_ context.Context, token string, entry *DenyEntry) error {
	ttl := time.Until(entry.ExpiresAt)
	if ttl <= 0 {
		// Already past the token's own expiry, nothing to deny.
		return nil
	}
	s.cache.Set(HashToken(token), entry, ttl)
	return nil
}

// Contains implements DenyStore.Contains.
func (s *MemoryDenyStore) Contains(_ context.Context, token string) (bool, error) {
	return s.cache.Get(HashToken(token)) != nil, nil
}

// Delete removes a token from the cache.
func (s *MemoryDenyStore) Delete(_ context.Context, token string) error {
	s.cache.Delete(HashToken(token))

	return nil
}

// Clear removes all tokens from the cache.
func (s *MemoryDenyStore) Clear(_ context.Context) error {
	s.cache.DeleteAll()

	return nil
}

// Count counts the number of denied tokens in the cache.
func (s *MemoryDenyStore) Count(_ context.Context) int {
	return s.cache.Len()
}

// Close stops the cleanup goroutine.
func (s *MemoryDenyStore) Close() error {
	s.cache.Stop()

	return nil
}
