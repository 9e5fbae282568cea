package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/farmcare/farmcare/cache"
)

// DenyStore implements the cache.DenyStore interface using Redis.
type DenyStore struct {
	client *redis.Client
	prefix string // Optional prefix for keys
}

// NewDenyStore creates a new [DenyStore] instance.
func NewDenyStore(client *redis.Client, prefix string) *DenyStore {
	return &DenyStore{
		client: client,
		prefix: prefix,
	}
}

// redisKey returns the Redis key for a given token.
func (r *DenyStore) redisKey(token string) string {
	return fmt.Sprintf("%s:denied:%s", r.prefix, cache.HashToken(token))
}

// Set stores a revoked token entry in Redis with an expiry matching the
// token's own expiry.
func (r *DenyStore) Set(ctx context.Context, token string, entry *cache.DenyEntry) error {
	ttl := time.Until(entry.ExpiresAt)
	if ttl <= 0 {
		return nil
	}

	key := r.redisKey(token)
	fields := map[string]interface{}{
		"user_id":    entry.UserID,
		"expires_at": entry.ExpiresAt.Unix(),
		"revoked_at": entry.RevokedAt.Unix(),
	}
	if _, err := r.client.HSet(ctx, key, fields).Result(); err != nil {
		return fmt.Errorf("failed to set denied token in Redis: %w", err)
	}
	if _, err := r.client.Expire(ctx, key, ttl).Result(); err != nil {
		return fmt.Errorf("failed to set expiry for denied token in Redis: %w", err)
	}
	return nil
}

// Contains reports whether the token is on the denylist.
func (r *DenyStore) Contains(ctx context.Context, token string) (bool, error) {
	n, err := r.client.Exists(ctx, r.redisKey(token)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check denied token in Redis: %w", err)
	}
	return n > 0, nil
}

// Delete removes a token from the denylist.
func (r *DenyStore) Delete(ctx context.Context, token string) error {
	if _, err := r.client.Del(ctx, r.redisKey(token)).Result(); err != nil {
		return fmt.Errorf("failed to delete denied token from Redis: %w", err)
	}
	return nil
}

// Clear removes all denied tokens from Redis.
func (r *DenyStore) Clear(ctx context.Context) error {
	pattern := fmt.Sprintf("%s:denied:*", r.prefix)
	var cursor uint64

	for {
		keys, next, err := r.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return fmt.Errorf("failed to scan denied tokens in Redis: %w", err)
		}
		if len(keys) > 0 {
			if _, err := r.client.Del(ctx, keys...).Result(); err != nil {
				return fmt.Errorf("failed to delete denied tokens from Redis: %w", err)
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

// Count returns the number of denied tokens in Redis.
func (r *DenyStore) Count(ctx context.Context) int {
	pattern := fmt.Sprintf("%s:denied:*", r.prefix)
	var count int
	var cursor uint64

	for {
		keys, next, err := r.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			break
		}
		count += len(keys)
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return count
}

// Close is a no-op; the Redis client is owned by the caller.
func (r *DenyStore) Close() error {
	return nil
}

var _ cache.DenyStore = (*DenyStore)(nil)
