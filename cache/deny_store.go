package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// DenyEntry represents a revoked token held until its natural expiry.
type DenyEntry struct {
	TokenHash string    `redis:"tokenHash"` // sha256 of the raw token
	UserID    string    `redis:"userId"`    // User whose token was revoked
	ExpiresAt time.Time `redis:"expiresAt"` // When the token would have expired
	RevokedAt time.Time `redis:"revokedAt"` // When the revocation happened
}

// HashToken hashes a token string, this will makes the token much shorter.
// The shorter token can be found faster in the cache.
func HashToken(token string) string {
	hasher := sha256.New()
	hasher.Write([]byte(token))
	hashedBytes := hasher.Sum(nil)
	return hex.EncodeToString(hashedBytes)
}

// DenyStore caches revoked tokens in front of the persistent denylist so the
// auth middleware does not hit the database on every request.
type DenyStore interface {
	Set(ctx context.Context, token string, entry *DenyEntry) error
	// Contains reports whether the token is denied. A missing entry is not
	// an error.
	Contains(ctx context.Context, token string) (bool, error)
	Delete(ctx context.Context, token string) error
	Clear(ctx context.Context) error
	Count(ctx context.Context) int
	Close() error
}
