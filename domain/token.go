package domain

import "time"

// TokenClaims is the payload the server signs into an access token.
// Clients only ever read exp and is_admin back out of it.
type TokenClaims struct {
	UserID    string
	IsAdmin   bool
	TokenID   string
	ExpiresAt time.Time
}

// Expired reports whether the claims are past their expiry at the given time.
func (c TokenClaims) Expired(now time.Time) bool {
	return !c.ExpiresAt.After(now)
}
