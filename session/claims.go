// Package session holds the client-side authentication state: the bearer
// token, its decoded claims, the cached user profile, and a self-expiring
// timer. Route guards consult it on every protected navigation.
package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DecodeResult is the outcome of decoding a token's claims. Callers must
// check Valid before using the other fields; a zero DecodeResult means the
// token was malformed.
type DecodeResult struct {
	Valid     bool
	ExpiresAt time.Time
	IsAdmin   bool
}

// DecodeClaims extracts the expiry and admin flag from a token without
// verifying its signature. Verification happens server-side; the client only
// needs the claims to schedule its own logout and gate admin routes.
//
// A token missing is_admin decodes as a non-admin token. A token missing exp,
// or one that cannot be parsed at all, is Invalid.
func DecodeClaims(token string) DecodeResult {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return DecodeResult{}
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return DecodeResult{}
	}

	isAdmin, _ := claims["is_admin"].(bool)

	return DecodeResult{
		Valid:     true,
		ExpiresAt: exp.Time,
		IsAdmin:   isAdmin,
	}
}
