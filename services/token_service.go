package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/farmcare/farmcare/cache"
	"github.com/farmcare/farmcare/domain"
	"github.com/farmcare/farmcare/internal/metrics"
)

var (
	// ErrInvalidToken is returned for tokens that fail signature or claim
	// validation.
	ErrInvalidToken = errors.New("invalid or expired token")

	// ErrTokenRevoked is returned for tokens found on the denylist.
	ErrTokenRevoked = errors.New("token has been revoked")
)

// TokenService issues, validates and revokes access tokens. Tokens are
// HS256-signed JWTs; revocation is a denylist checked on every validation,
// fronted by an in-process cache.
type TokenService struct {
	secret    []byte
	userTTL   time.Duration
	adminTTL  time.Duration
	denyRepo  domain.DenylistRepository
	denyCache cache.DenyStore
}

// NewTokenService creates a TokenService.
func NewTokenService(
	secret string,
	userTTL, adminTTL time.Duration,
	denyRepo domain.DenylistRepository,
	denyCache cache.DenyStore,
) *TokenService {
	return &TokenService{
		secret:    []byte(secret),
		userTTL:   userTTL,
		adminTTL:  adminTTL,
		denyRepo:  denyRepo,
		denyCache: denyCache,
	}
}

// Issue signs a new access token for the user. Admin tokens get a shorter
// lifetime than regular user tokens.
func (s *TokenService) Issue(user *domain.User) (string, *domain.TokenClaims, error) {
	ttl := s.userTTL
	if user.IsAdmin {
		ttl = s.adminTTL
	}

	claims := &domain.TokenClaims{
		UserID:    user.ID,
		IsAdmin:   user.IsAdmin,
		TokenID:   uuid.NewString(),
		ExpiresAt: time.Now().Add(ttl),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  claims.UserID,
		"is_admin": claims.IsAdmin,
		"jti":      claims.TokenID,
		"exp":      claims.ExpiresAt.Unix(),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}

	metrics.TokensIssuedTotal.Inc()
	return signed, claims, nil
}

// Validate verifies the token's signature and expiry, then checks the
// denylist. It returns the decoded claims on success.
func (s *TokenService) Validate(ctx context.Context, tokenString string) (*domain.TokenClaims, error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		return nil, err
	}

	revoked, err := s.isRevoked(ctx, tokenString)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrTokenRevoked
	}
	return claims, nil
}

// Revoke puts the token on the denylist until it would have expired anyway.
func (s *TokenService) Revoke(ctx context.Context, tokenString string) error {
	claims, err := s.parse(tokenString)
	if err != nil {
		return err
	}

	if err := s.denyRepo.Add(ctx, tokenString, claims.ExpiresAt); err != nil {
		return fmt.Errorf("failed to record revoked token: %w", err)
	}

	if s.denyCache != nil {
		entry := &cache.DenyEntry{
			TokenHash: cache.HashToken(tokenString),
			UserID:    claims.UserID,
			ExpiresAt: claims.ExpiresAt,
			RevokedAt: time.Now(),
		}
		if err := s.denyCache.Set(ctx, tokenString, entry); err != nil {
			log.Warn().Err(err).Msg("Failed to cache revoked token")
		}
	}

	metrics.TokensRevokedTotal.Inc()
	return nil
}

func (s *TokenService) parse(tokenString string) (*domain.TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	exp, err := mapClaims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, ErrInvalidToken
	}
	userID, _ := mapClaims["user_id"].(string)
	if userID == "" {
		return nil, ErrInvalidToken
	}
	isAdmin, _ := mapClaims["is_admin"].(bool)
	tokenID, _ := mapClaims["jti"].(string)

	return &domain.TokenClaims{
		UserID:    userID,
		IsAdmin:   isAdmin,
		TokenID:   tokenID,
		ExpiresAt: exp.Time,
	}, nil
}

func (s *TokenService) isRevoked(ctx context.Context, tokenString string) (bool, error) {
	if s.denyCache != nil {
		revoked, err := s.denyCache.Contains(ctx, tokenString)
		if err == nil && revoked {
			return true, nil
		}
		if err != nil {
			log.Warn().Err(err).Msg("Denylist cache lookup failed, falling back to repository")
		}
	}
	revoked, err := s.denyRepo.Contains(ctx, tokenString)
	if err != nil {
		return false, fmt.Errorf("failed to check token denylist: %w", err)
	}
	return revoked, nil
}
