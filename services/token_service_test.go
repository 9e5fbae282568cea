package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/farmcare/farmcare/cache"
	"github.com/farmcare/farmcare/domain"
)

func newTestTokenService(denyRepo *MockDenylistRepository) *TokenService {
	return NewTokenService("test-secret", 240*time.Hour, 5*time.Hour, denyRepo, cache.NewMemoryDenyStore(time.Hour))
}

func TestTokenServiceIssueAndValidate(t *testing.T) {
	denyRepo := new(MockDenylistRepository)
	denyRepo.On("Contains", mock.Anything, mock.Anything).Return(false, nil)
	svc := newTestTokenService(denyRepo)

	token, claims, err := svc.Issue(&domain.User{ID: "user-1", IsAdmin: false})
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, "user-1", claims.UserID)
	assert.False(t, claims.IsAdmin)
	assert.WithinDuration(t, time.Now().Add(240*time.Hour), claims.ExpiresAt, time.Minute)

	parsed, err := svc.Validate(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", parsed.UserID)
	assert.Equal(t, claims.TokenID, parsed.TokenID)
}

func TestTokenServiceAdminTTL(t *testing.T) {
	svc := newTestTokenService(new(MockDenylistRepository))

	_, claims, err := svc.Issue(&domain.User{ID: "admin-1", IsAdmin: true})
	require.NoError(t, err)
	assert.True(t, claims.IsAdmin)
	assert.WithinDuration(t, time.Now().Add(5*time.Hour), claims.ExpiresAt, time.Minute)
}

func TestTokenServiceRejectsTamperedToken(t *testing.T) {
	denyRepo := new(MockDenylistRepository)
	svc := newTestTokenService(denyRepo)

	other := NewTokenService("other-secret", time.Hour, time.Hour, denyRepo, nil)
	token, _, err := other.Issue(&domain.User{ID: "user-1"})
	require.NoError(t, err)

	_, err = svc.Validate(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.Validate(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenServiceRevoke(t *testing.T) {
	denyRepo := new(MockDenylistRepository)
	denyRepo.On("Add", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	denyRepo.On("Contains", mock.Anything, mock.Anything).Return(false, nil)
	svc := newTestTokenService(denyRepo)

	token, _, err := svc.Issue(&domain.User{ID: "user-1"})
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(context.Background(), token))

	// The cache answers before the repository, so the mocked "false" from
	// the repo must not matter.
	_, err = svc.Validate(context.Background(), token)
	assert.ErrorIs(t, err, ErrTokenRevoked)
	denyRepo.AssertCalled(t, "Add", mock.Anything, token, mock.Anything)
}

func TestTokenServiceDenylistRepoFallback(t *testing.T) {
	denyRepo := new(MockDenylistRepository)
	denyRepo.On("Contains", mock.Anything, mock.Anything).Return(true, nil)
	svc := NewTokenService("test-secret", time.Hour, time.Hour, denyRepo, nil)

	token, _, err := svc.Issue(&domain.User{ID: "user-1"})
	require.NoError(t, err)

	_, err = svc.Validate(context.Background(), token)
	assert.ErrorIs(t, err, ErrTokenRevoked)
}
