package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/farmcare/farmcare/domain"
)

func TestAuthGuard(t *testing.T) {
	assert.Equal(t, RedirectLogin, AuthGuard(State{}))
	assert.Equal(t, Allow, AuthGuard(State{IsAuthenticated: true}))
	assert.Equal(t, Allow, AuthGuard(State{IsAuthenticated: true, IsAdmin: true}))
}

func TestAdminGuard(t *testing.T) {
	assert.Equal(t, RedirectLogin, AdminGuard(State{}))
	assert.Equal(t, RedirectLanding, AdminGuard(State{IsAuthenticated: true}))
	assert.Equal(t, Allow, AdminGuard(State{IsAuthenticated: true, IsAdmin: true}))
}

func TestDecisionTargets(t *testing.T) {
	assert.Equal(t, "", Allow.Target())
	assert.Equal(t, LoginPath, RedirectLogin.Target())
	assert.Equal(t, LandingPath, RedirectLanding.Target())
}

func TestAdminGuardAgainstLiveSession(t *testing.T) {
	m := NewManager(NewMemStore())

	// No session at all: back to login.
	assert.Equal(t, RedirectLogin, AdminGuard(m.State()))

	// Valid non-admin session: landing, not login.
	m.Login(signToken(t, time.Now().Add(time.Hour), false), &domain.User{FullName: "Asha"})
	assert.Equal(t, RedirectLanding, AdminGuard(m.State()))
	assert.Equal(t, Allow, AuthGuard(m.State()))

	// Admin session: through.
	m.Login(signToken(t, time.Now().Add(time.Hour), true), &domain.User{FullName: "Root"})
	assert.Equal(t, Allow, AdminGuard(m.State()))
}
