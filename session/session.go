package session

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/farmcare/farmcare/domain"
)

// State is a point-in-time snapshot of the session, as consumed by the
// route guards.
type State struct {
	IsAuthenticated bool
	IsAdmin         bool
	User            *domain.User
	Token           string
}

// Manager is the single authoritative holder of client-side auth state. It
// is the only writer of its Store; everything else reads through State() or
// goes through Login/Logout/UpdateProfile.
type Manager struct {
	mu    sync.Mutex
	store Store
	now   func() time.Time

	token       string
	claimsValid bool
	expiresAt   time.Time
	isAdmin     bool
	user        *domain.User

	timer *time.Timer
	gen   uint64 // increments on every login/logout, invalidates stale timers
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock overrides the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager creates a Manager and rehydrates it from the store: a persisted
// unexpired token restores the authenticated state, anything else (absent,
// malformed, or expired) leaves the manager logged out and clears the store.
func NewManager(store Store, opts ...Option) *Manager {
	m := &Manager{
		store: store,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.restore()
	return m
}

func (m *Manager) restore() {
	m.mu.Lock()
	defer m.mu.Unlock()

	token, ok := m.store.LoadToken()
	if !ok {
		return
	}

	res := DecodeClaims(token)
	if !res.Valid {
		// A corrupt token must not linger in storage.
		log.Debug().Msg("Discarding undecodable persisted token")
		m.clearStoreLocked()
		return
	}
	if !res.ExpiresAt.After(m.now()) {
		log.Debug().Time("expires_at", res.ExpiresAt).Msg("Discarding expired persisted token")
		m.clearStoreLocked()
		return
	}

	m.token = token
	m.claimsValid = true
	m.expiresAt = res.ExpiresAt
	m.isAdmin = res.IsAdmin

	// A corrupt profile record is tolerated: the session stays
	// authenticated, just without a cached profile.
	if data, ok := m.store.LoadUser(); ok {
		var user domain.User
		if err := json.Unmarshal(data, &user); err != nil {
			log.Debug().Err(err).Msg("Ignoring unparseable persisted user profile")
		} else {
			m.user = &user
		}
	}

	m.scheduleLocked()
}

// Login installs a fresh token and user profile, persisting both. The token
// is not verified here; its presence is authoritative for authentication,
// claims only contribute expiry and the admin flag. Any pending expiry timer
// from an earlier session is cancelled before the new one is scheduled.
func (m *Manager) Login(token string, user *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.token = token
	m.user = user
	m.claimsValid = false
	m.expiresAt = time.Time{}
	m.isAdmin = false

	if res := DecodeClaims(token); res.Valid {
		m.claimsValid = true
		m.expiresAt = res.ExpiresAt
		m.isAdmin = res.IsAdmin
	}

	userJSON, err := json.Marshal(user)
	if err != nil {
		userJSON = nil
	}
	if err := m.store.Save(token, userJSON); err != nil {
		log.Warn().Err(err).Msg("Failed to persist session")
	}

	m.scheduleLocked()
}

// Logout clears the in-memory state and persisted storage unconditionally.
// It is idempotent and never fails: a store error is logged, not returned.
func (m *Manager) Logout() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logoutLocked()
}

func (m *Manager) logoutLocked() {
	m.gen++
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	m.token = ""
	m.claimsValid = false
	m.expiresAt = time.Time{}
	m.isAdmin = false
	m.user = nil
	m.clearStoreLocked()
}

func (m *Manager) clearStoreLocked() {
	if err := m.store.Clear(); err != nil {
		log.Warn().Err(err).Msg("Failed to clear persisted session")
	}
}

// UpdateProfile shallow-merges fields into the cached user record and
// re-persists it. The token and its expiry are untouched.
func (m *Manager) UpdateProfile(fields map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.token == "" {
		return
	}

	merged := map[string]any{}
	if m.user != nil {
		if data, err := json.Marshal(m.user); err == nil {
			_ = json.Unmarshal(data, &merged)
		}
	}
	for k, v := range fields {
		merged[k] = v
	}

	data, err := json.Marshal(merged)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to encode merged user profile")
		return
	}
	var user domain.User
	if err := json.Unmarshal(data, &user); err != nil {
		log.Warn().Err(err).Msg("Failed to decode merged user profile")
		return
	}
	m.user = &user

	if err := m.store.Save(m.token, data); err != nil {
		log.Warn().Err(err).Msg("Failed to persist updated user profile")
	}
}

// State returns a snapshot of the session. Authentication requires the
// token's expiry to be strictly in the future; a token whose claims never
// decoded has no expiry to check, so its presence alone suffices. IsAdmin
// is never true for an unauthenticated session.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.token == "" {
		return State{}
	}
	if m.claimsValid && !m.expiresAt.After(m.now()) {
		return State{}
	}
	return State{
		IsAuthenticated: true,
		IsAdmin:         m.claimsValid && m.isAdmin,
		User:            m.user,
		Token:           m.token,
	}
}

// scheduleLocked replaces any pending expiry timer with one firing at the
// current token's expiry. The generation counter stops a timer that already
// fired from logging out a session established after it was scheduled.
func (m *Manager) scheduleLocked() {
	m.gen++
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	if !m.claimsValid {
		return
	}

	d := m.expiresAt.Sub(m.now())
	if d <= 0 {
		return
	}

	gen := m.gen
	m.timer = time.AfterFunc(d, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.gen != gen {
			return
		}
		log.Debug().Msg("Session expired, logging out")
		m.logoutLocked()
	})
}
