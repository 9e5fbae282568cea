package session

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmcare/farmcare/domain"
)

func signToken(t *testing.T, exp time.Time, isAdmin bool) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  "user-1",
		"is_admin": isAdmin,
		"exp":      exp.Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func TestLoginPopulatesState(t *testing.T) {
	m := NewManager(NewMemStore())
	token := signToken(t, time.Now().Add(time.Hour), true)

	m.Login(token, &domain.User{FullName: "Asha", Email: "a@x.com"})

	st := m.State()
	assert.True(t, st.IsAuthenticated)
	assert.True(t, st.IsAdmin)
	require.NotNil(t, st.User)
	assert.Equal(t, "Asha", st.User.FullName)
	assert.Equal(t, "a@x.com", st.User.Email)
	assert.Equal(t, token, st.Token)
}

func TestLoginWithExpiredTokenDeniesAccess(t *testing.T) {
	m := NewManager(NewMemStore())
	token := signToken(t, time.Now().Add(-time.Minute), false)

	m.Login(token, &domain.User{FullName: "Asha"})

	assert.False(t, m.State().IsAuthenticated)
}

func TestLoginWithUndecodableTokenStillAuthenticates(t *testing.T) {
	m := NewManager(NewMemStore())

	m.Login("not-a-jwt", &domain.User{FullName: "Asha"})

	st := m.State()
	assert.True(t, st.IsAuthenticated)
	assert.False(t, st.IsAdmin)
}

func TestLogoutClearsStateAndStorage(t *testing.T) {
	store := NewMemStore()
	m := NewManager(store)
	m.Login(signToken(t, time.Now().Add(time.Hour), false), &domain.User{FullName: "Asha"})

	m.Logout()

	assert.False(t, m.State().IsAuthenticated)
	_, ok := store.LoadToken()
	assert.False(t, ok)
	_, ok = store.LoadUser()
	assert.False(t, ok)
}

func TestLogoutIsIdempotent(t *testing.T) {
	m := NewManager(NewMemStore())
	m.Login(signToken(t, time.Now().Add(time.Hour), false), &domain.User{FullName: "Asha"})

	m.Logout()
	assert.NotPanics(t, m.Logout)
	assert.False(t, m.State().IsAuthenticated)
}

func TestReloginCancelsPriorExpiryTimer(t *testing.T) {
	m := NewManager(NewMemStore())

	m.Login(signToken(t, time.Now().Add(150*time.Millisecond), false), &domain.User{FullName: "First"})
	m.Login(signToken(t, time.Now().Add(time.Hour), false), &domain.User{FullName: "Second"})

	// Well past the first token's expiry the second session must survive.
	time.Sleep(400 * time.Millisecond)

	st := m.State()
	assert.True(t, st.IsAuthenticated)
	require.NotNil(t, st.User)
	assert.Equal(t, "Second", st.User.FullName)
}

func TestExpiryTimerLogsOut(t *testing.T) {
	store := NewMemStore()
	m := NewManager(store)
	m.Login(signToken(t, time.Now().Add(100*time.Millisecond), false), &domain.User{FullName: "Asha"})

	require.Eventually(t, func() bool {
		return !m.State().IsAuthenticated
	}, time.Second, 20*time.Millisecond)

	_, ok := store.LoadToken()
	assert.False(t, ok)
}

func TestUpdateProfilePreservesOtherFields(t *testing.T) {
	m := NewManager(NewMemStore())
	token := signToken(t, time.Now().Add(time.Hour), false)
	m.Login(token, &domain.User{FullName: "Asha", Email: "a@x.com", Mobile: "9876543210"})

	m.UpdateProfile(map[string]any{"full_name": "Asha K"})

	st := m.State()
	assert.True(t, st.IsAuthenticated)
	assert.Equal(t, token, st.Token)
	require.NotNil(t, st.User)
	assert.Equal(t, "Asha K", st.User.FullName)
	assert.Equal(t, "a@x.com", st.User.Email)
	assert.Equal(t, "9876543210", st.User.Mobile)
}

func TestRestoreFromPersistedSession(t *testing.T) {
	store := NewMemStore()
	token := signToken(t, time.Now().Add(time.Hour), true)
	userJSON, err := json.Marshal(&domain.User{FullName: "Asha", Email: "a@x.com"})
	require.NoError(t, err)
	require.NoError(t, store.Save(token, userJSON))

	m := NewManager(store)

	st := m.State()
	assert.True(t, st.IsAuthenticated)
	assert.True(t, st.IsAdmin)
	require.NotNil(t, st.User)
	assert.Equal(t, "Asha", st.User.FullName)
}

func TestRestoreExpiredTokenClearsStorage(t *testing.T) {
	store := NewMemStore()
	token := signToken(t, time.Now().Add(-100*time.Second), false)
	require.NoError(t, store.Save(token, []byte(`{"full_name":"Asha"}`)))

	m := NewManager(store)

	assert.False(t, m.State().IsAuthenticated)
	_, ok := store.LoadToken()
	assert.False(t, ok)
}

func TestRestoreMalformedTokenClearsStorage(t *testing.T) {
	store := NewMemStore()
	require.NoError(t, store.Save("garbage.token.value", []byte(`{"full_name":"Asha"}`)))

	var m *Manager
	assert.NotPanics(t, func() {
		m = NewManager(store)
	})

	assert.False(t, m.State().IsAuthenticated)
	_, ok := store.LoadToken()
	assert.False(t, ok)
}

func TestRestoreCorruptUserProfileKeepsSession(t *testing.T) {
	store := NewMemStore()
	token := signToken(t, time.Now().Add(time.Hour), false)
	require.NoError(t, store.Save(token, []byte(`{not json`)))

	m := NewManager(store)

	st := m.State()
	assert.True(t, st.IsAuthenticated)
	assert.Nil(t, st.User)
}

func TestStateExpiresWithClock(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }

	m := NewManager(NewMemStore(), WithClock(clock))
	m.Login(signToken(t, now.Add(time.Hour), false), &domain.User{FullName: "Asha"})
	assert.True(t, m.State().IsAuthenticated)

	now = now.Add(2 * time.Hour)
	assert.False(t, m.State().IsAuthenticated)
}
