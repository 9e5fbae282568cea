package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmcare/farmcare/api"
	"github.com/farmcare/farmcare/domain"
	"github.com/farmcare/farmcare/session"
)

func testToken(t *testing.T, exp time.Time, isAdmin bool) string {
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

func TestLoginFeedsSession(t *testing.T) {
	token := testToken(t, time.Now().Add(time.Hour), false)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/login", r.URL.Path)

		var req api.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "asha@example.com", req.LoginID)

		_ = json.NewEncoder(w).Encode(api.AuthResponse{
			Token: token,
			User:  &domain.User{ID: "user-1", FullName: "Asha Kumar"},
		})
	}))
	defer server.Close()

	manager := session.NewManager(session.NewMemStore())
	c := New(server.URL, manager)

	user, err := c.Login(context.Background(), "asha@example.com", "Secret1!")
	require.NoError(t, err)
	assert.Equal(t, "Asha Kumar", user.FullName)

	st := manager.State()
	assert.True(t, st.IsAuthenticated)
	assert.False(t, st.IsAdmin)
	assert.Equal(t, token, st.Token)
}

func TestLoginFailureLeavesSessionLoggedOut(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(api.ErrorResponse{Error: "invalid login ID or password"})
	}))
	defer server.Close()

	manager := session.NewManager(session.NewMemStore())
	c := New(server.URL, manager)

	_, err := c.Login(context.Background(), "asha@example.com", "wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid login ID or password")
	assert.False(t, manager.State().IsAuthenticated)
}

func TestLogoutClearsSessionEvenWhenServerFails(t *testing.T) {
	token := testToken(t, time.Now().Add(time.Hour), false)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	store := session.NewMemStore()
	manager := session.NewManager(store)
	manager.Login(token, &domain.User{ID: "user-1"})
	c := New(server.URL, manager)

	c.Logout(context.Background())

	assert.False(t, manager.State().IsAuthenticated)
	_, ok := store.LoadToken()
	assert.False(t, ok)
}

func TestRequestsCarryBearerToken(t *testing.T) {
	token := testToken(t, time.Now().Add(time.Hour), false)
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(api.AuthResponse{User: &domain.User{ID: "user-1"}})
	}))
	defer server.Close()

	manager := session.NewManager(session.NewMemStore())
	manager.Login(token, &domain.User{ID: "user-1"})
	c := New(server.URL, manager)

	_, err := c.GetProfile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer "+token, gotAuth)
}

func TestUpdateProfileMergesIntoSession(t *testing.T) {
	token := testToken(t, time.Now().Add(time.Hour), false)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		_ = json.NewEncoder(w).Encode(api.AuthResponse{
			User: &domain.User{ID: "user-1", FullName: "Asha Nair", Email: "a@x.com"},
		})
	}))
	defer server.Close()

	manager := session.NewManager(session.NewMemStore())
	manager.Login(token, &domain.User{ID: "user-1", FullName: "Asha Kumar", Email: "a@x.com"})
	c := New(server.URL, manager)

	name := "Asha Nair"
	_, err := c.UpdateProfile(context.Background(), api.UpdateProfileRequest{FullName: &name})
	require.NoError(t, err)

	st := manager.State()
	assert.True(t, st.IsAuthenticated)
	assert.Equal(t, token, st.Token)
	require.NotNil(t, st.User)
	assert.Equal(t, "Asha Nair", st.User.FullName)
	assert.Equal(t, "a@x.com", st.User.Email)
}
