// Package client is the REST client used by farmctl and other Go callers.
// It owns HTTP transport; session state lives in the session package and is
// only fed from here.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/farmcare/farmcare/api"
	"github.com/farmcare/farmcare/domain"
	"github.com/farmcare/farmcare/services"
	"github.com/farmcare/farmcare/session"
)

// Client talks to a FarmCare server and keeps the session manager in sync
// with the results.
type Client struct {
	baseURL string
	http    *http.Client
	session *session.Manager
}

// New creates a Client against the given base URL.
func New(baseURL string, manager *session.Manager) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
		session: manager,
	}
}

// Session exposes the session manager, for guards and state reads.
func (c *Client) Session() *session.Manager {
	return c.session
}

// Login authenticates against POST /api/login and installs the resulting
// token and profile into the session.
func (c *Client) Login(ctx context.Context, loginID, password string) (*domain.User, error) {
	return c.login(ctx, "/api/login", loginID, password)
}

// AdminLogin authenticates against POST /api/admin/login.
func (c *Client) AdminLogin(ctx context.Context, loginID, password string) (*domain.User, error) {
	return c.login(ctx, "/api/admin/login", loginID, password)
}

func (c *Client) login(ctx context.Context, path, loginID, password string) (*domain.User, error) {
	var resp api.AuthResponse
	err := c.do(ctx, http.MethodPost, path, api.LoginRequest{LoginID: loginID, Password: password}, &resp)
	if err != nil {
		return nil, err
	}
	c.session.Login(resp.Token, resp.User)
	return resp.User, nil
}

// Register creates a new account. It does not log in.
func (c *Client) Register(ctx context.Context, req api.RegisterRequest) (*domain.User, error) {
	var resp api.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/register", req, &resp); err != nil {
		return nil, err
	}
	return resp.User, nil
}

// Logout revokes the token server-side and clears the local session. The
// server call is best effort: local state is cleared even when it fails.
func (c *Client) Logout(ctx context.Context) {
	if c.session.State().IsAuthenticated {
		if err := c.do(ctx, http.MethodPost, "/api/logout", nil, nil); err != nil {
			log.Warn().Err(err).Msg("Server-side logout failed, clearing local session anyway")
		}
	}
	c.session.Logout()
}

// GetProfile fetches the caller's profile and refreshes the cached copy.
func (c *Client) GetProfile(ctx context.Context) (*domain.User, error) {
	var resp api.AuthResponse
	if err := c.do(ctx, http.MethodGet, "/api/profile", nil, &resp); err != nil {
		return nil, err
	}
	if resp.User != nil {
		c.mergeProfile(resp.User)
	}
	return resp.User, nil
}

// UpdateProfile applies a partial profile update and merges the server's
// result into the cached profile.
func (c *Client) UpdateProfile(ctx context.Context, req api.UpdateProfileRequest) (*domain.User, error) {
	var resp api.AuthResponse
	if err := c.do(ctx, http.MethodPut, "/api/profile", req, &resp); err != nil {
		return nil, err
	}
	if resp.User != nil {
		c.mergeProfile(resp.User)
	}
	return resp.User, nil
}

func (c *Client) mergeProfile(user *domain.User) {
	data, err := json.Marshal(user)
	if err != nil {
		return
	}
	fields := map[string]any{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return
	}
	c.session.UpdateProfile(fields)
}

// CreateScheme adds a government scheme. The server rejects the call for
// non-admin tokens.
func (c *Client) CreateScheme(ctx context.Context, scheme *domain.Scheme) (*domain.Scheme, error) {
	var created domain.Scheme
	if err := c.do(ctx, http.MethodPost, "/api/admin/schemes", scheme, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// ListSchemes lists schemes, optionally filtered by state.
func (c *Client) ListSchemes(ctx context.Context, state string) ([]*domain.Scheme, error) {
	path := "/api/schemes"
	if state != "" {
		path += "?state=" + url.QueryEscape(state)
	}
	var schemes []*domain.Scheme
	if err := c.do(ctx, http.MethodGet, path, nil, &schemes); err != nil {
		return nil, err
	}
	return schemes, nil
}

// Weather fetches the weather report for a coordinate pair.
func (c *Client) Weather(ctx context.Context, lat, lon float64) (*services.WeatherReport, error) {
	var report services.WeatherReport
	path := fmt.Sprintf("/api/weather?lat=%f&lon=%f", lat, lon)
	if err := c.do(ctx, http.MethodGet, path, nil, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if st := c.session.State(); st.IsAuthenticated {
		req.Header.Set("Authorization", "Bearer "+st.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr api.ErrorResponse
		if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr == nil && apiErr.Error != "" {
			return fmt.Errorf("server returned %d: %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("server returned %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
