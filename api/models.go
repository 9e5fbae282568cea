// Package api holds the request and response shapes of the REST surface.
package api

import "github.com/farmcare/farmcare/domain"

// RegisterRequest is the body of POST /api/register.
type RegisterRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Mobile   string `json:"mobile"`
	Password string `json:"password"`
	State    string `json:"state,omitempty"`
	Region   string `json:"region,omitempty"`
	AdminKey string `json:"admin_key,omitempty"`
}

// LoginRequest is the body of POST /api/login and POST /api/admin/login.
// LoginID accepts an email address or a mobile number.
type LoginRequest struct {
	LoginID  string `json:"login_id"`
	Password string `json:"password"`
}

// AuthResponse is returned by login and register endpoints.
type AuthResponse struct {
	Token string       `json:"token,omitempty"`
	User  *domain.User `json:"user"`
}

// UpdateProfileRequest is the body of PUT /api/profile. Absent fields are
// left unchanged.
type UpdateProfileRequest struct {
	FullName        *string `json:"full_name,omitempty"`
	Email           *string `json:"email,omitempty"`
	Mobile          *string `json:"mobile,omitempty"`
	State           *string `json:"state,omitempty"`
	Region          *string `json:"region,omitempty"`
	NewPassword     *string `json:"new_password,omitempty"`
	CurrentPassword string  `json:"current_password,omitempty"`
}

// StatesResponse lists the known states and their regions.
type StatesResponse struct {
	States  []string            `json:"states"`
	Regions map[string][]string `json:"regions,omitempty"`
}

// RegionsResponse lists the regions of one state.
type RegionsResponse struct {
	State   string   `json:"state"`
	Regions []string `json:"regions"`
}

// UploadHistoryResponse is returned by GET /api/uploads.
type UploadHistoryResponse struct {
	Uploads []*domain.Upload `json:"uploads"`
	Total   int64            `json:"total"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error string `json:"error"`
}
