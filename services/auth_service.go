package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/farmcare/farmcare/domain"
	"github.com/farmcare/farmcare/internal/auth"
	"github.com/farmcare/farmcare/internal/geo"
	"github.com/farmcare/farmcare/internal/metrics"
)

var (
	// ErrInvalidCredentials is returned for an unknown login ID or a wrong
	// password. The two cases are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid login ID or password")

	// ErrUseAdminLogin is returned when an admin account tries the regular
	// user login.
	ErrUseAdminLogin = errors.New("please use admin login")

	// ErrAdminOnly is returned when a non-admin account tries the admin
	// login.
	ErrAdminOnly = errors.New("admin access only")

	// ErrWrongPassword is returned when the current password given for a
	// password change does not match.
	ErrWrongPassword = errors.New("current password is incorrect")

	// ErrMobileImmutable is returned when a profile update tries to change
	// the mobile number.
	ErrMobileImmutable = errors.New("mobile number cannot be changed")

	// ErrInvalidAdminKey is returned when admin registration is attempted
	// with a wrong registration key.
	ErrInvalidAdminKey = errors.New("invalid admin registration key")

	// ErrInvalidState is returned when the state or region is not a known
	// Indian state/region pair.
	ErrInvalidState = errors.New("unknown state or region")
)

// RegisterInput carries a registration request.
type RegisterInput struct {
	FullName string
	Email    string
	Mobile   string
	Password string
	State    string
	Region   string
	AdminKey string // non-empty requests an admin account
}

// UpdateProfileInput carries a profile update. Nil pointers leave the field
// untouched.
type UpdateProfileInput struct {
	FullName        *string
	Email           *string
	Mobile          *string
	State           *string
	Region          *string
	NewPassword     *string
	CurrentPassword string
}

// AuthService owns registration, login and profile management.
type AuthService struct {
	users    domain.UserRepository
	tokens   *TokenService
	hasher   auth.PasswordHasher
	adminKey string
}

// NewAuthService creates an AuthService.
func NewAuthService(users domain.UserRepository, tokens *TokenService, hasher auth.PasswordHasher, adminKey string) *AuthService {
	return &AuthService{
		users:    users,
		tokens:   tokens,
		hasher:   hasher,
		adminKey: adminKey,
	}
}

// Register creates a new account after validating all fields. Passing a
// matching admin registration key makes the account an admin.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	if err := auth.ValidateFullName(in.FullName); err != nil {
		return nil, err
	}
	if err := auth.ValidateEmail(in.Email); err != nil {
		return nil, err
	}
	if err := auth.ValidateMobile(in.Mobile); err != nil {
		return nil, err
	}
	if err := auth.ValidatePassword(in.Password); err != nil {
		return nil, err
	}

	isAdmin := false
	if in.AdminKey != "" {
		if s.adminKey == "" || in.AdminKey != s.adminKey {
			return nil, ErrInvalidAdminKey
		}
		isAdmin = true
	}

	if in.State != "" {
		regions, ok := geo.Regions(in.State)
		if !ok {
			return nil, ErrInvalidState
		}
		if in.Region != "" {
			found := false
			for _, r := range regions {
				if r == in.Region {
					found = true
					break
				}
			}
			if !found {
				return nil, ErrInvalidState
			}
		}
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		FullName:     strings.TrimSpace(in.FullName),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		Mobile:       in.Mobile,
		PasswordHash: hash,
		IsAdmin:      isAdmin,
		State:        in.State,
		Region:       in.Region,
		ProfileImage: domain.InitialsAvatar(in.FullName),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	metrics.UserRegisteredTotal.Inc()
	log.Info().Str("userID", user.ID).Str("email", user.Email).Bool("admin", isAdmin).Msg("User registered")
	return user, nil
}

// Login authenticates a regular user by email or mobile. Admin accounts are
// rejected here and directed to the admin login instead.
func (s *AuthService) Login(ctx context.Context, loginID, password string) (string, *domain.User, error) {
	user, err := s.authenticate(ctx, loginID, password)
	if err != nil {
		return "", nil, err
	}
	if user.IsAdmin {
		metrics.LoginFailureTotal.Inc()
		return "", nil, ErrUseAdminLogin
	}
	return s.completeLogin(ctx, user)
}

// AdminLogin authenticates an admin account. Regular accounts are rejected.
func (s *AuthService) AdminLogin(ctx context.Context, loginID, password string) (string, *domain.User, error) {
	user, err := s.authenticate(ctx, loginID, password)
	if err != nil {
		return "", nil, err
	}
	if !user.IsAdmin {
		metrics.LoginFailureTotal.Inc()
		return "", nil, ErrAdminOnly
	}
	return s.completeLogin(ctx, user)
}

func (s *AuthService) authenticate(ctx context.Context, loginID, password string) (*domain.User, error) {
	user, err := s.users.GetUserByLoginID(ctx, loginID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.LoginFailureTotal.Inc()
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := s.hasher.Verify(user.PasswordHash, password); err != nil {
		log.Warn().Str("userID", user.ID).Msg("Login: incorrect password")
		metrics.LoginFailureTotal.Inc()
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *AuthService) completeLogin(ctx context.Context, user *domain.User) (string, *domain.User, error) {
	token, _, err := s.tokens.Issue(user)
	if err != nil {
		return "", nil, err
	}

	now := time.Now().UTC()
	user.LastLoginAt = &now
	if err := s.users.UpdateUser(ctx, user); err != nil {
		log.Warn().Err(err).Str("userID", user.ID).Msg("Failed to record last login time")
	}

	metrics.LoginSuccessTotal.Inc()
	metrics.ActiveSessionsGauge.Inc()
	log.Info().Str("userID", user.ID).Msg("Login successful")
	return token, user, nil
}

// Logout revokes the token. Server-side revocation is best effort from the
// client's point of view; clients clear local state regardless.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if err := s.tokens.Revoke(ctx, token); err != nil {
		return err
	}
	metrics.ActiveSessionsGauge.Dec()
	return nil
}

// GetProfile returns a user's profile, filling in the generated initials
// avatar when no image was ever uploaded.
func (s *AuthService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.ProfileImage = user.Avatar()
	return user, nil
}

// UpdateProfile applies a partial profile update. Email changes must not
// collide with another account, password changes require the current
// password, and the mobile number is immutable.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*domain.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.Mobile != nil && *in.Mobile != user.Mobile {
		return nil, ErrMobileImmutable
	}

	if in.FullName != nil {
		if err := auth.ValidateFullName(*in.FullName); err != nil {
			return nil, err
		}
		user.FullName = strings.TrimSpace(*in.FullName)
		// Regenerate the initials avatar unless a real image was uploaded.
		if user.ProfileImage == nil || user.ProfileImage.Collection == "initials" {
			user.ProfileImage = domain.InitialsAvatar(user.FullName)
		}
	}

	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		if err := auth.ValidateEmail(email); err != nil {
			return nil, err
		}
		if email != user.Email {
			inUse, err := s.users.EmailInUse(ctx, email, user.ID)
			if err != nil {
				return nil, err
			}
			if inUse {
				return nil, domain.ErrEmailInUse
			}
			user.Email = email
		}
	}

	if in.State != nil {
		if _, ok := geo.Regions(*in.State); !ok {
			return nil, ErrInvalidState
		}
		user.State = *in.State
	}
	if in.Region != nil {
		user.Region = *in.Region
	}

	if in.NewPassword != nil {
		if err := s.hasher.Verify(user.PasswordHash, in.CurrentPassword); err != nil {
			return nil, ErrWrongPassword
		}
		if err := auth.ValidatePassword(*in.NewPassword); err != nil {
			return nil, err
		}
		hash, err := s.hasher.Hash(*in.NewPassword)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = hash
	}

	if err := s.users.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	user.ProfileImage = user.Avatar()
	return user, nil
}

// SetProfileImage replaces the user's avatar with an uploaded image.
func (s *AuthService) SetProfileImage(ctx context.Context, userID, url, key string) (*domain.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.ProfileImage = &domain.ProfileImage{URL: url, Key: key}
	if err := s.users.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
