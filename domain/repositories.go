package domain

import (
	"context"
	"time"
)

// UserRepository defines methods for user account persistence.
type UserRepository interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByID(ctx context.Context, id string) (*User, error)
	// GetUserByLoginID looks a user up by email or mobile number.
	GetUserByLoginID(ctx context.Context, loginID string) (*User, error)
	// EmailInUse reports whether any user other than excludeID owns the email.
	EmailInUse(ctx context.Context, email, excludeID string) (bool, error)
	UpdateUser(ctx context.Context, user *User) error
}

// SchemeRepository persists government schemes.
type SchemeRepository interface {
	Create(ctx context.Context, scheme *Scheme) error
	Update(ctx context.Context, id string, fields map[string]any) (*Scheme, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, state string) ([]*Scheme, error)
}

// PriceRepository persists market price entries.
type PriceRepository interface {
	Create(ctx context.Context, price *Price) error
	Update(ctx context.Context, id string, fields map[string]any) (*Price, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*Price, error)
	List(ctx context.Context, filter PriceFilter) ([]*Price, error)
}

// ArticleRepository persists expert articles.
type ArticleRepository interface {
	Create(ctx context.Context, article *Article) error
	Update(ctx context.Context, id string, fields map[string]any) (*Article, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*Article, error)
	List(ctx context.Context, category string) ([]*Article, error)
}

// NewsRepository persists daily news entries.
type NewsRepository interface {
	Create(ctx context.Context, news *News) error
	Update(ctx context.Context, id string, fields map[string]any) (*News, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*News, error)
	List(ctx context.Context) ([]*News, error)
}

// UploadRepository persists image-analysis records.
type UploadRepository interface {
	Create(ctx context.Context, upload *Upload) error
	CountByUser(ctx context.Context, userID string) (int64, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]*Upload, error)
}

// DenylistRepository records revoked tokens until they would have expired
// anyway. Contains must err on the side of "revoked" only for listed tokens;
// lookup failures are surfaced so the caller can decide.
type DenylistRepository interface {
	Add(ctx context.Context, token string, expiresAt time.Time) error
	Contains(ctx context.Context, token string) (bool, error)
}
