package domain

import (
	"net/url"
	"time"
)

// ProfileImage points at a user's avatar. Uploaded images live in object
// storage (URL + storage key); users without an upload get a generated
// initials avatar.
type ProfileImage struct {
	URL        string `bson:"url" json:"url"`
	Key        string `bson:"key,omitempty" json:"key,omitempty"`
	Collection string `bson:"collection,omitempty" json:"collection,omitempty"`
	Seed       string `bson:"seed,omitempty" json:"seed,omitempty"`
}

// InitialsAvatar returns the fallback avatar for users that never uploaded
// a profile image.
func InitialsAvatar(fullName string) *ProfileImage {
	return &ProfileImage{
		URL:        "https://api.dicebear.com/6.x/initials/svg?seed=" + url.QueryEscape(fullName),
		Collection: "initials",
		Seed:       fullName,
	}
}

// User represents a farmer (or admin) account.
type User struct {
	ID           string        `bson:"_id,omitempty" json:"id"`
	FullName     string        `bson:"full_name" json:"full_name"`
	Email        string        `bson:"email" json:"email"`
	Mobile       string        `bson:"mobile" json:"mobile"`
	PasswordHash string        `bson:"password_hash" json:"-"`
	IsAdmin      bool          `bson:"is_admin" json:"is_admin"`
	State        string        `bson:"state,omitempty" json:"state,omitempty"`
	Region       string        `bson:"region,omitempty" json:"region,omitempty"`
	ProfileImage *ProfileImage `bson:"profile_image,omitempty" json:"profile_image,omitempty"`
	CreatedAt    time.Time     `bson:"created_at" json:"-"`
	UpdatedAt    time.Time     `bson:"updated_at" json:"-"`
	LastLoginAt  *time.Time    `bson:"last_login_at,omitempty" json:"-"`

	// PushSubscription is stored as the browser handed it over. Profile
	// updates replace the whole document, so it has to survive the round trip.
	PushSubscription map[string]any `bson:"push_subscription,omitempty" json:"-"`
}

// Avatar returns the user's profile image, falling back to a generated
// initials avatar when none was uploaded.
func (u *User) Avatar() *ProfileImage {
	if u.ProfileImage != nil {
		return u.ProfileImage
	}
	return InitialsAvatar(u.FullName)
}
