package domain

import "errors"

var (
	// ErrNotFound is returned when a requested document does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUserNotFound is returned when a user lookup finds no document.
	ErrUserNotFound = errors.New("user not found")

	// ErrDuplicateUser is returned when a registration collides with an
	// existing email or mobile number.
	ErrDuplicateUser = errors.New("user with this email or mobile already exists")

	// ErrEmailInUse is returned when a profile update would take over
	// another account's email address.
	ErrEmailInUse = errors.New("email is already in use")
)
