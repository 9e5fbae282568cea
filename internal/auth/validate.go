package auth

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidationError marks a user-correctable input problem.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

var (
	emailPattern  = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	mobilePattern = regexp.MustCompile(`^\d{10}$`)
)

// ValidatePassword enforces the account password policy: at least 6
// characters with upper, lower, digit and special characters.
func ValidatePassword(password string) error {
	if len(password) < 6 {
		return ValidationError("password must be at least 6 characters long")
	}
	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(`!@#$%^&*(),.?":{}|<>`, r):
			hasSpecial = true
		}
	}
	switch {
	case !hasUpper:
		return ValidationError("password must contain at least one uppercase letter")
	case !hasLower:
		return ValidationError("password must contain at least one lowercase letter")
	case !hasDigit:
		return ValidationError("password must contain at least one number")
	case !hasSpecial:
		return ValidationError("password must contain at least one special character")
	}
	return nil
}

// ValidateEmail checks the email address format.
func ValidateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return ValidationError("invalid email format")
	}
	return nil
}

// ValidateMobile checks for an exactly-10-digit mobile number.
func ValidateMobile(mobile string) error {
	if !mobilePattern.MatchString(mobile) {
		return ValidationError("mobile number must be exactly 10 digits")
	}
	return nil
}

// ValidateFullName requires at least a first and last name.
func ValidateFullName(fullName string) error {
	if len(strings.Fields(fullName)) < 2 {
		return ValidationError("full name must include first and last name")
	}
	return nil
}
