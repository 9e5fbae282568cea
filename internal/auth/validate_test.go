package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  string
	}{
		{"valid", "Abcd1!", ""},
		{"too short", "Ab1!", "at least 6 characters"},
		{"missing uppercase", "abcdef1!", "uppercase"},
		{"missing lowercase", "ABCDEF1!", "lowercase"},
		{"missing digit", "Abcdefg!", "number"},
		{"missing special", "Abcdefg1", "special"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("asha@example.com"))
	assert.Error(t, ValidateEmail("asha@example"))
	assert.Error(t, ValidateEmail("not-an-email"))
	assert.Error(t, ValidateEmail(""))
}

func TestValidateMobile(t *testing.T) {
	assert.NoError(t, ValidateMobile("9876543210"))
	assert.Error(t, ValidateMobile("987654321"))   // 9 digits
	assert.Error(t, ValidateMobile("98765432101")) // 11 digits
	assert.Error(t, ValidateMobile("98765abc10"))
}

func TestValidateFullName(t *testing.T) {
	assert.NoError(t, ValidateFullName("Asha Kumari"))
	assert.Error(t, ValidateFullName("Asha"))
	assert.Error(t, ValidateFullName(""))
}

func TestBcryptPasswordHasher(t *testing.T) {
	hasher := NewBcryptPasswordHasher(4) // low cost to keep the test fast

	hash, err := hasher.Hash("Secret1!")
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	assert.NoError(t, hasher.Verify(hash, "Secret1!"))
	assert.Error(t, hasher.Verify(hash, "wrong-password"))
}
