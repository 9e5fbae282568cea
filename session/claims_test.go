package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeClaims(t *testing.T) {
	exp := time.Now().Add(time.Hour)

	t.Run("admin token", func(t *testing.T) {
		res := DecodeClaims(signToken(t, exp, true))
		assert.True(t, res.Valid)
		assert.True(t, res.IsAdmin)
		assert.WithinDuration(t, exp, res.ExpiresAt, time.Second)
	})

	t.Run("missing is_admin defaults to false", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"user_id": "user-1",
			"exp":     exp.Unix(),
		})
		signed, err := token.SignedString([]byte("test-secret"))
		require.NoError(t, err)

		res := DecodeClaims(signed)
		assert.True(t, res.Valid)
		assert.False(t, res.IsAdmin)
	})

	t.Run("missing exp is invalid", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"user_id": "user-1",
		})
		signed, err := token.SignedString([]byte("test-secret"))
		require.NoError(t, err)

		assert.False(t, DecodeClaims(signed).Valid)
	})

	t.Run("malformed tokens are invalid", func(t *testing.T) {
		for _, raw := range []string{"", "garbage", "a.b", "a.b.c", "!!.??.!!"} {
			assert.False(t, DecodeClaims(raw).Valid, "token %q", raw)
		}
	})
}
