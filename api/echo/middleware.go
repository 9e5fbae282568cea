package echo

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/farmcare/farmcare/domain"
)

const (
	claimsContextKey = "auth_claims"
	tokenContextKey  = "auth_token"
)

// RequireAuth validates the bearer token and stores its claims on the
// request context. Missing, invalid and revoked tokens all answer 401.
func (fa *FarmCareAPI) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
		if authHeader == "" {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing_token"})
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid_token"})
		}
		token := tokenParts[1]

		claims, err := fa.tokens.Validate(c.Request().Context(), token)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid_token"})
		}

		c.Set(claimsContextKey, claims)
		c.Set(tokenContextKey, token)
		return next(c)
	}
}

// RequireAdmin rejects authenticated non-admin sessions with 403. It must
// run after RequireAuth.
func (fa *FarmCareAPI) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims := requestClaims(c)
		if claims == nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing_token"})
		}
		if !claims.IsAdmin {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "admin_only"})
		}
		return next(c)
	}
}

func requestClaims(c echo.Context) *domain.TokenClaims {
	claims, _ := c.Get(claimsContextKey).(*domain.TokenClaims)
	return claims
}

func requestToken(c echo.Context) string {
	token, _ := c.Get(tokenContextKey).(string)
	return token
}
