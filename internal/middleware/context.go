package middleware

import (
	"github.com/labstack/echo/v4"

	authpkg "github.com/octobees/marketplace-catalog/internal/auth"
)

// Context keys for values stored on the echo context.
const (
	ContextKeyRequestID = "request_id"
	ContextKeyClaims    = "auth_claims"
	ContextKeyUserEmail = "user_email"
	ContextKeyUserRole  = "user_role"
)

// ClaimsFromContext returns the token claims stored by JWT, if any.
func ClaimsFromContext(c echo.Context) (*authpkg.Claims, bool) {
	claims, ok := c.Get(ContextKeyClaims).(*authpkg.Claims)
	return claims, ok && claims != nil
}
