package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	authpkg "github.com/octobees/marketplace-catalog/internal/auth"
)

const bearerScheme = "Bearer"

// JWT requires a valid curator bearer token and stores its claims on the
// context. Failures answer 401 with a WWW-Authenticate challenge.
func JWT(manager *authpkg.JWTManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, problem := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if problem != "" {
				return unauthorized(c, problem)
			}

			claims, err := manager.ParseToken(token)
			if err != nil {
				return unauthorized(c, "invalid token")
			}

			c.Set(ContextKeyClaims, claims)
			c.Set(ContextKeyUserEmail, claims.Email)
			c.Set(ContextKeyUserRole, claims.Role)

			return next(c)
		}
	}
}

func bearerToken(header string) (string, string) {
	if header == "" {
		return "", "missing authorization header"
	}
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	token = strings.TrimSpace(token)
	if !ok || !strings.EqualFold(scheme, bearerScheme) || token == "" {
		return "", "invalid authorization header"
	}
	return token, ""
}

func unauthorized(c echo.Context, message string) error {
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, bearerScheme)
	return c.JSON(http.StatusUnauthorized, map[string]string{"error": message})
}
