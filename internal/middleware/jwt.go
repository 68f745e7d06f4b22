package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/site-builder-auth/internal/auth"
)

// JWTAuth validates the Bearer access token and injects the verified
// identity into the Echo context under UserIDKey, TenantIDKey, RoleKey and
// EmailKey. This is the authentication step proper; the advisory parse in
// ResolveTenant never substitutes for it.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := bearerToken(c.Request())
			if raw == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			claims, err := auth.VerifyAccessToken(secret, raw)
			if err != nil {
				msg := "invalid token"
				if errors.Is(err, auth.ErrExpiredToken) {
					msg = "expired token"
				}
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": msg})
			}
			c.Set(UserIDKey, claims.UserID)
			c.Set(TenantIDKey, claims.TenantID)
			c.Set(RoleKey, claims.Role)
			c.Set(EmailKey, claims.Email)
			return next(c)
		}
	}
}
