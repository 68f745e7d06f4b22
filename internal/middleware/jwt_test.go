package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/site-builder-auth/internal/auth"
	"github.com/iliyamo/site-builder-auth/internal/model"
)

const jwtTestSecret = "jwt-test-secret"

func runJWT(t *testing.T, authorization string) (*httptest.ResponseRecorder, echo.Context, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	reached := false
	h := JWTAuth(jwtTestSecret)(func(c echo.Context) error {
		reached = true
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, h(c))
	return rec, c, reached
}

func TestJWTAuthMissingToken(t *testing.T) {
	rec, _, reached := runJWT(t, "")
	assert.False(t, reached)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing bearer token")
}

func TestJWTAuthInvalidToken(t *testing.T) {
	rec, _, reached := runJWT(t, "Bearer garbage")
	assert.False(t, reached)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid token")
}

func TestJWTAuthWrongSecret(t *testing.T) {
	tok, err := auth.NewAccessToken("not-the-secret", &model.User{ID: 1, TenantID: 1})
	require.NoError(t, err)

	rec, _, reached := runJWT(t, "Bearer "+tok.Token)
	assert.False(t, reached)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthExpiredToken(t *testing.T) {
	now := time.Now().UTC()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":       float64(1),
		"tenant_id": float64(1),
		"exp":       now.Add(-time.Minute).Unix(),
		"iat":       now.Add(-2 * time.Hour).Unix(),
	}).SignedString([]byte(jwtTestSecret))
	require.NoError(t, err)

	rec, _, reached := runJWT(t, "Bearer "+signed)
	assert.False(t, reached)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "expired token")
}

func TestJWTAuthSetsIdentity(t *testing.T) {
	tok, err := auth.NewAccessToken(jwtTestSecret, &model.User{
		ID: 42, TenantID: 7, Email: "dana@acme.test", Role: model.RoleAdmin,
	})
	require.NoError(t, err)

	rec, c, reached := runJWT(t, "Bearer "+tok.Token)
	assert.True(t, reached)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint64(42), c.Get(UserIDKey))
	assert.Equal(t, uint64(7), c.Get(TenantIDKey))
	assert.Equal(t, "dana@acme.test", c.Get(EmailKey))
	assert.Equal(t, model.RoleAdmin, c.Get(RoleKey))
}
