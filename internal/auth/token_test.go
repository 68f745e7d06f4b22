package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/site-builder-auth/internal/model"
)

const testSecret = "unit-test-secret"

func testUser() *model.User {
	return &model.User{
		ID:       42,
		TenantID: 7,
		Email:    "dana@acme.test",
		Role:     model.RoleMember,
		IsActive: true,
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	tok, err := NewAccessToken(testSecret, testUser())
	require.NoError(t, err)
	require.NotEmpty(t, tok.Token)

	claims, err := VerifyAccessToken(testSecret, tok.Token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.UserID)
	assert.Equal(t, uint64(7), claims.TenantID)
	assert.Equal(t, "dana@acme.test", claims.Email)
	assert.Equal(t, model.RoleMember, claims.Role)

	assert.WithinDuration(t, time.Now().UTC().Add(AccessTokenTTL), tok.ExpiresAt, 5*time.Second)
}

func TestAccessTokenExpiry(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, now.Add(AccessTokenTTL), AccessTokenExpiry(now))

	// issued tokens carry the same expiry arithmetic
	tok, err := NewAccessToken(testSecret, testUser())
	require.NoError(t, err)
	assert.WithinDuration(t, AccessTokenExpiry(time.Now().UTC()), tok.ExpiresAt, 5*time.Second)
}

func TestVerifyAccessTokenWrongSecret(t *testing.T) {
	tok, err := NewAccessToken(testSecret, testUser())
	require.NoError(t, err)

	_, err = VerifyAccessToken("some-other-secret", tok.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyAccessTokenGarbage(t *testing.T) {
	_, err := VerifyAccessToken(testSecret, "not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyAccessTokenExpired(t *testing.T) {
	// sign a token whose exp is already in the past
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":       float64(42),
		"tenant_id": float64(7),
		"exp":       now.Add(-time.Minute).Unix(),
		"iat":       now.Add(-2 * time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = VerifyAccessToken(testSecret, signed)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestVerifyAccessTokenRejectsMissingSubject(t *testing.T) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"tenant_id": float64(7),
		"exp":       now.Add(time.Hour).Unix(),
		"iat":       now.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = VerifyAccessToken(testSecret, signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTenantClaimIgnoresSignature(t *testing.T) {
	tok, err := NewAccessToken("a-secret-nobody-shares", testUser())
	require.NoError(t, err)

	// no secret involved: the hint is readable regardless of the signer
	assert.Equal(t, uint64(7), TenantClaim(tok.Token))
}

func TestTenantClaimMalformed(t *testing.T) {
	assert.Equal(t, uint64(0), TenantClaim("garbage"))
	assert.Equal(t, uint64(0), TenantClaim(""))
}

func TestNewOpaqueToken(t *testing.T) {
	a, err := NewOpaqueToken()
	require.NoError(t, err)
	b, err := NewOpaqueToken()
	require.NoError(t, err)

	// 48 bytes hex-encoded
	assert.Len(t, a, 96)
	assert.NotEqual(t, a, b)
}

func TestHashOpaqueDeterministic(t *testing.T) {
	raw, err := NewOpaqueToken()
	require.NoError(t, err)

	assert.Equal(t, HashOpaque(raw), HashOpaque(raw))
	assert.NotEqual(t, raw, HashOpaque(raw))
	assert.Len(t, HashOpaque(raw), 64)
}
