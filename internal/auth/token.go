// Package auth holds the token codec and password hashing used by the
// session core. Access tokens are signed HS256 JWTs; refresh and reset
// tokens are opaque random strings, and only their SHA-256 hashes reach the
// database.
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iliyamo/site-builder-auth/internal/model"
)

// AccessTokenTTL is fixed: access tokens always live 60 minutes.
const AccessTokenTTL = 60 * time.Minute

// 48 random bytes = 384 bits of entropy, comfortably past the 256-bit
// floor needed to rule out brute-force guessing.
const opaqueTokenBytes = 48

var (
	// ErrInvalidToken covers malformed structure and bad signatures.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken means the token verified but its expiry has passed.
	ErrExpiredToken = errors.New("expired token")
)

// Claims carried by a verified access token.
type Claims struct {
	UserID   uint64
	TenantID uint64
	Email    string
	Role     string
}

// AccessToken is a signed JWT plus its expiry for response metadata.
type AccessToken struct {
	Token     string
	ExpiresAt time.Time
}

// NewAccessToken signs an HS256 JWT embedding the user's id, tenant, email
// and role.
func NewAccessToken(secret string, u *model.User) (AccessToken, error) {
	now := time.Now().UTC()
	exp := AccessTokenExpiry(now)
	claims := jwt.MapClaims{
		"sub":       u.ID,
		"tenant_id": u.TenantID,
		"email":     u.Email,
		"role":      u.Role,
		"exp":       exp.Unix(),
		"iat":       now.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, ExpiresAt: exp}, nil
}

// AccessTokenExpiry returns the instant a token issued at now would expire.
func AccessTokenExpiry(now time.Time) time.Time { return now.Add(AccessTokenTTL) }

// VerifyAccessToken checks signature and expiry and returns the embedded
// claims. Expiry is reported as ErrExpiredToken, everything else as
// ErrInvalidToken; callers never see parser internals.
func VerifyAccessToken(secret, raw string) (Claims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrExpiredToken
		}
		return Claims{}, ErrInvalidToken
	}
	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok || !tok.Valid {
		return Claims{}, ErrInvalidToken
	}
	c := Claims{
		UserID:   asUint64(mc["sub"]),
		TenantID: asUint64(mc["tenant_id"]),
	}
	c.Email, _ = mc["email"].(string)
	c.Role, _ = mc["role"].(string)
	if c.UserID == 0 {
		return Claims{}, ErrInvalidToken
	}
	return c, nil
}

// TenantClaim extracts the tenant_id claim without verifying the signature.
// Tenant resolution uses it as an advisory hint only; it must never feed an
// authorization decision. A malformed token yields zero rather than an
// error so resolution can fall through to the next source.
func TenantClaim(raw string) uint64 {
	mc := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, mc); err != nil {
		return 0
	}
	return asUint64(mc["tenant_id"])
}

// NewOpaqueToken returns a hex-encoded 384-bit random string. Opaque tokens
// carry no claims and cannot be parsed; possession is the whole credential.
func NewOpaqueToken() (string, error) {
	buf := make([]byte, opaqueTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// HashOpaque returns the SHA-256 hex digest stored in place of the raw
// token, so a leaked table cannot be replayed against the API.
func HashOpaque(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// asUint64 copes with JSON numbers decoding as float64 and the occasional
// library that stringifies numeric claims.
func asUint64(v any) uint64 {
	switch n := v.(type) {
	case float64:
		if n < 0 {
			return 0
		}
		return uint64(n)
	case string:
		u, _ := strconv.ParseUint(n, 10, 64)
		return u
	}
	return 0
}
