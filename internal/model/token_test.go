package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRefreshTokenLifecycle(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tok := RefreshToken{ExpiresAt: now.Add(time.Hour)}

	assert.True(t, tok.ActiveAt(now))

	// expiry boundary: a token is dead at the exact expiry instant
	assert.False(t, tok.Expired(now.Add(time.Hour-time.Second)))
	assert.True(t, tok.Expired(now.Add(time.Hour)))
	assert.False(t, tok.ActiveAt(now.Add(time.Hour)))

	revokedAt := now.Add(time.Minute)
	tok.RevokedAt = &revokedAt
	assert.True(t, tok.Revoked())
	assert.False(t, tok.ActiveAt(now))
}

func TestPasswordResetTokenLifecycle(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tok := PasswordResetToken{ExpiresAt: now.Add(time.Hour)}

	assert.True(t, tok.ValidAt(now))
	assert.True(t, tok.ValidAt(now.Add(time.Hour))) // valid through the expiry instant
	assert.False(t, tok.ValidAt(now.Add(time.Hour+time.Second)))

	tok.Used = true
	assert.False(t, tok.ValidAt(now), "used token must stay invalid even before expiry")
}

func TestTenantActive(t *testing.T) {
	assert.True(t, Tenant{Status: TenantActive}.Active())
	assert.False(t, Tenant{Status: TenantSuspended}.Active())
	assert.False(t, Tenant{Status: TenantArchived}.Active())
	assert.False(t, Tenant{}.Active())
}
