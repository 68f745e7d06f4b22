package model

import "time"

// RefreshToken models a row in `refresh_tokens`. The plain token is never
// stored; only its SHA-256 hash. Rows are revoked on rotation or logout,
// never deleted, so the table doubles as an audit ledger.
type RefreshToken struct {
	ID        uint64
	UserID    uint64
	TenantID  uint64
	TokenHash string
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
}

func (t RefreshToken) Revoked() bool { return t.RevokedAt != nil }

func (t RefreshToken) Expired(now time.Time) bool { return !now.Before(t.ExpiresAt) }

// ActiveAt reports whether the token can still be exchanged: neither
// revoked nor expired.
func (t RefreshToken) ActiveAt(now time.Time) bool { return !t.Revoked() && !t.Expired(now) }

// PasswordResetToken models a row in `password_reset_tokens`. A token is
// single-use: once Used is set it stays invalid forever, even before its
// one-hour expiry.
type PasswordResetToken struct {
	ID        uint64
	UserID    uint64
	TokenHash string
	ExpiresAt time.Time
	Used      bool
	UsedAt    *time.Time
	CreatedAt time.Time
}

func (t PasswordResetToken) Expired(now time.Time) bool { return now.After(t.ExpiresAt) }

// ValidAt reports whether the token may still redeem a password reset.
func (t PasswordResetToken) ValidAt(now time.Time) bool { return !t.Used && !t.Expired(now) }
