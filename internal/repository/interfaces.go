package repository

import (
	"context"
	"time"

	"github.com/iliyamo/site-builder-auth/internal/model"
)

// UserRepository persists users. Email uniqueness is scoped to the tenant,
// never global.
type UserRepository interface {
	Create(ctx context.Context, u *model.User) error
	GetByID(ctx context.Context, id uint64) (*model.User, error)
	GetByEmail(ctx context.Context, tenantID uint64, email string) (*model.User, error)
	UpdatePassword(ctx context.Context, id uint64, passwordHash string) error
	TouchLastLogin(ctx context.Context, id uint64) error
}

// TenantRepository resolves tenants for the middleware and handlers.
// Related entities are fetched explicitly by id; there is no object graph.
type TenantRepository interface {
	GetByID(ctx context.Context, id uint64) (*model.Tenant, error)
	GetBySubdomain(ctx context.Context, subdomain string) (*model.Tenant, error)
	GetByCustomDomain(ctx context.Context, domain string) (*model.Tenant, error)
}

// RefreshTokenRepository is the ledger of issued refresh tokens. Tokens are
// revoked in place, never deleted.
type RefreshTokenRepository interface {
	Create(ctx context.Context, userID, tenantID uint64, tokenHash string, expiresAt time.Time) error
	FindByToken(ctx context.Context, tokenHash string) (*model.RefreshToken, error)
	// Revoke is idempotent: revoking an already-revoked token is a no-op.
	Revoke(ctx context.Context, id uint64) error
	// RevokeAllForUser kills every active token the user holds, across all
	// devices. Used on logout and after a password change.
	RevokeAllForUser(ctx context.Context, userID uint64) error
	// Rotate revokes the token identified by oldHash and inserts its
	// replacement in a single transaction. It returns ErrTokenInactive when
	// the old token was already revoked or expired, so of two concurrent
	// exchanges of the same token exactly one can succeed.
	Rotate(ctx context.Context, oldHash string, userID, tenantID uint64, newHash string, expiresAt time.Time) error
}

// PasswordResetRepository is the ledger of password-reset tokens. Creating
// a new token deliberately leaves prior outstanding ones valid: each is
// independently single-use and expires within the hour.
type PasswordResetRepository interface {
	Create(ctx context.Context, userID uint64, tokenHash string, expiresAt time.Time) error
	FindByToken(ctx context.Context, tokenHash string) (*model.PasswordResetToken, error)
	// MarkUsed flips the single-use flag. Callers must have checked ValidAt
	// first; marking is not itself a validity check.
	MarkUsed(ctx context.Context, id uint64) error
}
