package mysql

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/site-builder-auth/internal/model"
	"github.com/iliyamo/site-builder-auth/internal/repository"
)

type RefreshTokenRepo struct{ DB *sql.DB }

func NewRefreshTokenRepo(db *sql.DB) *RefreshTokenRepo { return &RefreshTokenRepo{DB: db} }

// Create inserts a refresh token row. Hash uniqueness is guaranteed by the
// caller's token entropy; the unique key only backstops it.
func (r *RefreshTokenRepo) Create(ctx context.Context, userID, tenantID uint64, tokenHash string, expiresAt time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO refresh_tokens (user_id, tenant_id, token_hash, expires_at) VALUES (?,?,?,?)",
		userID, tenantID, tokenHash, expiresAt)
	return err
}

// FindByToken returns the row for a token hash, revoked or not; the caller
// decides what an inactive row means for its flow.
func (r *RefreshTokenRepo) FindByToken(ctx context.Context, tokenHash string) (*model.RefreshToken, error) {
	var (
		t       model.RefreshToken
		revoked sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, user_id, tenant_id, token_hash, expires_at, revoked_at, created_at FROM refresh_tokens WHERE token_hash=? LIMIT 1",
		tokenHash).Scan(&t.ID, &t.UserID, &t.TenantID, &t.TokenHash, &t.ExpiresAt, &revoked, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	if revoked.Valid {
		ts := revoked.Time
		t.RevokedAt = &ts
	}
	return &t, nil
}

// Revoke marks one token revoked. Already-revoked rows are left untouched,
// which makes the call idempotent.
func (r *RefreshTokenRepo) Revoke(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at=NOW() WHERE id=? AND revoked_at IS NULL", id)
	return err
}

// RevokeAllForUser revokes every active token the user holds.
func (r *RefreshTokenRepo) RevokeAllForUser(ctx context.Context, userID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at=NOW() WHERE user_id=? AND revoked_at IS NULL", userID)
	return err
}

// Rotate revokes oldHash and inserts the replacement inside one
// transaction. The guarded UPDATE is the linearization point: when two
// requests present the same token, only one sees a row still active and the
// other gets ErrTokenInactive with nothing inserted.
func (r *RefreshTokenRepo) Rotate(ctx context.Context, oldHash string, userID, tenantID uint64, newHash string, expiresAt time.Time) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at=NOW() WHERE token_hash=? AND revoked_at IS NULL AND expires_at > NOW()",
		oldHash)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrTokenInactive
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO refresh_tokens (user_id, tenant_id, token_hash, expires_at) VALUES (?,?,?,?)",
		userID, tenantID, newHash, expiresAt); err != nil {
		return err
	}
	return tx.Commit()
}
