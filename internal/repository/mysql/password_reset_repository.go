package mysql

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/site-builder-auth/internal/model"
	"github.com/iliyamo/site-builder-auth/internal/repository"
)

type PasswordResetRepo struct{ DB *sql.DB }

func NewPasswordResetRepo(db *sql.DB) *PasswordResetRepo { return &PasswordResetRepo{DB: db} }

// Create inserts a reset token row. Earlier outstanding tokens for the same
// user stay valid; each one is single-use and expires on its own.
func (r *PasswordResetRepo) Create(ctx context.Context, userID uint64, tokenHash string, expiresAt time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO password_reset_tokens (user_id, token_hash, expires_at) VALUES (?,?,?)",
		userID, tokenHash, expiresAt)
	return err
}

// FindByToken returns the row for a token hash or ErrNotFound.
func (r *PasswordResetRepo) FindByToken(ctx context.Context, tokenHash string) (*model.PasswordResetToken, error) {
	var (
		t      model.PasswordResetToken
		usedAt sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, user_id, token_hash, expires_at, used, used_at, created_at FROM password_reset_tokens WHERE token_hash=? LIMIT 1",
		tokenHash).Scan(&t.ID, &t.UserID, &t.TokenHash, &t.ExpiresAt, &t.Used, &usedAt, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	if usedAt.Valid {
		ts := usedAt.Time
		t.UsedAt = &ts
	}
	return &t, nil
}

// MarkUsed burns the token. The used=0 guard keeps the write idempotent and
// preserves the original used_at if two resets race.
func (r *PasswordResetRepo) MarkUsed(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE password_reset_tokens SET used=1, used_at=NOW() WHERE id=? AND used=0", id)
	return err
}
