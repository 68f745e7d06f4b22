// Package service contains the session-lifecycle orchestration on top of
// the repositories: registration, login, refresh rotation, logout and the
// password-reset flow.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/iliyamo/site-builder-auth/internal/auth"
	"github.com/iliyamo/site-builder-auth/internal/model"
	"github.com/iliyamo/site-builder-auth/internal/repository"
)

// Reset tokens live exactly one hour from issuance.
const resetTokenTTL = time.Hour

// AuthService owns the session lifecycle. A (user, device) session moves
// Anonymous -> Authenticated -> Refreshed* -> LoggedOut; every transition
// below enforces the token invariants for its step.
type AuthService interface {
	Register(ctx context.Context, tenantID uint64, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, tenantID uint64, email, password string) (*AuthResult, error)
	Refresh(ctx context.Context, rawRefreshToken string) (*AuthResult, error)
	Logout(ctx context.Context, userID uint64) error
	ForgotPassword(ctx context.Context, tenantID uint64, email string) error
	ResetPassword(ctx context.Context, rawToken, newPassword, confirmPassword string) error
}

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// TokenPair is a freshly issued access + refresh credential set.
type TokenPair struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

type AuthResult struct {
	User   *model.User
	Tokens TokenPair
}

type authService struct {
	users   repository.UserRepository
	refresh repository.RefreshTokenRepository
	resets  repository.PasswordResetRepository
	mailer  Mailer
	log     zerolog.Logger

	secret     string
	refreshTTL time.Duration
	bcryptCost int
	now        func() time.Time
}

func NewAuthService(
	users repository.UserRepository,
	refresh repository.RefreshTokenRepository,
	resets repository.PasswordResetRepository,
	mailer Mailer,
	log zerolog.Logger,
	secret string,
	refreshTTLDays, bcryptCost int,
) AuthService {
	return &authService{
		users:      users,
		refresh:    refresh,
		resets:     resets,
		mailer:     mailer,
		log:        log,
		secret:     secret,
		refreshTTL: time.Duration(refreshTTLDays) * 24 * time.Hour,
		bcryptCost: bcryptCost,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Register creates the user inside the active tenant and starts a session.
// Email uniqueness is per tenant: the same address may exist once under
// every tenant. Only the bcrypt hash of the password is ever stored.
func (s *authService) Register(ctx context.Context, tenantID uint64, in RegisterInput) (*AuthResult, error) {
	email := normalizeEmail(in.Email)
	if _, err := s.users.GetByEmail(ctx, tenantID, email); err == nil {
		return nil, ErrEmailAlreadyExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	u := &model.User{
		TenantID:     tenantID,
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Role:         model.RoleMember,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}

	pair, err := s.issuePair(ctx, u)
	if err != nil {
		return nil, err
	}
	s.log.Info().Uint64("user_id", u.ID).Uint64("tenant_id", tenantID).Msg("user registered")
	return &AuthResult{User: u, Tokens: pair}, nil
}

// Login verifies credentials and starts a session. A missing user, a
// disabled account and a wrong password all fail with the same error so the
// response never reveals which check tripped.
func (s *authService) Login(ctx context.Context, tenantID uint64, email, password string) (*AuthResult, error) {
	u, err := s.users.GetByEmail(ctx, tenantID, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !u.IsActive || !auth.VerifyPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	if err := s.users.TouchLastLogin(ctx, u.ID); err != nil {
		s.log.Warn().Err(err).Uint64("user_id", u.ID).Msg("last-login update failed")
	}
	pair, err := s.issuePair(ctx, u)
	if err != nil {
		return nil, err
	}
	s.log.Info().Uint64("user_id", u.ID).Uint64("tenant_id", u.TenantID).Msg("user logged in")
	return &AuthResult{User: u, Tokens: pair}, nil
}

// Refresh exchanges a refresh token for a brand-new pair. The presented
// token is revoked in the same transaction that records its replacement, so
// two concurrent exchanges of one token produce exactly one success; the
// loser sees ErrTokenInactive. The old string is permanently dead either
// way.
func (s *authService) Refresh(ctx context.Context, rawRefreshToken string) (*AuthResult, error) {
	hash := auth.HashOpaque(strings.TrimSpace(rawRefreshToken))
	rec, err := s.refresh.FindByToken(ctx, hash)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}
	if !rec.ActiveAt(s.now()) {
		return nil, ErrTokenInactive
	}

	u, err := s.users.GetByID(ctx, rec.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}
	if !u.IsActive {
		return nil, ErrTokenInactive
	}

	access, err := auth.NewAccessToken(s.secret, u)
	if err != nil {
		return nil, err
	}
	newRaw, err := auth.NewOpaqueToken()
	if err != nil {
		return nil, err
	}
	exp := s.now().Add(s.refreshTTL)
	if err := s.refresh.Rotate(ctx, hash, u.ID, u.TenantID, auth.HashOpaque(newRaw), exp); err != nil {
		if errors.Is(err, repository.ErrTokenInactive) {
			return nil, ErrTokenInactive
		}
		return nil, err
	}
	return &AuthResult{User: u, Tokens: TokenPair{
		AccessToken:      access.Token,
		AccessExpiresAt:  access.ExpiresAt,
		RefreshToken:     newRaw,
		RefreshExpiresAt: exp,
	}}, nil
}

// Logout revokes every refresh token the user holds, across all devices.
func (s *authService) Logout(ctx context.Context, userID uint64) error {
	if err := s.refresh.RevokeAllForUser(ctx, userID); err != nil {
		return err
	}
	s.log.Info().Uint64("user_id", userID).Msg("user logged out everywhere")
	return nil
}

// ForgotPassword reports success whether or not the address exists, so the
// endpoint cannot be used to enumerate accounts. When the user does exist a
// fresh single-use token is stored and handed to the mailer; older
// outstanding tokens stay valid (see DESIGN.md).
func (s *authService) ForgotPassword(ctx context.Context, tenantID uint64, email string) error {
	u, err := s.users.GetByEmail(ctx, tenantID, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}
	raw, err := auth.NewOpaqueToken()
	if err != nil {
		return err
	}
	if err := s.resets.Create(ctx, u.ID, auth.HashOpaque(raw), s.now().Add(resetTokenTTL)); err != nil {
		return err
	}
	if err := s.mailer.SendResetEmail(ctx, u.Email, raw); err != nil {
		// token stays redeemable; the user can request another email
		s.log.Error().Err(err).Uint64("user_id", u.ID).Msg("reset email dispatch failed")
	}
	return nil
}

// ResetPassword redeems a reset token. The token is burned on success and
// every refresh token the user holds is revoked, forcing re-login on all
// devices after a password change.
func (s *authService) ResetPassword(ctx context.Context, rawToken, newPassword, confirmPassword string) error {
	if newPassword != confirmPassword {
		return ErrPasswordMismatch
	}
	rec, err := s.resets.FindByToken(ctx, auth.HashOpaque(strings.TrimSpace(rawToken)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidResetToken
		}
		return err
	}
	if !rec.ValidAt(s.now()) {
		return ErrInvalidResetToken
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, rec.UserID, hash); err != nil {
		return err
	}
	if err := s.resets.MarkUsed(ctx, rec.ID); err != nil {
		return err
	}
	if err := s.refresh.RevokeAllForUser(ctx, rec.UserID); err != nil {
		return err
	}
	s.log.Info().Uint64("user_id", rec.UserID).Msg("password reset, sessions revoked")
	return nil
}

func (s *authService) issuePair(ctx context.Context, u *model.User) (TokenPair, error) {
	access, err := auth.NewAccessToken(s.secret, u)
	if err != nil {
		return TokenPair{}, err
	}
	raw, err := auth.NewOpaqueToken()
	if err != nil {
		return TokenPair{}, err
	}
	exp := s.now().Add(s.refreshTTL)
	if err := s.refresh.Create(ctx, u.ID, u.TenantID, auth.HashOpaque(raw), exp); err != nil {
		return TokenPair{}, err
	}
	return TokenPair{
		AccessToken:      access.Token,
		AccessExpiresAt:  access.ExpiresAt,
		RefreshToken:     raw,
		RefreshExpiresAt: exp,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
