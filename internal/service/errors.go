package service

import "errors"

// Error taxonomy surfaced by AuthService. All of these are recoverable at
// the caller and map to 4xx responses; unexpected store failures propagate
// untouched and become a generic 500. Credential and token-lookup failures
// share deliberately vague messages so the API never reveals which part
// failed.
var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrEmailAlreadyExists  = errors.New("email already exists")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrTokenInactive       = errors.New("refresh token expired or revoked")
	ErrInvalidResetToken   = errors.New("invalid or expired reset token")
	ErrPasswordMismatch    = errors.New("passwords do not match")
)
