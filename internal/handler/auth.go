// Package handler contains the HTTP endpoints and their request/response
// DTOs. Handlers stay thin: bind, validate, read the resolved tenant, call
// the service and translate its error taxonomy to a status code.
package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/site-builder-auth/internal/middleware"
	"github.com/iliyamo/site-builder-auth/internal/model"
	"github.com/iliyamo/site-builder-auth/internal/service"
)

const dbTimeout = 5 * time.Second

// AuthHandler bundles the auth endpoints around the AuthService.
type AuthHandler struct {
	Auth service.AuthService
}

func NewAuthHandler(a service.AuthService) *AuthHandler { return &AuthHandler{Auth: a} }

// ----- DTOs -----

type registerReq struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
}
type loginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
type refreshReq struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}
type forgotPasswordReq struct {
	Email string `json:"email" validate:"required,email"`
}
type resetPasswordReq struct {
	Token           string `json:"token" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}
type userPart struct {
	ID        uint64 `json:"id"`
	TenantID  uint64 `json:"tenant_id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}
type authResp struct {
	User    userPart  `json:"user"`
	Access  tokenPart `json:"access"`
	Refresh tokenPart `json:"refresh"`
}

func newAuthResp(res *service.AuthResult) authResp {
	return authResp{
		User: userPart{
			ID:        res.User.ID,
			TenantID:  res.User.TenantID,
			Email:     res.User.Email,
			FirstName: res.User.FirstName,
			LastName:  res.User.LastName,
			Role:      res.User.Role,
		},
		Access:  tokenPart{Token: res.Tokens.AccessToken, Expires: res.Tokens.AccessExpiresAt},
		Refresh: tokenPart{Token: res.Tokens.RefreshToken, Expires: res.Tokens.RefreshExpiresAt},
	}
}

// ----- endpoints -----

// Register creates a user in the active tenant and returns tokens
// immediately.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	tenant := activeTenant(c)
	if tenant == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "tenant required"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	res, err := h.Auth.Register(ctx, tenant.ID, service.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return writeAuthError(c, err)
	}
	return c.JSON(http.StatusCreated, newAuthResp(res))
}

// Login verifies credentials within the active tenant and returns a new
// token pair.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	tenant := activeTenant(c)
	if tenant == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "tenant required"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	res, err := h.Auth.Login(ctx, tenant.ID, req.Email, req.Password)
	if err != nil {
		return writeAuthError(c, err)
	}
	return c.JSON(http.StatusOK, newAuthResp(res))
}

// Refresh rotates a refresh token: the presented token is revoked and a
// brand-new pair is issued in its place.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	res, err := h.Auth.Refresh(ctx, req.RefreshToken)
	if err != nil {
		return writeAuthError(c, err)
	}
	return c.JSON(http.StatusOK, newAuthResp(res))
}

// Logout revokes every refresh token of the authenticated user, on all
// devices, not just the calling one.
func (h *AuthHandler) Logout(c echo.Context) error {
	uid, ok := c.Get(middleware.UserIDKey).(uint64)
	if !ok || uid == 0 {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if err := h.Auth.Logout(ctx, uid); err != nil {
		return writeAuthError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ForgotPassword answers identically whether or not the address exists so
// the endpoint cannot be used to probe for accounts.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	tenant := activeTenant(c)
	if tenant == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "tenant required"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if err := h.Auth.ForgotPassword(ctx, tenant.ID, req.Email); err != nil {
		return writeAuthError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "If that account exists, a reset email has been sent",
	})
}

// ResetPassword redeems a single-use reset token and sets the new password.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if err := h.Auth.ResetPassword(ctx, req.Token, req.NewPassword, req.ConfirmPassword); err != nil {
		return writeAuthError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "password updated"})
}

// Me echoes the verified identity claims, mainly for clients checking that
// a stored access token still works.
func (h *AuthHandler) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"user_id":   c.Get(middleware.UserIDKey),
		"tenant_id": c.Get(middleware.TenantIDKey),
		"email":     c.Get(middleware.EmailKey),
		"role":      c.Get(middleware.RoleKey),
	})
}

// ----- helpers -----

func reqContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

func activeTenant(c echo.Context) *model.Tenant {
	if t, ok := c.Get(middleware.TenantKey).(*model.Tenant); ok {
		return t
	}
	return nil
}

// writeAuthError maps the service taxonomy to status codes. Anything
// outside the taxonomy is a store/infrastructure failure and surfaces as a
// generic 500; the detail goes to the logs via Echo, never to the client.
func writeAuthError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrEmailAlreadyExists):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidRefreshToken),
		errors.Is(err, service.ErrTokenInactive):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrPasswordMismatch),
		errors.Is(err, service.ErrInvalidResetToken):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	default:
		c.Logger().Error(err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
