// Package router wires the middleware chain and route table onto an Echo
// instance. Tenant resolution runs globally; the rate limiter guards only
// the credential endpoints; JWT auth guards the /v1 protected group.
package router

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/iliyamo/site-builder-auth/internal/cache"
	"github.com/iliyamo/site-builder-auth/internal/config"
	"github.com/iliyamo/site-builder-auth/internal/handler"
	"github.com/iliyamo/site-builder-auth/internal/middleware"
	"github.com/iliyamo/site-builder-auth/internal/model"
	"github.com/iliyamo/site-builder-auth/internal/repository"
	"github.com/iliyamo/site-builder-auth/internal/service"
)

// Deps carries everything the route table needs.
type Deps struct {
	Cfg     *config.Config
	RateCfg config.RateLimitConfig
	Auth    service.AuthService
	Tenants repository.TenantRepository
	Counter cache.Counter
	Log     zerolog.Logger
}

// RegisterRoutes mounts every endpoint on e.
func RegisterRoutes(e *echo.Echo, d Deps) {
	e.Validator = handler.NewValidator()

	e.Use(echomw.Recover())
	e.Use(middleware.ResolveTenant(d.Tenants, d.Cfg.BaseDomain, d.Cfg.DefaultTenant, d.Cfg.IsProd()))

	e.GET("/healthz", handler.Health)

	ah := handler.NewAuthHandler(d.Auth)

	limited := middleware.RateLimitAuth(d.RateCfg, d.Counter, d.Log)

	v1 := e.Group("/v1")
	v1.GET("/tenant", handler.CurrentTenant)

	auth := v1.Group("/auth")
	auth.POST("/register", ah.Register, limited)
	auth.POST("/login", ah.Login, limited)
	auth.POST("/refresh", ah.Refresh, limited)
	auth.POST("/forgot-password", ah.ForgotPassword)
	auth.POST("/reset-password", ah.ResetPassword)

	protected := v1.Group("")
	protected.Use(middleware.JWTAuth(d.Cfg.JWTSecret))
	protected.Use(middleware.RequireRole(model.RoleMember, model.RoleAdmin, model.RoleOwner))
	protected.GET("/me", ah.Me)
	protected.POST("/logout", ah.Logout)
}
