package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/site-builder-auth/internal/auth"
	"github.com/iliyamo/site-builder-auth/internal/model"
	"github.com/iliyamo/site-builder-auth/internal/repository"
)

// TenantHeader is the development/testing override for tenant selection.
const TenantHeader = "X-Tenant-Id"

// ResolveTenant determines the active tenant for every request. Sources are
// tried in a fixed order and the first Active match wins:
//
//  1. X-Tenant-Id header, looked up as subdomain then custom domain
//  2. tenant_id claim of a Bearer token, parsed without verifying the
//     signature (advisory only; verification belongs to JWTAuth)
//  3. leading host label as subdomain when the host is under baseDomain
//  4. outside production, the configured default tenant
//
// A suspended or archived candidate counts as not found and the chain
// continues. When nothing matches the request proceeds with no tenant in
// context and handlers that need one reject it themselves; resolution never
// manufactures a tenant.
func ResolveTenant(tenants repository.TenantRepository, baseDomain, defaultTenant string, prod bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			if t := resolveTenant(ctx, c.Request(), tenants, baseDomain, defaultTenant, prod); t != nil {
				c.Set(TenantKey, t)
				c.SetRequest(c.Request().WithContext(WithTenant(ctx, t)))
			}
			return next(c)
		}
	}
}

func resolveTenant(ctx context.Context, r *http.Request, tenants repository.TenantRepository, baseDomain, defaultTenant string, prod bool) *model.Tenant {
	if v := strings.TrimSpace(r.Header.Get(TenantHeader)); v != "" {
		if t := lookupDomain(ctx, tenants, v); t != nil {
			return t
		}
	}
	if raw := bearerToken(r); raw != "" {
		if id := auth.TenantClaim(raw); id != 0 {
			if t, err := tenants.GetByID(ctx, id); err == nil && t.Active() {
				return t
			}
		}
	}
	if sub := subdomain(r.Host, baseDomain); sub != "" {
		if t, err := tenants.GetBySubdomain(ctx, sub); err == nil && t.Active() {
			return t
		}
	}
	if !prod && defaultTenant != "" {
		if t, err := tenants.GetBySubdomain(ctx, defaultTenant); err == nil && t.Active() {
			return t
		}
	}
	return nil
}

// lookupDomain tries a header value first as a subdomain, then as a custom
// domain.
func lookupDomain(ctx context.Context, tenants repository.TenantRepository, v string) *model.Tenant {
	if t, err := tenants.GetBySubdomain(ctx, v); err == nil && t.Active() {
		return t
	}
	if t, err := tenants.GetByCustomDomain(ctx, v); err == nil && t.Active() {
		return t
	}
	return nil
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return h[7:]
	}
	return ""
}

// subdomain returns the leading host label when host sits under base
// ("acme.sitebuilder.app" -> "acme"), otherwise "".
func subdomain(host, base string) string {
	if base == "" {
		return ""
	}
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.ToLower(host)
	suffix := "." + strings.ToLower(base)
	if !strings.HasSuffix(host, suffix) {
		return ""
	}
	labels := strings.Split(strings.TrimSuffix(host, suffix), ".")
	return labels[0]
}
