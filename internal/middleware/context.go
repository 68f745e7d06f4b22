// Package middleware provides the request-processing chain: tenant
// resolution, rate limiting on credential endpoints, bearer-token
// authentication and role enforcement.
package middleware

import (
	"context"

	"github.com/iliyamo/site-builder-auth/internal/model"
)

type ctxKey string

const tenantCtxKey ctxKey = "active_tenant"

// Echo context keys populated by the chain. JWTAuth sets the identity keys
// from verified claims; ResolveTenant sets TenantKey.
const (
	TenantKey   = "tenant"
	UserIDKey   = "user_id"
	TenantIDKey = "tenant_id"
	RoleKey     = "role"
	EmailKey    = "email"
)

// WithTenant attaches the resolved tenant to a request context. Per-request
// context values are the only tenant state there is; nothing is ever stored
// globally.
func WithTenant(ctx context.Context, t *model.Tenant) context.Context {
	return context.WithValue(ctx, tenantCtxKey, t)
}

// TenantFrom returns the active tenant for the request, or nil when
// resolution found none.
func TenantFrom(ctx context.Context) *model.Tenant {
	t, _ := ctx.Value(tenantCtxKey).(*model.Tenant)
	return t
}
