package model

import "time"

// Tenant statuses stored in tenants.status.
const (
	TenantActive    = "ACTIVE"
	TenantSuspended = "SUSPENDED"
	TenantArchived  = "ARCHIVED"
)

// Tenant is the root of the multi-tenancy partition. Every other row in the
// system carries a tenant id and is never visible across tenant boundaries.
type Tenant struct {
	ID           uint64
	Name         string
	Subdomain    string // globally unique
	CustomDomain string // optional, empty when unset
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Active reports whether the tenant may serve traffic. Resolution treats a
// non-active tenant exactly like a missing one.
func (t Tenant) Active() bool { return t.Status == TenantActive }
