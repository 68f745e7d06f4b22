package model

import "time"

// Role values stored in users.role.
const (
	RoleMember = "MEMBER"
	RoleAdmin  = "ADMIN"
	RoleOwner  = "OWNER"
)

// User mirrors the `users` table. Email is unique per tenant, not globally:
// the same address may register once under every tenant. Accounts are never
// hard-deleted; IsActive soft-disables them.
type User struct {
	ID            uint64
	TenantID      uint64
	Email         string
	PasswordHash  string
	FirstName     string
	LastName      string
	Role          string
	IsActive      bool
	EmailVerified bool
	LastLoginAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
