// Package repository defines the store contracts consumed by the service
// layer, along with sentinel errors shared by every implementation. Higher
// layers match these with errors.Is and translate them into their own
// taxonomy; raw driver errors never cross the repository boundary.
package repository

import "errors"

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// ErrEmailExists signals a per-tenant unique email violation on insert.
var ErrEmailExists = errors.New("email already exists")

// ErrTokenInactive is returned by Rotate when the presented refresh token
// was revoked or expired between lookup and exchange, which is exactly what
// the loser of a double-refresh race observes.
var ErrTokenInactive = errors.New("refresh token inactive")
