// Package common defines shared constants and sentinel errors used across the
// TermRooms packages. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Command/argument errors (missing or malformed arguments).
	ErrValidation = errors.New("validation error")

	// Role insufficient for the attempted operation.
	ErrAuthorization = errors.New("not authorized")

	// Duplicate username, room-id collision, or similar state conflicts.
	ErrConflict = errors.New("conflict")

	// Room count is at the ceiling; creation refused.
	ErrCapacityExceeded = errors.New("room capacity exceeded")

	// Operation requires a signed-in account.
	ErrUnauthenticated = errors.New("not signed in")

	// Bad username/PIN pair on login.
	ErrCredential = errors.New("invalid credentials")
)
