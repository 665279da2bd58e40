// Package repository defines the user store and the error values shared by
// its implementations. These sentinel values allow higher layers such as
// the service to distinguish between failure scenarios without knowing
// which backend produced them.
package repository

import "errors"

// ErrNotFound is returned when no user matches the lookup. The service
// translates it into a 404, or into a 401 when it happens during
// authentication.
var ErrNotFound = errors.New("user not found")

// ErrEmailExists is returned when an insert or update would violate the
// unique email constraint.
var ErrEmailExists = errors.New("email already exists")
