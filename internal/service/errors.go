package service

import (
	"errors"
	"fmt"
)

// Domain errors returned by AuthService. The HTTP layer maps them to status
// codes; everything else is an internal fault.
var (
	ErrValidation         = errors.New("validation failed")
	ErrDuplicateEmail     = fmt.Errorf("%w: email already registered", ErrValidation)
	ErrInvalidRole        = fmt.Errorf("%w: role must be user or admin", ErrValidation)
	ErrEmptyEmail         = fmt.Errorf("%w: email must not be empty", ErrValidation)
	ErrEmptyUsername      = fmt.Errorf("%w: username must not be empty", ErrValidation)
	ErrEmptyPassword      = fmt.Errorf("%w: password must not be empty", ErrValidation)
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrUnauthorized       = errors.New("could not validate credentials")
	ErrForbidden          = errors.New("access denied: admin only")
	ErrNotFound           = errors.New("user not found")
)
