package service

import (
	"errors"
	"fmt"
)

// Error kinds. Callers classify failures with errors.Is against these.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
)

var (
	ErrUserNotFound = fmt.Errorf("user %w", ErrNotFound)
	ErrFoodNotFound = fmt.Errorf("food %w", ErrNotFound)
	ErrEmailTaken   = fmt.Errorf("email already registered: %w", ErrConflict)
	ErrFoodExists   = fmt.Errorf("food already exists: %w", ErrConflict)

	// ErrInvalidToken is returned by token validation only; the guard turns it
	// into ErrUnauthenticated.
	ErrInvalidToken = errors.New("invalid token")
)
