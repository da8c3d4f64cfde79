// Package apperror holds the sentinel errors shared across services and
// handlers. Pages render handled failures as banners, so errors carry no
// HTTP status of their own.
package apperror

import "errors"

var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")

	// ErrSelfTarget marks a user mutation that would hit the acting admin's
	// own account (delete/deactivate); the target is skipped, never applied.
	ErrSelfTarget = errors.New("you cannot perform this action on your own account")
)
