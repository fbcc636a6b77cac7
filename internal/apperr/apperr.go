// Package apperr holds the error kinds shared by the stores and the HTTP layer.
// Stores wrap one of these with fmt.Errorf("%w: ...") and the HTTP layer maps
// them to status codes with errors.Is.
package apperr

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrInvalid          = errors.New("invalid input")
	ErrInvalidReference = errors.New("invalid reference")
	ErrAlreadyCompleted = errors.New("attempt already completed")
	ErrConflict         = errors.New("conflict")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrUnavailable      = errors.New("store unavailable")
)

