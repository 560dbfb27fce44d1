package service

import "errors"

// Error kinds surfaced to the HTTP layer. Services wrap these with context
// via fmt.Errorf("...: %w", ...) so handlers can map them with errors.Is.
var (
	// ErrNotFound means the referenced entity does not exist (HTTP 404).
	ErrNotFound = errors.New("not found")
	// ErrInvalidState means the operation is not valid for the entity's
	// current lifecycle state (HTTP 400).
	ErrInvalidState = errors.New("invalid state")
	// ErrInvalidInput means the caller supplied an out-of-range value (HTTP 400).
	ErrInvalidInput = errors.New("invalid input")
	// ErrConflict means a uniqueness rule would be violated (HTTP 409).
	ErrConflict = errors.New("conflict")
	// ErrUnauthorized means the caller failed authentication (HTTP 401).
	ErrUnauthorized = errors.New("unauthorized")
)
