// Package apperr defines the stable error kinds surfaced by the booking and
// credit engine. Handlers map these to HTTP responses; raw storage errors are
// never returned to clients.
package apperr

import "errors"

var (
	// ErrNotFound covers both genuinely missing resources and resources
	// owned by another studio, so existence is never leaked across tenants.
	ErrNotFound = errors.New("not found")

	ErrForbidden          = errors.New("forbidden")
	ErrAlreadyBooked      = errors.New("member already has an active booking for this session")
	ErrAlreadyDeducted    = errors.New("credit already deducted for this record")
	ErrNoCreditsRemaining = errors.New("no credits remaining")
	ErrInvalidRequest     = errors.New("invalid request")

	// ErrConflict is a lost race at the storage layer (unique constraint or
	// conditional update). Safe for the caller to retry the whole operation.
	ErrConflict = errors.New("conflict")
)
