// Package errs defines the domain sentinel errors handlers map to HTTP
// status codes and channel error events.
package errs

import "errors"

var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrValidation  = errors.New("validation failed")
	ErrRateLimited = errors.New("rate limited")
)
