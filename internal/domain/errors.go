package domain

import (
	"errors"
	"strings"
)

// Sentinel errors shared across layers. The transport layer maps these to
// HTTP status codes.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrUserExists   = errors.New("username or email already registered")
	ErrUserNotFound = errors.New("user not found")
	ErrRateLimited  = errors.New("rate limit exceeded")
	ErrInvalidQuery = errors.New("invalid search query")
)

// ValidationError carries the complete list of violations found in a raw
// ingestion payload. Callers get every problem at once, not just the first.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "invalid document payload: " + strings.Join(e.Violations, "; ")
}

// AsValidationError unwraps err into a *ValidationError if possible.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
