package engine

import "errors"

var (
	// ErrInvalidFlag indicates a flag failed validation.
	ErrInvalidFlag = errors.New("invalid feature flag")

	// ErrInvalidValue indicates a flag value with an unknown kind or a
	// result not matching its declared kind.
	ErrInvalidValue = errors.New("invalid flag value")
)
