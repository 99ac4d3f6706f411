package store

import "errors"

// Caller errors: the input was rejected and no write was attempted (or
// the document was left unchanged).
var (
	ErrFlagNotFound    = errors.New("flag not found")
	ErrSegmentNotFound = errors.New("segment not found")
	ErrInvalidInput    = errors.New("invalid input")
)

// ErrConflict indicates the mutation kept losing the conditional write
// to concurrent writers and gave up after the retry budget.
var ErrConflict = errors.New("document write conflict")

// Operation-tagged storage failures. The write may or may not have
// reached the backend; callers must treat the outcome as unknown. The
// original cause is always preserved via errors.Join.
var (
	ErrGetDataFailed       = errors.New("failed to load document")
	ErrPutFlagFailed       = errors.New("failed to put flag")
	ErrUpdateFlagFailed    = errors.New("failed to update flag")
	ErrDeleteFlagFailed    = errors.New("failed to delete flag")
	ErrPutSegmentFailed    = errors.New("failed to put segment")
	ErrDeleteSegmentFailed = errors.New("failed to delete segment")
)

// IsCallerError reports whether err is a rejection of the caller's input
// rather than a storage failure, so transports can map it to a 4xx.
func IsCallerError(err error) bool {
	return errors.Is(err, ErrFlagNotFound) ||
		errors.Is(err, ErrSegmentNotFound) ||
		errors.Is(err, ErrInvalidInput)
}
