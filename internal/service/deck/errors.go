package deck

import "errors"

// Common deck service errors
var (
	// ErrDeckNotFound indicates the requested deck does not exist.
	ErrDeckNotFound = errors.New("deck not found")

	// ErrCardNotFound indicates the requested card does not exist.
	ErrCardNotFound = errors.New("card not found")

	// ErrNotOwner indicates the caller does not own the deck and the
	// operation requires ownership.
	ErrNotOwner = errors.New("deck not owned by caller")

	// ErrNoAccess indicates the deck is private and not owned by the
	// caller.
	ErrNoAccess = errors.New("deck not accessible by caller")

	// ErrGenerationUnavailable indicates AI card generation was requested
	// but no generative model is configured.
	ErrGenerationUnavailable = errors.New("card generation is not available")
)
