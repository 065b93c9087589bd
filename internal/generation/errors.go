package generation

import (
	"errors"
	"fmt"
)

// Common generation errors
var (
	// ErrGenerationFailed indicates the upstream model call failed after
	// all retries were exhausted.
	ErrGenerationFailed = errors.New("text generation failed")

	// ErrInvalidResponse indicates the model returned content that could
	// not be parsed into the expected shape.
	ErrInvalidResponse = errors.New("invalid generation response")

	// ErrEmptyPrompt indicates generation was requested with no prompt.
	ErrEmptyPrompt = errors.New("prompt cannot be empty")

	// ErrInvalidCount indicates a card count outside the allowed range.
	ErrInvalidCount = errors.New("card count out of range")
)

// GenerationError wraps an underlying error with context about which
// operation failed.
type GenerationError struct {
	Operation string
	Err       error
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation %s: %v", e.Operation, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As chains.
func (e *GenerationError) Unwrap() error {
	return e.Err
}

// NewGenerationError creates a GenerationError for the given operation.
func NewGenerationError(operation string, err error) *GenerationError {
	return &GenerationError{Operation: operation, Err: err}
}
