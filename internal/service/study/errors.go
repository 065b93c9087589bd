package study

import "errors"

// Common study service errors
var (
	// ErrDeckNotFound indicates the requested deck does not exist.
	ErrDeckNotFound = errors.New("deck not found")

	// ErrCardNotFound indicates the requested card does not exist.
	ErrCardNotFound = errors.New("card not found")

	// ErrCardNotInDeck indicates the card exists but belongs to a
	// different deck than the one named in the request.
	ErrCardNotInDeck = errors.New("card does not belong to this deck")

	// ErrNoAccess indicates the deck is private and not owned by the
	// caller.
	ErrNoAccess = errors.New("deck not accessible by caller")

	// ErrEmptyAnswer indicates an answer submission without an answer.
	ErrEmptyAnswer = errors.New("answer cannot be empty")
)
