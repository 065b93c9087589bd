package api

import (
	"errors"
	"net/http"

	"github.com/quizora/quizora-api/internal/generation"
	"github.com/quizora/quizora-api/internal/quiz"
	"github.com/quizora/quizora-api/internal/service/auth"
	"github.com/quizora/quizora-api/internal/service/deck"
	"github.com/quizora/quizora-api/internal/service/stats"
	"github.com/quizora/quizora-api/internal/service/study"
	"github.com/quizora/quizora-api/internal/store"
)

// MapErrorToStatusCode maps service-layer errors to HTTP status codes so
// handlers never leak internal error types to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized

	// Authorization
	case errors.Is(err, deck.ErrNotOwner),
		errors.Is(err, deck.ErrNoAccess),
		errors.Is(err, study.ErrNoAccess),
		errors.Is(err, stats.ErrNoAccess):
		return http.StatusForbidden

	// Not found
	case errors.Is(err, deck.ErrDeckNotFound),
		errors.Is(err, deck.ErrCardNotFound),
		errors.Is(err, study.ErrDeckNotFound),
		errors.Is(err, study.ErrCardNotFound),
		errors.Is(err, stats.ErrDeckNotFound),
		errors.Is(err, stats.ErrNoProgress),
		errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, store.ErrAnalyticsNotFound):
		return http.StatusNotFound

	// Conflicts
	case errors.Is(err, store.ErrEmailExists):
		return http.StatusConflict

	// Bad requests
	case errors.Is(err, quiz.ErrEmptyDeck),
		errors.Is(err, study.ErrCardNotInDeck),
		errors.Is(err, study.ErrEmptyAnswer),
		errors.Is(err, generation.ErrInvalidCount),
		errors.Is(err, generation.ErrEmptyPrompt),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Feature disabled by configuration
	case errors.Is(err, deck.ErrGenerationUnavailable):
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a user-facing message for err without
// exposing internal details.
func GetSafeErrorMessage(err error) string {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Invalid credentials"
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid token"

	case errors.Is(err, deck.ErrNotOwner):
		return "You do not own this deck"
	case errors.Is(err, deck.ErrNoAccess),
		errors.Is(err, study.ErrNoAccess),
		errors.Is(err, stats.ErrNoAccess):
		return "You do not have access to this deck"

	case errors.Is(err, deck.ErrDeckNotFound),
		errors.Is(err, study.ErrDeckNotFound),
		errors.Is(err, stats.ErrDeckNotFound):
		return "Deck not found"
	case errors.Is(err, deck.ErrCardNotFound),
		errors.Is(err, study.ErrCardNotFound):
		return "Card not found"
	case errors.Is(err, stats.ErrNoProgress):
		return "No progress data found"
	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"
	case errors.Is(err, store.ErrAnalyticsNotFound):
		return "Analytics not found"

	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"

	case errors.Is(err, quiz.ErrEmptyDeck):
		return "Deck has no cards"
	case errors.Is(err, study.ErrCardNotInDeck):
		return "Card does not belong to this deck"
	case errors.Is(err, study.ErrEmptyAnswer):
		return "Answer cannot be empty"
	case errors.Is(err, generation.ErrInvalidCount):
		return "Invalid card count"
	case errors.Is(err, generation.ErrEmptyPrompt):
		return "Topic cannot be empty"

	case errors.Is(err, deck.ErrGenerationUnavailable):
		return "Card generation is not available"

	default:
		return "An unexpected error occurred"
	}
}

// RespondServiceError maps err and writes the sanitized response, logging
// the underlying error.
func RespondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	respondError(w, r, status, message, err)
}
