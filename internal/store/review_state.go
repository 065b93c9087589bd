package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/quizora/quizora-api/internal/domain"
)

// ReviewStateStore defines the interface for per-(user, card) review state
// persistence.
type ReviewStateStore interface {
	// Get retrieves the review state for a (user, card) pair. Absence is
	// not an error: the returned lookup reports whether a stored state was
	// found or a fresh default should be used.
	Get(ctx context.Context, userID, cardID uuid.UUID) (domain.ReviewStateLookup, error)

	// EnsureDefault inserts a fresh default state for the (user, card)
	// pair if no row exists yet, leaving an existing row untouched. A
	// locking read on an absent row locks nothing, so callers that need
	// serialization must materialize the row first. Must be called within
	// a transaction.
	EnsureDefault(ctx context.Context, userID, cardID uuid.UUID, now time.Time) error

	// GetForUpdate behaves like Get but locks any existing row with
	// SELECT FOR UPDATE. Concurrent answer submissions for the same
	// (user, card) pair serialize on this lock so no attempt's effect on
	// the state is lost. Must be called within a transaction.
	GetForUpdate(ctx context.Context, userID, cardID uuid.UUID) (domain.ReviewStateLookup, error)

	// Upsert writes the full review state, inserting or replacing the row
	// for its (user, card) pair.
	Upsert(ctx context.Context, state *domain.ReviewState) error

	// ListByUser retrieves all review states of a user.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.ReviewState, error)

	// ListByUserAndDeck retrieves the user's review states for all cards
	// of the given deck.
	ListByUserAndDeck(ctx context.Context, userID, deckID uuid.UUID) ([]*domain.ReviewState, error)

	// WithTx returns a ReviewStateStore bound to the given transaction.
	WithTx(tx *sql.Tx) ReviewStateStore
}
