package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/quizora/quizora-api/internal/domain"
)

// DeckStore defines the interface for deck data persistence.
type DeckStore interface {
	// Create saves a new deck to the store.
	Create(ctx context.Context, deck *domain.Deck) error

	// GetByID retrieves a deck by its unique ID.
	// Returns ErrDeckNotFound if the deck does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Deck, error)

	// ListByOwner retrieves all decks owned by the given user, newest
	// first.
	ListByOwner(ctx context.Context, userID uuid.UUID) ([]*domain.Deck, error)

	// ListPublic retrieves all public decks, newest first.
	ListPublic(ctx context.Context) ([]*domain.Deck, error)

	// Update modifies an existing deck's mutable fields.
	// Returns ErrDeckNotFound if the deck does not exist.
	Update(ctx context.Context, deck *domain.Deck) error

	// Delete removes a deck. Cards, review states, and attempt history
	// cascade at the database level through ON DELETE CASCADE constraints.
	// Returns ErrDeckNotFound if the deck does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a DeckStore bound to the given transaction.
	WithTx(tx *sql.Tx) DeckStore
}
