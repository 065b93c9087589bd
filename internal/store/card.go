package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/quizora/quizora-api/internal/domain"
)

// CardStore defines the interface for card data persistence.
type CardStore interface {
	// Create saves a single card to the store.
	Create(ctx context.Context, card *domain.Card) error

	// CreateMultiple saves multiple cards to the store. Run it inside a
	// transaction (via WithTx and store.RunInTransaction) so that either
	// all cards land or none do.
	CreateMultiple(ctx context.Context, cards []*domain.Card) error

	// GetByID retrieves a card by its unique ID.
	// Returns ErrCardNotFound if the card does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error)

	// ListByDeck retrieves all cards of a deck in creation order.
	ListByDeck(ctx context.Context, deckID uuid.UUID) ([]*domain.Card, error)

	// Update modifies an existing card's content fields.
	// Returns ErrCardNotFound if the card does not exist.
	Update(ctx context.Context, card *domain.Card) error

	// Delete removes a card. Review state and attempt history for the
	// card cascade at the database level.
	// Returns ErrCardNotFound if the card does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a CardStore bound to the given transaction.
	WithTx(tx *sql.Tx) CardStore
}
