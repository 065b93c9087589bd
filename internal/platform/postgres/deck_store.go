package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/quizora/quizora-api/internal/domain"
	"github.com/quizora/quizora-api/internal/store"
)

// DeckStore implements the store.DeckStore interface using a PostgreSQL
// database as the storage backend.
type DeckStore struct {
	db store.DBTX
}

// NewDeckStore creates a new PostgreSQL implementation of the DeckStore
// interface.
func NewDeckStore(db *sql.DB) *DeckStore {
	return &DeckStore{db: db}
}

// Ensure DeckStore implements store.DeckStore interface
var _ store.DeckStore = (*DeckStore)(nil)

// WithTx implements store.DeckStore.WithTx
func (s *DeckStore) WithTx(tx *sql.Tx) store.DeckStore {
	return &DeckStore{db: tx}
}

const deckColumns = `id, user_id, name, description, category, is_public, created_at, updated_at`

// Create implements store.DeckStore.Create
func (s *DeckStore) Create(ctx context.Context, deck *domain.Deck) error {
	if err := deck.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO decks (` + deckColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := s.db.ExecContext(ctx, query,
		deck.ID, deck.UserID, deck.Name, deck.Description, deck.Category,
		deck.IsPublic, deck.CreatedAt, deck.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create deck: %w", err)
	}

	return nil
}

// GetByID implements store.DeckStore.GetByID
func (s *DeckStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Deck, error) {
	query := `SELECT ` + deckColumns + ` FROM decks WHERE id = $1`

	var deck domain.Deck
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&deck.ID, &deck.UserID, &deck.Name, &deck.Description, &deck.Category,
		&deck.IsPublic, &deck.CreatedAt, &deck.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrDeckNotFound
		}
		return nil, fmt.Errorf("failed to get deck: %w", err)
	}

	return &deck, nil
}

// ListByOwner implements store.DeckStore.ListByOwner
func (s *DeckStore) ListByOwner(ctx context.Context, userID uuid.UUID) ([]*domain.Deck, error) {
	query := `SELECT ` + deckColumns + ` FROM decks WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list decks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanDecks(rows)
}

// ListPublic implements store.DeckStore.ListPublic
func (s *DeckStore) ListPublic(ctx context.Context) ([]*domain.Deck, error) {
	query := `SELECT ` + deckColumns + ` FROM decks WHERE is_public ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list public decks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanDecks(rows)
}

// Update implements store.DeckStore.Update
func (s *DeckStore) Update(ctx context.Context, deck *domain.Deck) error {
	if err := deck.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE decks
		SET name = $2, description = $3, category = $4, is_public = $5, updated_at = $6
		WHERE id = $1`

	result, err := s.db.ExecContext(ctx, query,
		deck.ID, deck.Name, deck.Description, deck.Category, deck.IsPublic, deck.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update deck: %w", err)
	}

	return requireRowAffected(result, store.ErrDeckNotFound)
}

// Delete implements store.DeckStore.Delete
func (s *DeckStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM decks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete deck: %w", err)
	}

	return requireRowAffected(result, store.ErrDeckNotFound)
}

func scanDecks(rows *sql.Rows) ([]*domain.Deck, error) {
	decks := make([]*domain.Deck, 0)
	for rows.Next() {
		var deck domain.Deck
		err := rows.Scan(
			&deck.ID, &deck.UserID, &deck.Name, &deck.Description, &deck.Category,
			&deck.IsPublic, &deck.CreatedAt, &deck.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan deck: %w", err)
		}
		decks = append(decks, &deck)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate decks: %w", err)
	}
	return decks, nil
}

// requireRowAffected converts a zero-row result into the given not-found
// error.
func requireRowAffected(result sql.Result, notFound error) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if affected == 0 {
		return notFound
	}
	return nil
}
