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

// CardStore implements the store.CardStore interface using a PostgreSQL
// database as the storage backend. Tags live in a JSONB column.
type CardStore struct {
	db store.DBTX
}

// NewCardStore creates a new PostgreSQL implementation of the CardStore
// interface.
func NewCardStore(db *sql.DB) *CardStore {
	return &CardStore{db: db}
}

// Ensure CardStore implements store.CardStore interface
var _ store.CardStore = (*CardStore)(nil)

// WithTx implements store.CardStore.WithTx
func (s *CardStore) WithTx(tx *sql.Tx) store.CardStore {
	return &CardStore{db: tx}
}

const cardColumns = `id, deck_id, question, answer, image_url, audio_url, tags, difficulty, ai_generated, created_at, updated_at`

const insertCardQuery = `
	INSERT INTO cards (` + cardColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

// Create implements store.CardStore.Create
func (s *CardStore) Create(ctx context.Context, card *domain.Card) error {
	if err := card.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	tags, err := marshalStrings(card.Tags)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, insertCardQuery,
		card.ID, card.DeckID, card.Question, card.Answer, card.ImageURL, card.AudioURL,
		tags, card.Difficulty, card.AIGenerated, card.CreatedAt, card.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create card: %w", err)
	}

	return nil
}

// CreateMultiple implements store.CardStore.CreateMultiple
func (s *CardStore) CreateMultiple(ctx context.Context, cards []*domain.Card) error {
	for _, card := range cards {
		if err := s.Create(ctx, card); err != nil {
			return err
		}
	}
	return nil
}

// GetByID implements store.CardStore.GetByID
func (s *CardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards WHERE id = $1`

	card, err := scanCard(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrCardNotFound
		}
		return nil, err
	}

	return card, nil
}

// ListByDeck implements store.CardStore.ListByDeck
func (s *CardStore) ListByDeck(ctx context.Context, deckID uuid.UUID) ([]*domain.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards WHERE deck_id = $1 ORDER BY created_at`

	rows, err := s.db.QueryContext(ctx, query, deckID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	defer func() { _ = rows.Close() }()

	cards := make([]*domain.Card, 0)
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cards: %w", err)
	}

	return cards, nil
}

// Update implements store.CardStore.Update
func (s *CardStore) Update(ctx context.Context, card *domain.Card) error {
	if err := card.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	tags, err := marshalStrings(card.Tags)
	if err != nil {
		return err
	}

	query := `
		UPDATE cards
		SET question = $2, answer = $3, image_url = $4, audio_url = $5,
		    tags = $6, difficulty = $7, updated_at = $8
		WHERE id = $1`

	result, err := s.db.ExecContext(ctx, query,
		card.ID, card.Question, card.Answer, card.ImageURL, card.AudioURL,
		tags, card.Difficulty, card.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update card: %w", err)
	}

	return requireRowAffected(result, store.ErrCardNotFound)
}

// Delete implements store.CardStore.Delete
func (s *CardStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM cards WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete card: %w", err)
	}

	return requireRowAffected(result, store.ErrCardNotFound)
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner) (*domain.Card, error) {
	var (
		card domain.Card
		tags []byte
	)
	err := row.Scan(
		&card.ID, &card.DeckID, &card.Question, &card.Answer, &card.ImageURL, &card.AudioURL,
		&tags, &card.Difficulty, &card.AIGenerated, &card.CreatedAt, &card.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan card: %w", err)
	}

	card.Tags, err = unmarshalStrings(tags)
	if err != nil {
		return nil, err
	}

	return &card, nil
}
