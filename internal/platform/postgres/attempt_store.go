package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/quizora/quizora-api/internal/domain"
	"github.com/quizora/quizora-api/internal/store"
)

// AttemptStore implements the store.AttemptStore interface using a
// PostgreSQL database as the storage backend.
type AttemptStore struct {
	db store.DBTX
}

// NewAttemptStore creates a new PostgreSQL implementation of the
// AttemptStore interface.
func NewAttemptStore(db *sql.DB) *AttemptStore {
	return &AttemptStore{db: db}
}

// Ensure AttemptStore implements store.AttemptStore interface
var _ store.AttemptStore = (*AttemptStore)(nil)

// WithTx implements store.AttemptStore.WithTx
func (s *AttemptStore) WithTx(tx *sql.Tx) store.AttemptStore {
	return &AttemptStore{db: tx}
}

const attemptColumns = `id, user_id, card_id, deck_id, answer, is_correct, status, created_at`

// Create implements store.AttemptStore.Create
func (s *AttemptStore) Create(ctx context.Context, record *domain.AttemptRecord) error {
	if err := record.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO attempts (` + attemptColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := s.db.ExecContext(ctx, query,
		record.ID, record.UserID, record.CardID, record.DeckID,
		record.Answer, record.Correct, record.Status, record.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create attempt: %w", err)
	}

	return nil
}

// ListByUser implements store.AttemptStore.ListByUser
func (s *AttemptStore) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.AttemptRecord, error) {
	query := `SELECT ` + attemptColumns + ` FROM attempts WHERE user_id = $1 ORDER BY created_at DESC`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	return s.list(ctx, query, args...)
}

// ListByUserAndDeck implements store.AttemptStore.ListByUserAndDeck
func (s *AttemptStore) ListByUserAndDeck(ctx context.Context, userID, deckID uuid.UUID, limit int) ([]*domain.AttemptRecord, error) {
	query := `SELECT ` + attemptColumns + ` FROM attempts WHERE user_id = $1 AND deck_id = $2 ORDER BY created_at DESC`
	args := []any{userID, deckID}
	if limit > 0 {
		query += ` LIMIT $3`
		args = append(args, limit)
	}

	return s.list(ctx, query, args...)
}

func (s *AttemptStore) list(ctx context.Context, query string, args ...any) ([]*domain.AttemptRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	records := make([]*domain.AttemptRecord, 0)
	for rows.Next() {
		var record domain.AttemptRecord
		err := rows.Scan(
			&record.ID, &record.UserID, &record.CardID, &record.DeckID,
			&record.Answer, &record.Correct, &record.Status, &record.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attempt: %w", err)
		}
		records = append(records, &record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attempts: %w", err)
	}

	return records, nil
}
