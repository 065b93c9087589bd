package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/quizora/quizora-api/internal/domain"
	"github.com/quizora/quizora-api/internal/store"
)

// ReviewStateStore implements the store.ReviewStateStore interface using a
// PostgreSQL database as the storage backend. The table is keyed by
// (user_id, card_id).
type ReviewStateStore struct {
	db store.DBTX
}

// NewReviewStateStore creates a new PostgreSQL implementation of the
// ReviewStateStore interface.
func NewReviewStateStore(db *sql.DB) *ReviewStateStore {
	return &ReviewStateStore{db: db}
}

// Ensure ReviewStateStore implements store.ReviewStateStore interface
var _ store.ReviewStateStore = (*ReviewStateStore)(nil)

// WithTx implements store.ReviewStateStore.WithTx
func (s *ReviewStateStore) WithTx(tx *sql.Tx) store.ReviewStateStore {
	return &ReviewStateStore{db: tx}
}

const reviewStateColumns = `user_id, card_id, ease_factor, interval_days, repetitions,
	next_review_at, last_reviewed_at, is_mastered, total_attempts, correct_attempts,
	created_at, updated_at`

// Get implements store.ReviewStateStore.Get
func (s *ReviewStateStore) Get(ctx context.Context, userID, cardID uuid.UUID) (domain.ReviewStateLookup, error) {
	query := `SELECT ` + reviewStateColumns + ` FROM review_states WHERE user_id = $1 AND card_id = $2`
	return s.get(ctx, query, userID, cardID)
}

// EnsureDefault implements store.ReviewStateStore.EnsureDefault. The insert
// takes the unique-key lock when two first attempts race, so the loser
// blocks here and then reads the winner's row.
func (s *ReviewStateStore) EnsureDefault(ctx context.Context, userID, cardID uuid.UUID, now time.Time) error {
	state := domain.NewReviewState(userID, cardID, now)

	query := `
		INSERT INTO review_states (` + reviewStateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (user_id, card_id) DO NOTHING`

	_, err := s.db.ExecContext(ctx, query,
		state.UserID, state.CardID, state.EaseFactor, state.Interval, state.Repetitions,
		state.NextReviewAt, state.LastReviewedAt, state.IsMastered,
		state.TotalAttempts, state.CorrectAttempts, state.CreatedAt, state.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to ensure review state: %w", err)
	}

	return nil
}

// GetForUpdate implements store.ReviewStateStore.GetForUpdate
func (s *ReviewStateStore) GetForUpdate(ctx context.Context, userID, cardID uuid.UUID) (domain.ReviewStateLookup, error) {
	query := `SELECT ` + reviewStateColumns + ` FROM review_states WHERE user_id = $1 AND card_id = $2 FOR UPDATE`
	return s.get(ctx, query, userID, cardID)
}

func (s *ReviewStateStore) get(ctx context.Context, query string, userID, cardID uuid.UUID) (domain.ReviewStateLookup, error) {
	state, err := scanReviewState(s.db.QueryRowContext(ctx, query, userID, cardID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.DefaultState(userID, cardID, time.Now().UTC()), nil
		}
		return domain.ReviewStateLookup{}, err
	}
	return domain.FoundState(state), nil
}

// Upsert implements store.ReviewStateStore.Upsert
func (s *ReviewStateStore) Upsert(ctx context.Context, state *domain.ReviewState) error {
	if err := state.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO review_states (` + reviewStateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (user_id, card_id) DO UPDATE SET
			ease_factor = EXCLUDED.ease_factor,
			interval_days = EXCLUDED.interval_days,
			repetitions = EXCLUDED.repetitions,
			next_review_at = EXCLUDED.next_review_at,
			last_reviewed_at = EXCLUDED.last_reviewed_at,
			is_mastered = EXCLUDED.is_mastered,
			total_attempts = EXCLUDED.total_attempts,
			correct_attempts = EXCLUDED.correct_attempts,
			updated_at = EXCLUDED.updated_at`

	_, err := s.db.ExecContext(ctx, query,
		state.UserID, state.CardID, state.EaseFactor, state.Interval, state.Repetitions,
		state.NextReviewAt, state.LastReviewedAt, state.IsMastered,
		state.TotalAttempts, state.CorrectAttempts, state.CreatedAt, state.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert review state: %w", err)
	}

	return nil
}

// ListByUser implements store.ReviewStateStore.ListByUser
func (s *ReviewStateStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.ReviewState, error) {
	query := `SELECT ` + reviewStateColumns + ` FROM review_states WHERE user_id = $1`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list review states: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanReviewStates(rows)
}

// ListByUserAndDeck implements store.ReviewStateStore.ListByUserAndDeck
func (s *ReviewStateStore) ListByUserAndDeck(ctx context.Context, userID, deckID uuid.UUID) ([]*domain.ReviewState, error) {
	query := `
		SELECT rs.user_id, rs.card_id, rs.ease_factor, rs.interval_days, rs.repetitions,
			rs.next_review_at, rs.last_reviewed_at, rs.is_mastered, rs.total_attempts,
			rs.correct_attempts, rs.created_at, rs.updated_at
		FROM review_states rs
		JOIN cards c ON c.id = rs.card_id
		WHERE rs.user_id = $1 AND c.deck_id = $2`

	rows, err := s.db.QueryContext(ctx, query, userID, deckID)
	if err != nil {
		return nil, fmt.Errorf("failed to list review states: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanReviewStates(rows)
}

func scanReviewState(row rowScanner) (*domain.ReviewState, error) {
	var (
		state        domain.ReviewState
		lastReviewed sql.NullTime
	)
	err := row.Scan(
		&state.UserID, &state.CardID, &state.EaseFactor, &state.Interval, &state.Repetitions,
		&state.NextReviewAt, &lastReviewed, &state.IsMastered,
		&state.TotalAttempts, &state.CorrectAttempts, &state.CreatedAt, &state.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan review state: %w", err)
	}

	if lastReviewed.Valid {
		t := lastReviewed.Time
		state.LastReviewedAt = &t
	}

	return &state, nil
}

func scanReviewStates(rows *sql.Rows) ([]*domain.ReviewState, error) {
	states := make([]*domain.ReviewState, 0)
	for rows.Next() {
		state, err := scanReviewState(rows)
		if err != nil {
			return nil, err
		}
		states = append(states, state)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate review states: %w", err)
	}
	return states, nil
}
