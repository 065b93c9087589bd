package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// AttemptStatus is the resulting status recorded with each attempt.
type AttemptStatus string

// Possible attempt status values.
const (
	AttemptStatusMastered    AttemptStatus = "MASTERED"
	AttemptStatusNeedsReview AttemptStatus = "NEEDS_REVIEW"
)

// Attempt-specific validation errors
var (
	ErrAttemptIDEmpty      = errors.New("attempt ID cannot be empty")
	ErrAttemptUserIDEmpty  = errors.New("attempt user ID cannot be empty")
	ErrAttemptCardIDEmpty  = errors.New("attempt card ID cannot be empty")
	ErrAttemptDeckIDEmpty  = errors.New("attempt deck ID cannot be empty")
	ErrInvalidAttemptState = errors.New("attempt status does not match correctness")
)

// AttemptRecord is an append-only history entry for one answered question.
// Records are never mutated; they are the source of truth for streaks and
// history views, and are removed only by cascade with their card or deck.
type AttemptRecord struct {
	ID        uuid.UUID     `json:"id"`
	UserID    uuid.UUID     `json:"user_id"`
	CardID    uuid.UUID     `json:"card_id"`
	DeckID    uuid.UUID     `json:"deck_id"`
	Answer    string        `json:"answer"`
	Correct   bool          `json:"correct"`
	Status    AttemptStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
}

// NewAttemptRecord creates a history entry for a submitted answer. The status
// is derived from correctness, never supplied by the caller.
func NewAttemptRecord(userID, cardID, deckID uuid.UUID, answer string, correct bool, now time.Time) (*AttemptRecord, error) {
	status := AttemptStatusNeedsReview
	if correct {
		status = AttemptStatusMastered
	}

	record := &AttemptRecord{
		ID:        uuid.New(),
		UserID:    userID,
		CardID:    cardID,
		DeckID:    deckID,
		Answer:    answer,
		Correct:   correct,
		Status:    status,
		CreatedAt: now,
	}

	if err := record.Validate(); err != nil {
		return nil, err
	}

	return record, nil
}

// Validate checks if the AttemptRecord has valid data.
func (a *AttemptRecord) Validate() error {
	if a.ID == uuid.Nil {
		return ErrAttemptIDEmpty
	}

	if a.UserID == uuid.Nil {
		return ErrAttemptUserIDEmpty
	}

	if a.CardID == uuid.Nil {
		return ErrAttemptCardIDEmpty
	}

	if a.DeckID == uuid.Nil {
		return ErrAttemptDeckIDEmpty
	}

	if a.Correct != (a.Status == AttemptStatusMastered) {
		return ErrInvalidAttemptState
	}

	return nil
}
