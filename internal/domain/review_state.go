package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Defaults for a review state that has never been reviewed.
const (
	DefaultEaseFactor = 2.5
	MinEaseFactor     = 1.3
	DefaultInterval   = 1
)

// Common validation errors for ReviewState
var (
	ErrEmptyStateUserID    = errors.New("review state user ID cannot be empty")
	ErrEmptyStateCardID    = errors.New("review state card ID cannot be empty")
	ErrInvalidInterval     = errors.New("interval must be at least 1 day")
	ErrInvalidEaseFactor   = errors.New("ease factor must be at least 1.3")
	ErrInvalidAttemptCount = errors.New("correct attempts cannot exceed total attempts")
)

// ReviewState tracks a user's spaced repetition state for a specific card.
// There is at most one state per (user, card) pair; it is created lazily on
// the first attempt and mutated only through the srs transition function
// (scheduling fields) and the study service (attempt counters).
type ReviewState struct {
	UserID          uuid.UUID  `json:"user_id"`
	CardID          uuid.UUID  `json:"card_id"`
	EaseFactor      float64    `json:"ease_factor"`     // 1.3 lower bound, 2.5 default
	Interval        int        `json:"interval"`        // days until next review, >= 1
	Repetitions     int        `json:"repetitions"`     // consecutive correct answers
	NextReviewAt    time.Time  `json:"next_review_at"`  // when the card is due
	LastReviewedAt  *time.Time `json:"last_reviewed_at"` // nil until first attempt
	IsMastered      bool       `json:"is_mastered"`
	TotalAttempts   int        `json:"total_attempts"`
	CorrectAttempts int        `json:"correct_attempts"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// NewReviewState creates the defined default state for a (user, card) pair:
// ease 2.5, interval 1, no repetitions, due immediately, not mastered.
func NewReviewState(userID, cardID uuid.UUID, now time.Time) *ReviewState {
	return &ReviewState{
		UserID:       userID,
		CardID:       cardID,
		EaseFactor:   DefaultEaseFactor,
		Interval:     DefaultInterval,
		Repetitions:  0,
		NextReviewAt: now,
		IsMastered:   false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Validate checks if the ReviewState has valid data.
// Returns an error if any field fails validation.
func (s *ReviewState) Validate() error {
	if s.UserID == uuid.Nil {
		return ErrEmptyStateUserID
	}

	if s.CardID == uuid.Nil {
		return ErrEmptyStateCardID
	}

	if s.Interval < DefaultInterval {
		return ErrInvalidInterval
	}

	if s.EaseFactor < MinEaseFactor {
		return ErrInvalidEaseFactor
	}

	if s.CorrectAttempts > s.TotalAttempts || s.CorrectAttempts < 0 {
		return ErrInvalidAttemptCount
	}

	return nil
}

// Accuracy returns the state's own accuracy as a percentage, 0 when the card
// has never been attempted.
func (s *ReviewState) Accuracy() float64 {
	if s.TotalAttempts == 0 {
		return 0
	}
	return float64(s.CorrectAttempts) / float64(s.TotalAttempts) * 100
}

// DueForReview reports whether the card needs attention at the given time:
// anything not mastered, plus mastered cards whose next review has come due.
func (s *ReviewState) DueForReview(now time.Time) bool {
	return !s.IsMastered || !s.NextReviewAt.After(now)
}

// ReviewStateLookup is the result of loading a (user, card) review state:
// either a stored state or the defined default. Absence is a valid state,
// not an error, so persistence misses never leak into the scheduler.
type ReviewStateLookup struct {
	state *ReviewState
	found bool
}

// FoundState wraps a state loaded from the store.
func FoundState(state *ReviewState) ReviewStateLookup {
	return ReviewStateLookup{state: state, found: true}
}

// DefaultState produces a lookup holding the default state for the pair.
func DefaultState(userID, cardID uuid.UUID, now time.Time) ReviewStateLookup {
	return ReviewStateLookup{state: NewReviewState(userID, cardID, now)}
}

// State returns the underlying review state, stored or default.
func (l ReviewStateLookup) State() *ReviewState {
	return l.state
}

// Found reports whether the state came from the store. Callers use this to
// decide between insert and update when persisting a transition.
func (l ReviewStateLookup) Found() bool {
	return l.found
}
