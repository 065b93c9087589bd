package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Difficulty bounds for cards.
const (
	MinDifficulty = 1
	MaxDifficulty = 5
)

// Card-specific validation errors
var (
	// ErrCardIDEmpty is returned when a card ID is empty or nil.
	ErrCardIDEmpty = errors.New("card ID cannot be empty")

	// ErrCardDeckIDEmpty is returned when a card's deck ID is empty or nil.
	ErrCardDeckIDEmpty = errors.New("card deck ID cannot be empty")

	// ErrCardQuestionEmpty is returned when a card's question is empty.
	ErrCardQuestionEmpty = errors.New("card question cannot be empty")

	// ErrCardAnswerEmpty is returned when a card's answer is empty.
	ErrCardAnswerEmpty = errors.New("card answer cannot be empty")

	// ErrCardDifficultyRange is returned when a card's difficulty is outside 1-5.
	ErrCardDifficultyRange = errors.New("card difficulty must be between 1 and 5")
)

// Card is a single question/answer pair in a deck. Content is mutable by the
// deck owner; deleting a card cascades its review state and attempt history.
type Card struct {
	ID          uuid.UUID `json:"id"`
	DeckID      uuid.UUID `json:"deck_id"`
	Question    string    `json:"question"`
	Answer      string    `json:"answer"`
	ImageURL    string    `json:"image_url,omitempty"`
	AudioURL    string    `json:"audio_url,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	Difficulty  int       `json:"difficulty"`
	AIGenerated bool      `json:"ai_generated"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewCard creates a new Card in the given deck. A zero difficulty defaults to
// MinDifficulty. Returns an error if validation fails.
func NewCard(deckID uuid.UUID, question, answer string, difficulty int) (*Card, error) {
	if difficulty == 0 {
		difficulty = MinDifficulty
	}

	now := time.Now().UTC()
	card := &Card{
		ID:         uuid.New(),
		DeckID:     deckID,
		Question:   question,
		Answer:     answer,
		Difficulty: difficulty,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the Card has valid data.
// Returns an error if any field fails validation.
func (c *Card) Validate() error {
	if c.ID == uuid.Nil {
		return ErrCardIDEmpty
	}

	if c.DeckID == uuid.Nil {
		return ErrCardDeckIDEmpty
	}

	if c.Question == "" {
		return ErrCardQuestionEmpty
	}

	if c.Answer == "" {
		return ErrCardAnswerEmpty
	}

	if c.Difficulty < MinDifficulty || c.Difficulty > MaxDifficulty {
		return ErrCardDifficultyRange
	}

	return nil
}

// Touch refreshes the UpdatedAt timestamp.
func (c *Card) Touch() {
	c.UpdatedAt = time.Now().UTC()
}

// ClampDifficulty forces a difficulty value into the valid 1-5 range.
// Out-of-range values from external sources (AI generation, request bodies)
// are clamped rather than rejected.
func ClampDifficulty(d int) int {
	if d < MinDifficulty {
		return MinDifficulty
	}
	if d > MaxDifficulty {
		return MaxDifficulty
	}
	return d
}
