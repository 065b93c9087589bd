// Package quiz assembles multiple-choice quizzes from a deck's cards.
package quiz

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// DistractorsPerQuestion is how many wrong answers accompany the correct
// one, giving four options per question.
const DistractorsPerQuestion = 3

// Common quiz errors
var (
	// ErrEmptyDeck indicates quiz composition was requested for a deck
	// with no cards.
	ErrEmptyDeck = errors.New("deck contains no cards")

	// ErrNilSource indicates the composer was built without a distractor
	// source.
	ErrNilSource = errors.New("distractor source cannot be nil")

	// ErrNilRand indicates the composer was built without a random source.
	ErrNilRand = errors.New("random source cannot be nil")
)

// Option is one selectable answer of a question. ID is the display label,
// "A" through "D" in option order.
type Option struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

// Question is one quiz entry derived from a card. It is ephemeral and
// never persisted.
type Question struct {
	CardID       uuid.UUID  `json:"cardId"`
	Prompt       string     `json:"question"`
	Options      []Option   `json:"options"`
	IsMastered   bool       `json:"isMastered"`
	NextReviewAt *time.Time `json:"nextReviewAt,omitempty"`
}

// Statistics summarizes the review standing of the quizzed deck.
type Statistics struct {
	TotalCards    int `json:"totalCards"`
	MasteredCards int `json:"masteredCards"`
	DueForReview  int `json:"dueForReview"`
}

// Quiz is a fully composed quiz ready to serve.
type Quiz struct {
	DeckID     uuid.UUID  `json:"deckId"`
	Questions  []Question `json:"questions"`
	Statistics Statistics `json:"statistics"`
}
