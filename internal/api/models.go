package api

import (
	"time"

	"github.com/google/uuid"
)

// RegisterRequest is the payload for user registration.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest is the payload for user login.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest is the payload for token refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// AuthResponse is returned by register, login, and refresh.
type AuthResponse struct {
	UserID       uuid.UUID `json:"user_id,omitempty"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
}

// DeckRequest is the payload for creating or updating a deck.
type DeckRequest struct {
	Name        string `json:"name"        validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
	Category    string `json:"category"    validate:"required,max=50"`
	IsPublic    bool   `json:"isPublic"`
}

// CardRequest is the payload for creating or updating a card.
type CardRequest struct {
	Question   string   `json:"question"   validate:"required"`
	Answer     string   `json:"answer"     validate:"required"`
	ImageURL   string   `json:"imageUrl"   validate:"omitempty,url"`
	AudioURL   string   `json:"audioUrl"   validate:"omitempty,url"`
	Tags       []string `json:"tags"`
	Difficulty int      `json:"difficulty" validate:"min=1,max=5"`
}

// GenerateCardsRequest is the payload for AI card generation.
type GenerateCardsRequest struct {
	Topic string `json:"topic" validate:"required,max=200"`
	Count int    `json:"count" validate:"required,min=1,max=20"`
}

// SubmitAnswerRequest is the payload for answering a quiz question.
type SubmitAnswerRequest struct {
	CardID         uuid.UUID `json:"cardId"         validate:"required"`
	SelectedAnswer string    `json:"selectedAnswer" validate:"required"`
	ResponseTimeMs int       `json:"responseTimeMs" validate:"min=0"`
}

// HistoryEntry is one row of the attempt history listing.
type HistoryEntry struct {
	ID        uuid.UUID `json:"id"`
	CardID    uuid.UUID `json:"cardId"`
	DeckID    uuid.UUID `json:"deckId"`
	Answer    string    `json:"answer"`
	IsCorrect bool      `json:"isCorrect"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}
