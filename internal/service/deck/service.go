// Package deck implements deck and card management: CRUD with ownership
// checks plus AI-assisted card generation.
package deck

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/quizora/quizora-api/internal/domain"
	"github.com/quizora/quizora-api/internal/generation"
	"github.com/quizora/quizora-api/internal/platform/logger"
	"github.com/quizora/quizora-api/internal/store"
)

// DeckInput carries the caller-editable fields of a deck.
type DeckInput struct {
	Name        string
	Description string
	Category    string
	IsPublic    bool
}

// CardInput carries the caller-editable fields of a card.
type CardInput struct {
	Question   string
	Answer     string
	ImageURL   string
	AudioURL   string
	Tags       []string
	Difficulty int
}

// Service manages decks and their cards.
type Service struct {
	db        *sql.DB
	decks     store.DeckStore
	cards     store.CardStore
	generator generation.CardGenerator // nil when no model is configured
	logger    *slog.Logger

	// runTx wraps fn in a database transaction. Overridable in tests.
	runTx func(ctx context.Context, fn store.TxFn) error
}

// NewService creates a deck Service. generator may be nil, which disables
// AI card generation.
func NewService(
	db *sql.DB,
	decks store.DeckStore,
	cards store.CardStore,
	generator generation.CardGenerator,
	log *slog.Logger,
) (*Service, error) {
	if db == nil {
		return nil, errors.New("db cannot be nil")
	}
	if decks == nil {
		return nil, errors.New("deck store cannot be nil")
	}
	if cards == nil {
		return nil, errors.New("card store cannot be nil")
	}
	if log == nil {
		return nil, errors.New("logger cannot be nil")
	}
	svc := &Service{
		db:        db,
		decks:     decks,
		cards:     cards,
		generator: generator,
		logger:    log.With(slog.String("component", "deck_service")),
	}
	svc.runTx = func(ctx context.Context, fn store.TxFn) error {
		return store.RunInTransaction(ctx, db, fn)
	}
	return svc, nil
}

// CreateDeck creates a new deck owned by the user.
func (s *Service) CreateDeck(ctx context.Context, userID uuid.UUID, input DeckInput) (*domain.Deck, error) {
	deck, err := domain.NewDeck(userID, input.Name, input.Description, input.Category, input.IsPublic)
	if err != nil {
		return nil, err
	}

	if err := s.decks.Create(ctx, deck); err != nil {
		return nil, err
	}

	logger.FromContextOrDefault(ctx, s.logger).InfoContext(ctx, "deck created",
		slog.String("deck_id", deck.ID.String()),
		slog.String("user_id", userID.String()))

	return deck, nil
}

// GetDeck retrieves a deck the user can read: their own or a public one.
func (s *Service) GetDeck(ctx context.Context, userID, deckID uuid.UUID) (*domain.Deck, error) {
	return s.accessibleDeck(ctx, userID, deckID)
}

// ListDecks retrieves the user's own decks.
func (s *Service) ListDecks(ctx context.Context, userID uuid.UUID) ([]*domain.Deck, error) {
	return s.decks.ListByOwner(ctx, userID)
}

// ListPublicDecks retrieves all public decks.
func (s *Service) ListPublicDecks(ctx context.Context) ([]*domain.Deck, error) {
	return s.decks.ListPublic(ctx)
}

// UpdateDeck modifies a deck the user owns.
func (s *Service) UpdateDeck(ctx context.Context, userID, deckID uuid.UUID, input DeckInput) (*domain.Deck, error) {
	deck, err := s.ownedDeck(ctx, userID, deckID)
	if err != nil {
		return nil, err
	}

	updated := *deck
	updated.Name = input.Name
	updated.Description = input.Description
	updated.Category = input.Category
	updated.IsPublic = input.IsPublic
	updated.Touch()

	if err := s.decks.Update(ctx, &updated); err != nil {
		return nil, mapStoreError(err)
	}

	return &updated, nil
}

// DeleteDeck removes a deck the user owns. Cards, review states, and
// attempt history cascade away with it.
func (s *Service) DeleteDeck(ctx context.Context, userID, deckID uuid.UUID) error {
	if _, err := s.ownedDeck(ctx, userID, deckID); err != nil {
		return err
	}

	if err := s.decks.Delete(ctx, deckID); err != nil {
		return mapStoreError(err)
	}

	logger.FromContextOrDefault(ctx, s.logger).InfoContext(ctx, "deck deleted",
		slog.String("deck_id", deckID.String()))

	return nil
}

// ListCards retrieves the cards of a deck the user can read.
func (s *Service) ListCards(ctx context.Context, userID, deckID uuid.UUID) ([]*domain.Card, error) {
	if _, err := s.accessibleDeck(ctx, userID, deckID); err != nil {
		return nil, err
	}
	return s.cards.ListByDeck(ctx, deckID)
}

// AddCard creates a card in a deck the user owns.
func (s *Service) AddCard(ctx context.Context, userID, deckID uuid.UUID, input CardInput) (*domain.Card, error) {
	if _, err := s.ownedDeck(ctx, userID, deckID); err != nil {
		return nil, err
	}

	card, err := domain.NewCard(deckID, input.Question, input.Answer, input.Difficulty)
	if err != nil {
		return nil, err
	}
	card.ImageURL = input.ImageURL
	card.AudioURL = input.AudioURL
	card.Tags = input.Tags

	if err := s.cards.Create(ctx, card); err != nil {
		return nil, err
	}

	return card, nil
}

// UpdateCard modifies a card in a deck the user owns.
func (s *Service) UpdateCard(ctx context.Context, userID, cardID uuid.UUID, input CardInput) (*domain.Card, error) {
	card, err := s.cards.GetByID(ctx, cardID)
	if err != nil {
		return nil, mapStoreError(err)
	}

	if _, err := s.ownedDeck(ctx, userID, card.DeckID); err != nil {
		return nil, err
	}

	updated := *card
	updated.Question = input.Question
	updated.Answer = input.Answer
	updated.ImageURL = input.ImageURL
	updated.AudioURL = input.AudioURL
	updated.Tags = input.Tags
	updated.Difficulty = input.Difficulty
	updated.Touch()

	if err := updated.Validate(); err != nil {
		return nil, err
	}
	if err := s.cards.Update(ctx, &updated); err != nil {
		return nil, mapStoreError(err)
	}

	return &updated, nil
}

// DeleteCard removes a card from a deck the user owns. Review state and
// attempt history for the card cascade away.
func (s *Service) DeleteCard(ctx context.Context, userID, cardID uuid.UUID) error {
	card, err := s.cards.GetByID(ctx, cardID)
	if err != nil {
		return mapStoreError(err)
	}

	if _, err := s.ownedDeck(ctx, userID, card.DeckID); err != nil {
		return err
	}

	if err := s.cards.Delete(ctx, cardID); err != nil {
		return mapStoreError(err)
	}

	return nil
}

// GenerateCards asks the configured model for cards about a topic and saves
// them atomically into a deck the user owns. The deck's category steers the
// prompt. Returns ErrGenerationUnavailable when no model is configured.
func (s *Service) GenerateCards(ctx context.Context, userID, deckID uuid.UUID, topic string, count int) ([]*domain.Card, error) {
	if s.generator == nil {
		return nil, ErrGenerationUnavailable
	}

	deck, err := s.ownedDeck(ctx, userID, deckID)
	if err != nil {
		return nil, err
	}

	drafts, err := s.generator.GenerateCards(ctx, topic, deck.Category, count)
	if err != nil {
		return nil, err
	}

	cards := make([]*domain.Card, 0, len(drafts))
	for _, draft := range drafts {
		card, err := domain.NewCard(deckID, draft.Question, draft.Answer, draft.Difficulty)
		if err != nil {
			return nil, fmt.Errorf("generated card invalid: %w", err)
		}
		card.Tags = draft.Tags
		card.AIGenerated = true
		cards = append(cards, card)
	}

	err = s.runTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		return s.cards.WithTx(tx).CreateMultiple(ctx, cards)
	})
	if err != nil {
		return nil, err
	}

	logger.FromContextOrDefault(ctx, s.logger).InfoContext(ctx, "cards generated",
		slog.String("deck_id", deckID.String()),
		slog.Int("count", len(cards)))

	return cards, nil
}

// accessibleDeck loads a deck and checks read access (owner or public).
func (s *Service) accessibleDeck(ctx context.Context, userID, deckID uuid.UUID) (*domain.Deck, error) {
	deck, err := s.decks.GetByID(ctx, deckID)
	if err != nil {
		return nil, mapStoreError(err)
	}
	if !deck.AccessibleBy(userID) {
		return nil, ErrNoAccess
	}
	return deck, nil
}

// ownedDeck loads a deck and checks the caller owns it.
func (s *Service) ownedDeck(ctx context.Context, userID, deckID uuid.UUID) (*domain.Deck, error) {
	deck, err := s.decks.GetByID(ctx, deckID)
	if err != nil {
		return nil, mapStoreError(err)
	}
	if deck.UserID != userID {
		return nil, ErrNotOwner
	}
	return deck, nil
}

func mapStoreError(err error) error {
	switch {
	case errors.Is(err, store.ErrDeckNotFound):
		return ErrDeckNotFound
	case errors.Is(err, store.ErrCardNotFound):
		return ErrCardNotFound
	default:
		return err
	}
}
