// Package study implements the core study loop: quiz generation over a
// deck and graded answer submission feeding the review scheduler.
package study

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/quizora/quizora-api/internal/distractor"
	"github.com/quizora/quizora-api/internal/domain"
	"github.com/quizora/quizora-api/internal/domain/srs"
	"github.com/quizora/quizora-api/internal/platform/logger"
	"github.com/quizora/quizora-api/internal/quiz"
	"github.com/quizora/quizora-api/internal/store"
)

// AnswerResult is the outcome of one answer submission.
type AnswerResult struct {
	Correct        bool                `json:"correct"`
	CorrectAnswer  string              `json:"correctAnswer"`
	SelectedAnswer string              `json:"selectedAnswer"`
	Explanation    string              `json:"explanation"`
	QualityScore   int                 `json:"qualityScore"`
	State          *domain.ReviewState `json:"progress"`
	AttemptID      uuid.UUID           `json:"historyId"`
}

// Service drives quizzes and answer grading.
type Service struct {
	db        *sql.DB
	decks     store.DeckStore
	cards     store.CardStore
	states    store.ReviewStateStore
	attempts  store.AttemptStore
	scheduler srs.Service
	source    distractor.Source // nil falls back to deck-drawn distractors
	logger    *slog.Logger

	// newRand builds the shuffle source for one quiz. Injectable so tests
	// get reproducible option orders.
	newRand func() *rand.Rand

	// now is injectable for deterministic scheduling in tests.
	now func() time.Time

	// runTx wraps store.RunInTransaction; injectable so unit tests can
	// run the submission path against in-memory fakes.
	runTx func(ctx context.Context, fn store.TxFn) error
}

// NewService creates a study Service. source may be nil, in which case
// distractors always come from the deck's own cards.
func NewService(
	db *sql.DB,
	decks store.DeckStore,
	cards store.CardStore,
	states store.ReviewStateStore,
	attempts store.AttemptStore,
	scheduler srs.Service,
	source distractor.Source,
	log *slog.Logger,
) (*Service, error) {
	if db == nil {
		return nil, errors.New("db cannot be nil")
	}
	if decks == nil || cards == nil || states == nil || attempts == nil {
		return nil, errors.New("stores cannot be nil")
	}
	if scheduler == nil {
		return nil, errors.New("scheduler cannot be nil")
	}
	if log == nil {
		return nil, errors.New("logger cannot be nil")
	}
	return &Service{
		db:        db,
		decks:     decks,
		cards:     cards,
		states:    states,
		attempts:  attempts,
		scheduler: scheduler,
		source:    source,
		logger:    log.With(slog.String("component", "study_service")),
		newRand:   func() *rand.Rand { return rand.New(rand.NewSource(time.Now().UnixNano())) },
		now:       time.Now,
		runTx: func(ctx context.Context, fn store.TxFn) error {
			return store.RunInTransaction(ctx, db, fn)
		},
	}, nil
}

// GenerateQuiz composes a quiz over every card of the deck, using the
// generative distractor source when one is configured and the deck's own
// answers otherwise. Returns quiz.ErrEmptyDeck for a deck with no cards.
func (s *Service) GenerateQuiz(ctx context.Context, userID, deckID uuid.UUID) (*quiz.Quiz, error) {
	deck, cards, err := s.loadAccessibleDeck(ctx, userID, deckID)
	if err != nil {
		return nil, err
	}

	source := s.source
	if source == nil {
		deckSource, err := distractor.NewDeckSource(cards, s.newRand())
		if err != nil {
			return nil, err
		}
		source = deckSource
	}

	return s.compose(ctx, userID, deck, cards, source)
}

// GenerateOfflineQuiz composes a quiz that needs no upstream model call:
// wrong answers are drawn from the deck's other cards. Meant for clients
// prefetching decks for offline study.
func (s *Service) GenerateOfflineQuiz(ctx context.Context, userID, deckID uuid.UUID) (*quiz.Quiz, error) {
	deck, cards, err := s.loadAccessibleDeck(ctx, userID, deckID)
	if err != nil {
		return nil, err
	}

	source, err := distractor.NewDeckSource(cards, s.newRand())
	if err != nil {
		return nil, err
	}

	return s.compose(ctx, userID, deck, cards, source)
}

func (s *Service) compose(
	ctx context.Context,
	userID uuid.UUID,
	deck *domain.Deck,
	cards []*domain.Card,
	source distractor.Source,
) (*quiz.Quiz, error) {
	states, err := s.states.ListByUserAndDeck(ctx, userID, deck.ID)
	if err != nil {
		return nil, err
	}
	stateByCard := make(map[uuid.UUID]*domain.ReviewState, len(states))
	for _, state := range states {
		stateByCard[state.CardID] = state
	}

	composer, err := quiz.NewComposer(source, s.newRand())
	if err != nil {
		return nil, err
	}

	return composer.Compose(ctx, deck.ID, cards, stateByCard, s.now())
}

// SubmitAnswer grades one answer against a card, advances the card's review
// state through the scheduler, and appends an attempt record. The state
// read-modify-write runs in a transaction with the row locked, so
// concurrent submissions for the same (user, card) pair serialize and every
// attempt lands in the counters. responseTimeMs <= 0 means the client did
// not report a latency.
func (s *Service) SubmitAnswer(
	ctx context.Context,
	userID, deckID, cardID uuid.UUID,
	selectedOption string,
	responseTimeMs int,
) (*AnswerResult, error) {
	if strings.TrimSpace(selectedOption) == "" {
		return nil, ErrEmptyAnswer
	}

	card, err := s.cards.GetByID(ctx, cardID)
	if err != nil {
		if errors.Is(err, store.ErrCardNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, err
	}
	if card.DeckID != deckID {
		return nil, ErrCardNotInDeck
	}

	if _, _, err := s.loadAccessibleDeck(ctx, userID, deckID); err != nil {
		return nil, err
	}

	correct := normalizeAnswer(selectedOption) == normalizeAnswer(card.Answer)
	now := s.now()

	record, err := domain.NewAttemptRecord(userID, cardID, deckID, selectedOption, correct, now)
	if err != nil {
		return nil, err
	}

	var (
		next    *domain.ReviewState
		quality int
	)
	err = s.runTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		states := s.states.WithTx(tx)

		// A FOR UPDATE on an absent row locks nothing, so the row must
		// exist before the locking read or two first attempts would both
		// start from the default state and one would lose its counters.
		if err := states.EnsureDefault(ctx, userID, cardID, now); err != nil {
			return err
		}

		lookup, err := states.GetForUpdate(ctx, userID, cardID)
		if err != nil {
			return err
		}

		next, quality, err = s.scheduler.NextState(lookup.State(), correct, responseTimeMs, now)
		if err != nil {
			return err
		}

		next.TotalAttempts++
		if correct {
			next.CorrectAttempts++
		}

		if err := s.states.WithTx(tx).Upsert(ctx, next); err != nil {
			return err
		}
		return s.attempts.WithTx(tx).Create(ctx, record)
	})
	if err != nil {
		return nil, err
	}

	logger.FromContextOrDefault(ctx, s.logger).DebugContext(ctx, "answer submitted",
		slog.String("user_id", userID.String()),
		slog.String("card_id", cardID.String()),
		slog.Bool("correct", correct),
		slog.Int("quality", quality))

	return &AnswerResult{
		Correct:        correct,
		CorrectAnswer:  card.Answer,
		SelectedAnswer: selectedOption,
		Explanation:    explanation(correct, card.Answer),
		QualityScore:   quality,
		State:          next,
		AttemptID:      record.ID,
	}, nil
}

func (s *Service) loadAccessibleDeck(ctx context.Context, userID, deckID uuid.UUID) (*domain.Deck, []*domain.Card, error) {
	deck, err := s.decks.GetByID(ctx, deckID)
	if err != nil {
		if errors.Is(err, store.ErrDeckNotFound) {
			return nil, nil, ErrDeckNotFound
		}
		return nil, nil, err
	}
	if !deck.AccessibleBy(userID) {
		return nil, nil, ErrNoAccess
	}

	cards, err := s.cards.ListByDeck(ctx, deckID)
	if err != nil {
		return nil, nil, err
	}

	return deck, cards, nil
}

func normalizeAnswer(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func explanation(correct bool, answer string) string {
	if correct {
		return "Correct! Well done!"
	}
	return fmt.Sprintf("Incorrect. The correct answer is: %s", answer)
}
