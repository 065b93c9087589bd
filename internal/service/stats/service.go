// Package stats serves the aggregate learning views: user and deck
// statistics, weekly progress, attempt history, and category analytics.
// The arithmetic lives in the progress package; this service loads the
// inputs and persists the derived analytics.
package stats

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/quizora/quizora-api/internal/domain"
	"github.com/quizora/quizora-api/internal/platform/logger"
	"github.com/quizora/quizora-api/internal/progress"
	"github.com/quizora/quizora-api/internal/store"
)

// Common stats service errors
var (
	// ErrNoProgress indicates analytics generation was requested before
	// the user answered anything.
	ErrNoProgress = errors.New("no progress data found")

	// ErrDeckNotFound indicates the requested deck does not exist.
	ErrDeckNotFound = errors.New("deck not found")

	// ErrNoAccess indicates the deck is private and not owned by the
	// caller.
	ErrNoAccess = errors.New("deck not accessible by caller")
)

// historyDefaultLimit bounds history queries when the caller does not ask
// for a specific window.
const historyDefaultLimit = 50

// UserStats is the aggregate view of one user's learning activity.
type UserStats struct {
	DailyStreak struct {
		Count        int        `json:"count"`
		LastActivity *time.Time `json:"lastActivity"`
	} `json:"dailyStreak"`
	Decks struct {
		Total   int `json:"total"`
		Public  int `json:"publicDecks"`
		Private int `json:"privateDecks"`
	} `json:"decks"`
	Flashcards struct {
		Total      int `json:"total"`
		Learned    int `json:"learned"`
		InProgress int `json:"inProgress"`
	} `json:"flashcards"`
	Accuracy struct {
		Average        int `json:"average"`
		TotalReviews   int `json:"totalReviews"`
		CorrectReviews int `json:"correctReviews"`
	} `json:"accuracy"`
}

// DeckStats is the review standing of one user against one deck.
type DeckStats struct {
	TotalCards   int        `json:"totalCards"`
	Mastered     int        `json:"mastered"`
	DueForReview int        `json:"dueForReview"`
	NewCards     int        `json:"newCards"`
	Accuracy     int        `json:"accuracy"`
	NextReviewAt *time.Time `json:"nextReviewAt"`
}

// Service computes and serves aggregate statistics.
type Service struct {
	decks     store.DeckStore
	cards     store.CardStore
	states    store.ReviewStateStore
	attempts  store.AttemptStore
	analytics store.AnalyticsStore
	logger    *slog.Logger

	// now is injectable for deterministic window math in tests.
	now func() time.Time
}

// NewService creates a stats Service.
func NewService(
	decks store.DeckStore,
	cards store.CardStore,
	states store.ReviewStateStore,
	attempts store.AttemptStore,
	analytics store.AnalyticsStore,
	log *slog.Logger,
) (*Service, error) {
	if decks == nil || cards == nil || states == nil || attempts == nil || analytics == nil {
		return nil, errors.New("stores cannot be nil")
	}
	if log == nil {
		return nil, errors.New("logger cannot be nil")
	}
	return &Service{
		decks:     decks,
		cards:     cards,
		states:    states,
		attempts:  attempts,
		analytics: analytics,
		logger:    log.With(slog.String("component", "stats_service")),
		now:       time.Now,
	}, nil
}

// UserStats assembles the user's overall statistics.
func (s *Service) UserStats(ctx context.Context, userID uuid.UUID) (*UserStats, error) {
	decks, err := s.decks.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	states, err := s.states.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	history, err := s.attempts.ListByUser(ctx, userID, 0)
	if err != nil {
		return nil, err
	}

	var stats UserStats

	stats.Decks.Total = len(decks)
	totalCards := 0
	for _, deck := range decks {
		if deck.IsPublic {
			stats.Decks.Public++
		} else {
			stats.Decks.Private++
		}
		cards, err := s.cards.ListByDeck(ctx, deck.ID)
		if err != nil {
			return nil, err
		}
		totalCards += len(cards)
	}
	stats.Flashcards.Total = totalCards

	for _, state := range states {
		if state.IsMastered {
			stats.Flashcards.Learned++
		} else {
			stats.Flashcards.InProgress++
		}
		stats.Accuracy.TotalReviews += state.TotalAttempts
		stats.Accuracy.CorrectReviews += state.CorrectAttempts
	}
	stats.Accuracy.Average = progress.Accuracy(states)

	stats.DailyStreak.Count = progress.DailyStreak(history, s.now())
	if len(history) > 0 {
		stats.DailyStreak.LastActivity = &history[0].CreatedAt
	}

	return &stats, nil
}

// DeckStats assembles the user's standing against one deck they can read.
func (s *Service) DeckStats(ctx context.Context, userID, deckID uuid.UUID) (*DeckStats, error) {
	deck, err := s.decks.GetByID(ctx, deckID)
	if err != nil {
		if errors.Is(err, store.ErrDeckNotFound) {
			return nil, ErrDeckNotFound
		}
		return nil, err
	}
	if !deck.AccessibleBy(userID) {
		return nil, ErrNoAccess
	}

	cards, err := s.cards.ListByDeck(ctx, deckID)
	if err != nil {
		return nil, err
	}
	states, err := s.states.ListByUserAndDeck(ctx, userID, deckID)
	if err != nil {
		return nil, err
	}

	stateByCard := make(map[uuid.UUID]*domain.ReviewState, len(states))
	for _, state := range states {
		stateByCard[state.CardID] = state
	}

	now := s.now()
	stats := &DeckStats{TotalCards: len(cards)}
	for _, card := range cards {
		state := stateByCard[card.ID]
		if state == nil {
			// unseen cards are always up for study
			stats.NewCards++
			stats.DueForReview++
			continue
		}
		if state.IsMastered {
			stats.Mastered++
		}
		if state.DueForReview(now) {
			stats.DueForReview++
		}
		if stats.NextReviewAt == nil || state.NextReviewAt.Before(*stats.NextReviewAt) {
			next := state.NextReviewAt
			stats.NextReviewAt = &next
		}
	}
	stats.Accuracy = progress.Accuracy(states)

	return stats, nil
}

// WeeklyProgress returns the trailing-week activity breakdown, always seven
// entries in Monday-first order.
func (s *Service) WeeklyProgress(ctx context.Context, userID uuid.UUID) ([]progress.DayProgress, error) {
	states, err := s.states.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return progress.WeeklyBreakdown(states, s.now()), nil
}

// History returns the user's most recent attempts, newest first. A
// non-positive limit applies the default window, and a non-nil deckID
// restricts the history to that deck.
func (s *Service) History(ctx context.Context, userID uuid.UUID, deckID uuid.UUID, limit int) ([]*domain.AttemptRecord, error) {
	if limit <= 0 {
		limit = historyDefaultLimit
	}
	if deckID != uuid.Nil {
		return s.attempts.ListByUserAndDeck(ctx, userID, deckID, limit)
	}
	return s.attempts.ListByUser(ctx, userID, limit)
}

// GenerateAnalytics recomputes category analytics from the user's full
// review state and upserts one row per category. Returns ErrNoProgress when
// the user has no review state at all.
func (s *Service) GenerateAnalytics(ctx context.Context, userID uuid.UUID) ([]*domain.CategoryAnalytics, error) {
	states, err := s.states.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(states) == 0 {
		return nil, ErrNoProgress
	}

	reviews, err := s.collectReviews(ctx, states)
	if err != nil {
		return nil, err
	}

	reports := progress.CategoryReports(reviews)
	results := make([]*domain.CategoryAnalytics, 0, len(reports))
	for _, report := range reports {
		row, err := domain.NewCategoryAnalytics(
			userID, report.Category, report.Performance, report.WeakAreas, report.Recommendations)
		if err != nil {
			return nil, err
		}
		if err := s.analytics.Upsert(ctx, row); err != nil {
			return nil, err
		}
		results = append(results, row)
	}

	logger.FromContextOrDefault(ctx, s.logger).InfoContext(ctx, "analytics generated",
		slog.String("user_id", userID.String()),
		slog.Int("categories", len(results)))

	return results, nil
}

// Analytics returns the user's stored analytics rows, most recently updated
// first.
func (s *Service) Analytics(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.CategoryAnalytics, error) {
	return s.analytics.ListByUser(ctx, userID, limit)
}

// AnalyticsByCategory returns the stored analytics row for one category.
func (s *Service) AnalyticsByCategory(ctx context.Context, userID uuid.UUID, category string) (*domain.CategoryAnalytics, error) {
	return s.analytics.GetByCategory(ctx, userID, category)
}

// collectReviews joins each review state with its card's tags and its
// deck's category. Cards and decks are cached per call so a large state
// list does not repeat lookups.
func (s *Service) collectReviews(ctx context.Context, states []*domain.ReviewState) ([]progress.CardReview, error) {
	deckCategory := make(map[uuid.UUID]string)
	reviews := make([]progress.CardReview, 0, len(states))

	for _, state := range states {
		card, err := s.cards.GetByID(ctx, state.CardID)
		if err != nil {
			if errors.Is(err, store.ErrCardNotFound) {
				// The card was deleted after the state was loaded; its
				// history cascaded away with it.
				continue
			}
			return nil, err
		}

		category, ok := deckCategory[card.DeckID]
		if !ok {
			deck, err := s.decks.GetByID(ctx, card.DeckID)
			if err != nil {
				if errors.Is(err, store.ErrDeckNotFound) {
					continue
				}
				return nil, err
			}
			category = deck.Category
			deckCategory[card.DeckID] = category
		}

		reviews = append(reviews, progress.CardReview{
			Category:        category,
			Tags:            card.Tags,
			TotalAttempts:   state.TotalAttempts,
			CorrectAttempts: state.CorrectAttempts,
		})
	}

	return reviews, nil
}
