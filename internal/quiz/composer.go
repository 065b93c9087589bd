package quiz

import (
	"context"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/quizora/quizora-api/internal/distractor"
	"github.com/quizora/quizora-api/internal/domain"
)

// Composer builds quizzes from a deck's cards and their review states.
// Every card becomes a question; there is no sampling. A Composer is not
// safe for concurrent use because it owns its random source; construct one
// per request or guard it externally.
type Composer struct {
	source distractor.Source
	rng    *rand.Rand
}

// NewComposer creates a Composer. The random source is injected so tests
// can make shuffling deterministic.
func NewComposer(source distractor.Source, rng *rand.Rand) (*Composer, error) {
	if source == nil {
		return nil, ErrNilSource
	}
	if rng == nil {
		return nil, ErrNilRand
	}
	return &Composer{source: source, rng: rng}, nil
}

// Compose turns every card of the deck into a four-option question. states
// maps card ID to the reviewing user's state; cards without an entry are
// treated as never reviewed (not mastered, due now). Question order and
// option order are shuffled independently, and the correctness flag travels
// with the option text, never with its position.
func (c *Composer) Compose(
	ctx context.Context,
	deckID uuid.UUID,
	cards []*domain.Card,
	states map[uuid.UUID]*domain.ReviewState,
	now time.Time,
) (*Quiz, error) {
	if len(cards) == 0 {
		return nil, ErrEmptyDeck
	}

	stats := Statistics{TotalCards: len(cards)}
	questions := make([]Question, 0, len(cards))

	for _, card := range cards {
		state := states[card.ID]
		mastered := state != nil && state.IsMastered
		due := state == nil || state.DueForReview(now)
		if mastered {
			stats.MasteredCards++
		}
		if due {
			stats.DueForReview++
		}

		question := Question{
			CardID:     card.ID,
			Prompt:     card.Question,
			Options:    c.composeOptions(ctx, card),
			IsMastered: mastered,
		}
		if state != nil {
			next := state.NextReviewAt
			question.NextReviewAt = &next
		}

		questions = append(questions, question)
	}

	c.rng.Shuffle(len(questions), func(i, j int) {
		questions[i], questions[j] = questions[j], questions[i]
	})

	return &Quiz{
		DeckID:     deckID,
		Questions:  questions,
		Statistics: stats,
	}, nil
}

// composeOptions mixes the correct answer with distractors, shuffles, and
// assigns letter labels in the shuffled order.
func (c *Composer) composeOptions(ctx context.Context, card *domain.Card) []Option {
	distractors := c.source.Generate(ctx, card.Question, card.Answer, DistractorsPerQuestion)

	options := make([]Option, 0, len(distractors)+1)
	options = append(options, Option{Text: card.Answer, IsCorrect: true})
	for _, d := range distractors {
		options = append(options, Option{Text: d, IsCorrect: false})
	}

	c.rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	for i := range options {
		options[i].ID = string(rune('A' + i))
	}

	return options
}
