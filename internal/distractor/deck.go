package distractor

import (
	"context"
	"errors"
	"math/rand"

	"github.com/quizora/quizora-api/internal/domain"
)

// ErrNilRand indicates a DeckSource was built without a random source.
var ErrNilRand = errors.New("random source cannot be nil")

// genericOptions fill in when a deck has too few distinct answers.
var genericOptions = []string{
	"None of the above",
	"Not applicable",
	"Cannot be determined",
}

// DeckSource draws wrong answers from the other cards of the same deck. It
// is the offline alternative to GenerativeSource and needs no network.
type DeckSource struct {
	cards []*domain.Card
	rng   *rand.Rand
}

// Ensure DeckSource implements the interface.
var _ Source = (*DeckSource)(nil)

// NewDeckSource creates a Source over the given deck's cards. The random
// source drives candidate selection so repeated quizzes over the same deck
// vary their distractors.
func NewDeckSource(cards []*domain.Card, rng *rand.Rand) (*DeckSource, error) {
	if rng == nil {
		return nil, ErrNilRand
	}
	return &DeckSource{cards: cards, rng: rng}, nil
}

// Generate implements the Source interface. The eligible pool is shuffled
// before truncating to count; generic placeholders make up any shortfall.
func (s *DeckSource) Generate(_ context.Context, _ string, correctAnswer string, count int) []string {
	if count <= 0 {
		return []string{}
	}

	answer := normalizeAnswer(correctAnswer)
	seen := make(map[string]bool, len(s.cards))
	candidates := make([]string, 0, len(s.cards))

	for _, card := range s.cards {
		key := normalizeAnswer(card.Answer)
		if key == "" || key == answer || seen[key] {
			continue
		}
		candidates = append(candidates, card.Answer)
		seen[key] = true
	}

	s.rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	if len(candidates) >= count {
		return candidates[:count]
	}

	for _, generic := range genericOptions {
		if len(candidates) == count {
			break
		}
		key := normalizeAnswer(generic)
		if key == answer || seen[key] {
			continue
		}
		candidates = append(candidates, generic)
		seen[key] = true
	}

	return padCandidates(candidates, correctAnswer, count)
}
