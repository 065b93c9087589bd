// Package generation defines the ports and services for producing
// flashcard content from a generative language model.
package generation

import (
	"context"
)

// TextGenerator is the outbound port to a generative language model. The
// concrete implementation lives in the platform layer; everything above it
// depends only on this interface so model calls can be stubbed in tests.
type TextGenerator interface {
	// GenerateText sends the prompt to the model and returns the raw text
	// of the first candidate response.
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// CardGenerator produces flashcards for a deck from a topic description.
type CardGenerator interface {
	// GenerateCards creates count new cards about topic for the given
	// category. Cards are returned unpersisted; the caller decides whether
	// and where to store them.
	GenerateCards(ctx context.Context, topic, category string, count int) ([]CardDraft, error)
}

// CardDraft is a generated card before it is bound to a deck.
type CardDraft struct {
	Question   string   `json:"question"`
	Answer     string   `json:"answer"`
	Tags       []string `json:"tags"`
	Difficulty int      `json:"difficulty"`
}
