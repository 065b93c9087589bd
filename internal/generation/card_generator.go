package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/quizora/quizora-api/internal/domain"
)

// Card count bounds for a single generation request.
const (
	MinCardCount = 1
	MaxCardCount = 20
)

const cardPromptTemplate = `You are a flashcard author. Create %d flashcards about "%s" in the category "%s".

Respond with a JSON array only, no prose. Each element must have this shape:
{"question": "...", "answer": "...", "tags": ["..."], "difficulty": 1-5}

Questions must be self-contained and answerable without extra context. Answers must be short and factual.`

// cardGenerator implements CardGenerator on top of a TextGenerator.
type cardGenerator struct {
	textGen TextGenerator
	logger  *slog.Logger
}

// Ensure cardGenerator implements the interface.
var _ CardGenerator = (*cardGenerator)(nil)

// NewCardGenerator creates a CardGenerator backed by the given model port.
func NewCardGenerator(textGen TextGenerator, logger *slog.Logger) (CardGenerator, error) {
	if textGen == nil {
		return nil, fmt.Errorf("text generator cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	return &cardGenerator{
		textGen: textGen,
		logger:  logger.With(slog.String("component", "card_generator")),
	}, nil
}

// GenerateCards implements the CardGenerator interface.
func (g *cardGenerator) GenerateCards(ctx context.Context, topic, category string, count int) ([]CardDraft, error) {
	if count < MinCardCount || count > MaxCardCount {
		return nil, fmt.Errorf("%w: %d (allowed %d-%d)", ErrInvalidCount, count, MinCardCount, MaxCardCount)
	}
	if strings.TrimSpace(topic) == "" {
		return nil, ErrEmptyPrompt
	}

	prompt := fmt.Sprintf(cardPromptTemplate, count, topic, category)

	raw, err := g.textGen.GenerateText(ctx, prompt)
	if err != nil {
		g.logger.WarnContext(ctx, "model call failed, using template fallback",
			slog.String("topic", topic),
			slog.String("error", err.Error()))
		return templateDrafts(topic, count), nil
	}

	drafts, err := parseCardDrafts(raw)
	if err != nil {
		g.logger.WarnContext(ctx, "unparseable model response, using template fallback",
			slog.String("topic", topic),
			slog.String("error", err.Error()))
		return templateDrafts(topic, count), nil
	}

	if len(drafts) > count {
		drafts = drafts[:count]
	}

	for i := range drafts {
		drafts[i].Difficulty = clampDifficulty(drafts[i].Difficulty)
		if drafts[i].Tags == nil {
			drafts[i].Tags = []string{}
		}
	}

	g.logger.DebugContext(ctx, "cards generated",
		slog.String("topic", topic),
		slog.Int("requested", count),
		slog.Int("returned", len(drafts)))

	return drafts, nil
}

// parseCardDrafts extracts the JSON array from the raw model output. Models
// frequently wrap JSON in markdown fences or surrounding prose, so the parse
// is anchored on the outermost bracket pair.
func parseCardDrafts(raw string) ([]CardDraft, error) {
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("%w: no JSON array found", ErrInvalidResponse)
	}

	var drafts []CardDraft
	if err := json.Unmarshal([]byte(raw[start:end+1]), &drafts); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	valid := drafts[:0]
	for _, d := range drafts {
		d.Question = strings.TrimSpace(d.Question)
		d.Answer = strings.TrimSpace(d.Answer)
		if d.Question == "" || d.Answer == "" {
			continue
		}
		valid = append(valid, d)
	}

	if len(valid) == 0 {
		return nil, fmt.Errorf("%w: no usable cards in response", ErrInvalidResponse)
	}

	return valid, nil
}

// templateDrafts builds cards from the topic text itself when the model is
// unavailable or returns garbage. Sentences cycle through four question
// templates; blanking always removes the longest word so the output is
// deterministic.
func templateDrafts(topic string, count int) []CardDraft {
	sentences := splitSentences(topic)
	if len(sentences) == 0 {
		sentences = []string{strings.TrimSpace(topic)}
	}

	drafts := make([]CardDraft, 0, count)
	for i := 0; i < count; i++ {
		sentence := sentences[i%len(sentences)]

		var draft CardDraft
		switch i % 4 {
		case 0:
			draft = CardDraft{
				Question:   fmt.Sprintf("What is true about: %q?", sentence),
				Answer:     sentence,
				Difficulty: 2,
			}
		case 1:
			word := longestWord(sentence)
			draft = CardDraft{
				Question:   strings.Replace(sentence, word, "_____", 1),
				Answer:     word,
				Difficulty: 3,
			}
		case 2:
			draft = CardDraft{
				Question:   fmt.Sprintf("Is this statement true: %q?", sentence),
				Answer:     "True",
				Difficulty: 1,
			}
		default:
			draft = CardDraft{
				Question:   fmt.Sprintf("Why is this statement important: %q?", sentence),
				Answer:     fmt.Sprintf("This statement highlights a key characteristic: %s", sentence),
				Difficulty: 4,
			}
		}
		draft.Tags = []string{}
		drafts = append(drafts, draft)
	}

	return drafts
}

func splitSentences(text string) []string {
	parts := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})
	sentences := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

func longestWord(sentence string) string {
	longest := ""
	for _, w := range strings.Fields(sentence) {
		if len(w) > len(longest) {
			longest = w
		}
	}
	return longest
}

func clampDifficulty(d int) int {
	if d < domain.MinDifficulty {
		return domain.MinDifficulty
	}
	if d > domain.MaxDifficulty {
		return domain.MaxDifficulty
	}
	return d
}
