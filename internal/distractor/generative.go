package distractor

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/quizora/quizora-api/internal/generation"
)

// DefaultTimeout bounds the upstream model call. A slow model must never
// stall quiz composition.
const DefaultTimeout = 10 * time.Second

const distractorPromptTemplate = `Given the question: "%s"
and the correct answer: "%s"
Generate %d plausible but incorrect distractors for a multiple-choice quiz.
Format the output as a list, one distractor per line, without numbers, quotes, brackets, or any symbols like *.`

// markerPattern strips quotes, brackets, commas, asterisks and leading
// enumeration prefixes like "1. " from candidate lines.
var markerPattern = regexp.MustCompile(`["\[\],*]|\d+\.\s*`)

// GenerativeSource asks a language model for distractors and cleans up
// whatever comes back.
type GenerativeSource struct {
	textGen generation.TextGenerator
	logger  *slog.Logger
	timeout time.Duration
}

// Ensure GenerativeSource implements the interface.
var _ Source = (*GenerativeSource)(nil)

// NewGenerativeSource creates a Source backed by the given model port.
func NewGenerativeSource(textGen generation.TextGenerator, logger *slog.Logger) (*GenerativeSource, error) {
	if textGen == nil {
		return nil, fmt.Errorf("text generator cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	return &GenerativeSource{
		textGen: textGen,
		logger:  logger.With(slog.String("component", "distractor_source")),
		timeout: DefaultTimeout,
	}, nil
}

// Generate implements the Source interface. Upstream failures fall back to
// generic placeholders rather than surfacing as errors.
func (s *GenerativeSource) Generate(ctx context.Context, question, correctAnswer string, count int) []string {
	if count <= 0 {
		return []string{}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	prompt := fmt.Sprintf(distractorPromptTemplate, question, correctAnswer, count)

	raw, err := s.textGen.GenerateText(ctx, prompt)
	if err != nil {
		s.logger.WarnContext(ctx, "distractor generation failed, using fallback",
			slog.String("error", err.Error()))
		return fallbackCandidates(correctAnswer, count)
	}

	candidates := cleanCandidates(raw, correctAnswer, count)
	return padCandidates(candidates, correctAnswer, count)
}

// cleanCandidates splits the raw model output into lines, strips formatting
// markers, and discards blanks, echoes of the prompt, and anything equal to
// the correct answer.
func cleanCandidates(raw, correctAnswer string, count int) []string {
	answer := normalizeAnswer(correctAnswer)
	seen := make(map[string]bool, count)
	candidates := make([]string, 0, count)

	for _, line := range strings.Split(strings.TrimSpace(raw), "\n") {
		line = strings.TrimSpace(markerPattern.ReplaceAllString(strings.TrimSpace(line), ""))
		if line == "" {
			continue
		}
		if strings.Contains(line, "Given") || strings.Contains(line, "Generate") {
			continue
		}
		key := normalizeAnswer(line)
		if key == answer || seen[key] {
			continue
		}
		candidates = append(candidates, line)
		seen[key] = true
		if len(candidates) == count {
			break
		}
	}

	return candidates
}
