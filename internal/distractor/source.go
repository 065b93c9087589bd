// Package distractor produces plausible wrong answers for multiple-choice
// quiz questions. Sources degrade gracefully: Generate always returns
// exactly the requested number of candidates, falling back to synthetic
// placeholders when better material is unavailable, and never returns a
// candidate equal to the correct answer.
package distractor

import (
	"context"
	"fmt"
	"strings"
)

// Source supplies wrong-answer candidates for a question.
type Source interface {
	// Generate returns exactly count distinct-from-answer candidates.
	// It never fails: any upstream problem is absorbed by a fallback.
	Generate(ctx context.Context, question, correctAnswer string, count int) []string
}

// normalizeAnswer lowercases and trims a candidate for equality checks
// against the correct answer.
func normalizeAnswer(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// padCandidates extends candidates with synthetic placeholders until it
// reaches count, skipping anything that collides with the correct answer or
// an existing candidate.
func padCandidates(candidates []string, correctAnswer string, count int) []string {
	if len(candidates) > count {
		candidates = candidates[:count]
	}

	seen := make(map[string]bool, count)
	for _, c := range candidates {
		seen[normalizeAnswer(c)] = true
	}
	answer := normalizeAnswer(correctAnswer)

	for i := 1; len(candidates) < count; i++ {
		for _, synthetic := range []string{
			fmt.Sprintf("Varian %d", i),
			fmt.Sprintf("Option %d", i),
		} {
			key := normalizeAnswer(synthetic)
			if key == answer || seen[key] {
				continue
			}
			candidates = append(candidates, synthetic)
			seen[key] = true
			break
		}
	}

	return candidates
}

// fallbackCandidates is the list used when a source has nothing else to
// offer, e.g. on total upstream failure.
func fallbackCandidates(correctAnswer string, count int) []string {
	answer := normalizeAnswer(correctAnswer)
	candidates := make([]string, 0, count)

	for i := 1; len(candidates) < count; i++ {
		for _, synthetic := range []string{
			fmt.Sprintf("Option %d", i),
			fmt.Sprintf("Varian %d", i),
		} {
			if normalizeAnswer(synthetic) == answer {
				continue
			}
			candidates = append(candidates, synthetic)
			break
		}
	}

	return candidates
}
