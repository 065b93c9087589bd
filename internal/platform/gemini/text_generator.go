// Package gemini implements the generation.TextGenerator port using
// Google's Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"google.golang.org/genai"

	"github.com/quizora/quizora-api/internal/config"
	"github.com/quizora/quizora-api/internal/generation"
)

// baseRetryDelay seeds the exponential backoff between attempts.
const baseRetryDelay = 2 * time.Second

// TextGenerator calls the Gemini API with retry and exponential backoff.
type TextGenerator struct {
	logger *slog.Logger
	client *genai.Client
	model  string

	// maxRetries bounds how often a transient failure is retried.
	maxRetries int
}

// Ensure TextGenerator implements the generation port.
var _ generation.TextGenerator = (*TextGenerator)(nil)

// NewTextGenerator creates a Gemini-backed TextGenerator from LLM
// configuration.
func NewTextGenerator(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*TextGenerator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.GeminiAPIKey == "" {
		return nil, errors.New("gemini API key cannot be empty")
	}
	if cfg.ModelName == "" {
		return nil, errors.New("model name cannot be empty")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	maxRetries := cfg.MaxRetries
	if maxRetries < 1 {
		maxRetries = 1
	}

	return &TextGenerator{
		logger:     logger.With(slog.String("component", "gemini_text_generator")),
		client:     client,
		model:      cfg.ModelName,
		maxRetries: maxRetries,
	}, nil
}

// GenerateText implements generation.TextGenerator. Transient failures are
// retried with exponential backoff and jitter; context cancellation stops
// the retry loop immediately.
func (g *TextGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		return "", generation.ErrEmptyPrompt
	}

	var lastErr error

	for attempt := 0; attempt < g.maxRetries; attempt++ {
		if attempt > 0 {
			// delay = base * 2^attempt * (0.5 + rand(0, 0.5))
			backoff := float64(baseRetryDelay) * math.Pow(2, float64(attempt-1))
			delay := time.Duration(backoff * (0.5 + rand.Float64()*0.5))

			g.logger.InfoContext(ctx, "retrying after delay",
				slog.Int("attempt", attempt),
				slog.Duration("delay", delay))

			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return "", fmt.Errorf("%w: %v", generation.ErrGenerationFailed, ctx.Err())
			}
		}

		resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
		if err != nil {
			lastErr = err
			g.logger.WarnContext(ctx, "gemini call failed",
				slog.Int("attempt", attempt),
				slog.String("error", err.Error()))
			if ctx.Err() != nil {
				break
			}
			continue
		}

		text := resp.Text()
		if text == "" {
			lastErr = fmt.Errorf("%w: empty response", generation.ErrInvalidResponse)
			continue
		}

		return text, nil
	}

	return "", generation.NewGenerationError("generate_text",
		fmt.Errorf("%w: %v", generation.ErrGenerationFailed, lastErr))
}
