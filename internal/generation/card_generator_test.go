package generation

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubTextGenerator returns a canned response or error.
type stubTextGenerator struct {
	response string
	err      error
	prompt   string
}

func (s *stubTextGenerator) GenerateText(_ context.Context, prompt string) (string, error) {
	s.prompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewCardGenerator(t *testing.T) {
	t.Parallel()

	t.Run("rejects nil text generator", func(t *testing.T) {
		t.Parallel()
		_, err := NewCardGenerator(nil, discardLogger())
		assert.Error(t, err)
	})

	t.Run("rejects nil logger", func(t *testing.T) {
		t.Parallel()
		_, err := NewCardGenerator(&stubTextGenerator{}, nil)
		assert.Error(t, err)
	})
}

func TestGenerateCards(t *testing.T) {
	t.Parallel()

	t.Run("parses a clean JSON array", func(t *testing.T) {
		t.Parallel()

		stub := &stubTextGenerator{response: `[
			{"question": "What is photosynthesis?", "answer": "Conversion of light to chemical energy", "tags": ["biology"], "difficulty": 2},
			{"question": "What organelle hosts it?", "answer": "The chloroplast", "tags": ["biology"], "difficulty": 3}
		]`}
		gen, err := NewCardGenerator(stub, discardLogger())
		require.NoError(t, err)

		drafts, err := gen.GenerateCards(context.Background(), "photosynthesis", "Science", 2)

		require.NoError(t, err)
		require.Len(t, drafts, 2)
		assert.Equal(t, "What is photosynthesis?", drafts[0].Question)
		assert.Equal(t, 2, drafts[0].Difficulty)
		assert.Contains(t, stub.prompt, "photosynthesis")
		assert.Contains(t, stub.prompt, "Science")
	})

	t.Run("strips markdown fences around the array", func(t *testing.T) {
		t.Parallel()

		stub := &stubTextGenerator{response: "```json\n[{\"question\": \"Q\", \"answer\": \"A\"}]\n```"}
		gen, err := NewCardGenerator(stub, discardLogger())
		require.NoError(t, err)

		drafts, err := gen.GenerateCards(context.Background(), "topic", "General", 1)

		require.NoError(t, err)
		require.Len(t, drafts, 1)
		assert.Equal(t, "Q", drafts[0].Question)
	})

	t.Run("clamps difficulty and truncates to count", func(t *testing.T) {
		t.Parallel()

		stub := &stubTextGenerator{response: `[
			{"question": "Q1", "answer": "A1", "difficulty": 9},
			{"question": "Q2", "answer": "A2", "difficulty": 0},
			{"question": "Q3", "answer": "A3", "difficulty": 3}
		]`}
		gen, err := NewCardGenerator(stub, discardLogger())
		require.NoError(t, err)

		drafts, err := gen.GenerateCards(context.Background(), "topic", "General", 2)

		require.NoError(t, err)
		require.Len(t, drafts, 2)
		assert.Equal(t, 5, drafts[0].Difficulty)
		assert.Equal(t, 1, drafts[1].Difficulty)
	})

	t.Run("drops entries missing question or answer", func(t *testing.T) {
		t.Parallel()

		stub := &stubTextGenerator{response: `[
			{"question": "", "answer": "A1"},
			{"question": "Q2", "answer": "A2"}
		]`}
		gen, err := NewCardGenerator(stub, discardLogger())
		require.NoError(t, err)

		drafts, err := gen.GenerateCards(context.Background(), "topic", "General", 5)

		require.NoError(t, err)
		require.Len(t, drafts, 1)
		assert.Equal(t, "Q2", drafts[0].Question)
	})

	t.Run("rejects out of range counts", func(t *testing.T) {
		t.Parallel()

		gen, err := NewCardGenerator(&stubTextGenerator{}, discardLogger())
		require.NoError(t, err)

		_, err = gen.GenerateCards(context.Background(), "topic", "General", 0)
		assert.ErrorIs(t, err, ErrInvalidCount)

		_, err = gen.GenerateCards(context.Background(), "topic", "General", 21)
		assert.ErrorIs(t, err, ErrInvalidCount)
	})

	t.Run("rejects blank topics", func(t *testing.T) {
		t.Parallel()

		gen, err := NewCardGenerator(&stubTextGenerator{}, discardLogger())
		require.NoError(t, err)

		_, err = gen.GenerateCards(context.Background(), "   ", "General", 3)
		assert.ErrorIs(t, err, ErrEmptyPrompt)
	})

	t.Run("falls back to templates on model failure", func(t *testing.T) {
		t.Parallel()

		stub := &stubTextGenerator{err: errors.New("boom")}
		gen, err := NewCardGenerator(stub, discardLogger())
		require.NoError(t, err)

		drafts, err := gen.GenerateCards(context.Background(),
			"The mitochondria produces energy. The nucleus stores DNA.", "Biology", 4)

		require.NoError(t, err)
		require.Len(t, drafts, 4)
		for _, d := range drafts {
			assert.NotEmpty(t, d.Question)
			assert.NotEmpty(t, d.Answer)
			assert.GreaterOrEqual(t, d.Difficulty, 1)
			assert.LessOrEqual(t, d.Difficulty, 5)
		}
	})

	t.Run("falls back to templates on prose with no JSON array", func(t *testing.T) {
		t.Parallel()

		stub := &stubTextGenerator{response: "I cannot help with that."}
		gen, err := NewCardGenerator(stub, discardLogger())
		require.NoError(t, err)

		drafts, err := gen.GenerateCards(context.Background(),
			"Water boils at 100 degrees Celsius", "Science", 2)

		require.NoError(t, err)
		require.Len(t, drafts, 2)
		assert.Contains(t, drafts[0].Question, "What is true about")
		assert.Equal(t, "Water boils at 100 degrees Celsius", drafts[0].Answer)
		// second template blanks the longest word
		assert.Contains(t, drafts[1].Question, "_____")
	})
}

func TestTemplateDraftsDeterministic(t *testing.T) {
	t.Parallel()

	first := templateDrafts("The Nile is the longest river. Mount Everest is the tallest peak.", 8)
	second := templateDrafts("The Nile is the longest river. Mount Everest is the tallest peak.", 8)
	assert.Equal(t, first, second)
}
