package api

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizora/quizora-api/internal/domain"
)

func TestHistoryEntryFromRecord(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	record, err := domain.NewAttemptRecord(
		uuid.New(), uuid.New(), uuid.New(), "Paris", true, now)
	require.NoError(t, err)

	entry := historyEntryFromRecord(record)

	assert.Equal(t, record.ID, entry.ID)
	assert.Equal(t, record.CardID, entry.CardID)
	assert.Equal(t, record.DeckID, entry.DeckID)
	assert.Equal(t, "Paris", entry.Answer)
	assert.True(t, entry.IsCorrect)
	assert.Equal(t, string(domain.AttemptStatusMastered), entry.Status)
	assert.Equal(t, now, entry.CreatedAt)
}

func TestHistoryEntryFromRecordIncorrect(t *testing.T) {
	t.Parallel()

	record, err := domain.NewAttemptRecord(
		uuid.New(), uuid.New(), uuid.New(), "London", false, time.Now())
	require.NoError(t, err)

	entry := historyEntryFromRecord(record)

	assert.False(t, entry.IsCorrect)
	assert.Equal(t, string(domain.AttemptStatusNeedsReview), entry.Status)
}
