package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/quizora/quizora-api/internal/domain"
)

// AttemptStore defines the interface for append-only attempt history.
// Records are write-once: there are no update or delete operations, and
// rows disappear only when their card or deck cascades away.
type AttemptStore interface {
	// Create appends one attempt record.
	Create(ctx context.Context, record *domain.AttemptRecord) error

	// ListByUser retrieves a user's attempts, newest first, up to limit.
	// A non-positive limit returns the full history.
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.AttemptRecord, error)

	// ListByUserAndDeck retrieves a user's attempts within one deck,
	// newest first, up to limit. A non-positive limit returns everything.
	ListByUserAndDeck(ctx context.Context, userID, deckID uuid.UUID, limit int) ([]*domain.AttemptRecord, error)

	// WithTx returns an AttemptStore bound to the given transaction.
	WithTx(tx *sql.Tx) AttemptStore
}
