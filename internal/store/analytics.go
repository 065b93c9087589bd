package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/quizora/quizora-api/internal/domain"
)

// AnalyticsStore defines the interface for per-(user, category) analytics
// persistence.
type AnalyticsStore interface {
	// Upsert writes the analytics row for its (user, category) pair as a
	// single conditional write, replacing all derived fields of any prior
	// row rather than merging with them.
	Upsert(ctx context.Context, analytics *domain.CategoryAnalytics) error

	// ListByUser retrieves a user's analytics rows, most recently updated
	// first, up to limit. A non-positive limit returns all rows.
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.CategoryAnalytics, error)

	// GetByCategory retrieves the analytics row for one (user, category)
	// pair. Returns ErrAnalyticsNotFound if none exists.
	GetByCategory(ctx context.Context, userID uuid.UUID, category string) (*domain.CategoryAnalytics, error)

	// WithTx returns an AnalyticsStore bound to the given transaction.
	WithTx(tx *sql.Tx) AnalyticsStore
}
