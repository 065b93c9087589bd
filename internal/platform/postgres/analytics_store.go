package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/quizora/quizora-api/internal/domain"
	"github.com/quizora/quizora-api/internal/store"
)

// AnalyticsStore implements the store.AnalyticsStore interface using a
// PostgreSQL database as the storage backend. Rows are unique per
// (user_id, category); Upsert leans on that constraint so recomputation is
// a single conditional write rather than a read-then-branch race.
type AnalyticsStore struct {
	db store.DBTX
}

// NewAnalyticsStore creates a new PostgreSQL implementation of the
// AnalyticsStore interface.
func NewAnalyticsStore(db *sql.DB) *AnalyticsStore {
	return &AnalyticsStore{db: db}
}

// Ensure AnalyticsStore implements store.AnalyticsStore interface
var _ store.AnalyticsStore = (*AnalyticsStore)(nil)

// WithTx implements store.AnalyticsStore.WithTx
func (s *AnalyticsStore) WithTx(tx *sql.Tx) store.AnalyticsStore {
	return &AnalyticsStore{db: tx}
}

const analyticsColumns = `id, user_id, category, performance, weak_areas, recommendations, created_at, updated_at`

// Upsert implements store.AnalyticsStore.Upsert
func (s *AnalyticsStore) Upsert(ctx context.Context, analytics *domain.CategoryAnalytics) error {
	if err := analytics.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	weakAreas, err := marshalStrings(analytics.WeakAreas)
	if err != nil {
		return err
	}
	recommendations, err := marshalStrings(analytics.Recommendations)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO category_analytics (` + analyticsColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id, category) DO UPDATE SET
			performance = EXCLUDED.performance,
			weak_areas = EXCLUDED.weak_areas,
			recommendations = EXCLUDED.recommendations,
			updated_at = EXCLUDED.updated_at`

	_, err = s.db.ExecContext(ctx, query,
		analytics.ID, analytics.UserID, analytics.Category, analytics.Performance,
		weakAreas, recommendations, analytics.CreatedAt, analytics.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert analytics: %w", err)
	}

	return nil
}

// ListByUser implements store.AnalyticsStore.ListByUser
func (s *AnalyticsStore) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.CategoryAnalytics, error) {
	query := `SELECT ` + analyticsColumns + ` FROM category_analytics WHERE user_id = $1 ORDER BY updated_at DESC`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list analytics: %w", err)
	}
	defer func() { _ = rows.Close() }()

	results := make([]*domain.CategoryAnalytics, 0)
	for rows.Next() {
		analytics, err := scanAnalytics(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, analytics)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate analytics: %w", err)
	}

	return results, nil
}

// GetByCategory implements store.AnalyticsStore.GetByCategory
func (s *AnalyticsStore) GetByCategory(ctx context.Context, userID uuid.UUID, category string) (*domain.CategoryAnalytics, error) {
	query := `SELECT ` + analyticsColumns + ` FROM category_analytics WHERE user_id = $1 AND category = $2`

	analytics, err := scanAnalytics(s.db.QueryRowContext(ctx, query, userID, category))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrAnalyticsNotFound
		}
		return nil, err
	}

	return analytics, nil
}

func scanAnalytics(row rowScanner) (*domain.CategoryAnalytics, error) {
	var (
		analytics       domain.CategoryAnalytics
		weakAreas       []byte
		recommendations []byte
	)
	err := row.Scan(
		&analytics.ID, &analytics.UserID, &analytics.Category, &analytics.Performance,
		&weakAreas, &recommendations, &analytics.CreatedAt, &analytics.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan analytics: %w", err)
	}

	if analytics.WeakAreas, err = unmarshalStrings(weakAreas); err != nil {
		return nil, err
	}
	if analytics.Recommendations, err = unmarshalStrings(recommendations); err != nil {
		return nil, err
	}

	return &analytics, nil
}
