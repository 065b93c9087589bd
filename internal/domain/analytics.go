package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Analytics-specific validation errors
var (
	ErrAnalyticsUserIDEmpty   = errors.New("analytics user ID cannot be empty")
	ErrAnalyticsCategoryEmpty = errors.New("analytics category cannot be empty")
	ErrInvalidPerformance     = errors.New("performance must be between 0 and 100")
)

// CategoryAnalytics is the derived per-(user, category) performance view.
// It is recomputed wholesale on each generation request and stored with
// upsert semantics: a new computation replaces the previous row's fields
// entirely rather than merging with them.
type CategoryAnalytics struct {
	ID              uuid.UUID `json:"id"`
	UserID          uuid.UUID `json:"user_id"`
	Category        string    `json:"category"`
	Performance     float64   `json:"performance"` // percentage, 0-100
	WeakAreas       []string  `json:"weak_areas"`
	Recommendations []string  `json:"recommendations"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NewCategoryAnalytics creates an analytics row for a (user, category) pair.
func NewCategoryAnalytics(
	userID uuid.UUID,
	category string,
	performance float64,
	weakAreas, recommendations []string,
) (*CategoryAnalytics, error) {
	now := time.Now().UTC()
	analytics := &CategoryAnalytics{
		ID:              uuid.New(),
		UserID:          userID,
		Category:        category,
		Performance:     performance,
		WeakAreas:       weakAreas,
		Recommendations: recommendations,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := analytics.Validate(); err != nil {
		return nil, err
	}

	return analytics, nil
}

// Validate checks if the CategoryAnalytics has valid data.
func (a *CategoryAnalytics) Validate() error {
	if a.UserID == uuid.Nil {
		return ErrAnalyticsUserIDEmpty
	}

	if a.Category == "" {
		return ErrAnalyticsCategoryEmpty
	}

	if a.Performance < 0 || a.Performance > 100 {
		return ErrInvalidPerformance
	}

	return nil
}
