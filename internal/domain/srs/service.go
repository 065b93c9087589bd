// Package srs implements the spaced repetition scheduling algorithm, an
// SM-2 variant driven by answer correctness and response latency.
package srs

import (
	"errors"
	"time"

	"github.com/quizora/quizora-api/internal/domain"
)

// Common errors
var (
	ErrNilState = errors.New("review state cannot be nil")
)

// Quality bounds on the SM-2 scale.
const (
	MinQuality = 0
	MaxQuality = 5
)

// Service defines the interface for review scheduling operations.
type Service interface {
	// NextState computes the successor review state for one attempt.
	// It is a pure function over its inputs: the prior state is never
	// modified and no side effects occur. responseTimeMs <= 0 means the
	// client did not report a latency. The quality score that drove the
	// transition is returned alongside the new state.
	NextState(
		prior *domain.ReviewState,
		correct bool,
		responseTimeMs int,
		now time.Time,
	) (*domain.ReviewState, int, error)
}

// defaultService is the standard implementation of the Service interface
type defaultService struct {
	params *Params
}

// NewDefaultService creates a scheduling service with default parameters.
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a scheduling service with custom parameters.
func NewServiceWithParams(params *Params) Service {
	return &defaultService{
		params: params,
	}
}

// NextState implements the Service interface.
func (s *defaultService) NextState(
	prior *domain.ReviewState,
	correct bool,
	responseTimeMs int,
	now time.Time,
) (*domain.ReviewState, int, error) {
	if prior == nil {
		return nil, 0, ErrNilState
	}

	quality := qualityScore(correct, responseTimeMs, s.params)
	next := nextState(prior, correct, responseTimeMs, now, s.params)

	return next, quality, nil
}
