package srs

import (
	"math"
	"time"

	"github.com/quizora/quizora-api/internal/domain"
)

// qualityScore maps an attempt to the SM-2 quality scale 0-5.
//
// Incorrect answers always score 0 regardless of latency. Correct answers
// start from params.BaseQuality and are adjusted by response time when one
// was reported: +1 below FastAnswerMs, -1 above SlowAnswerMs, unchanged in
// between. responseTimeMs <= 0 means no latency was reported and the base
// quality stands. The result is clamped to [0, 5].
func qualityScore(correct bool, responseTimeMs int, params *Params) int {
	if !correct {
		return 0
	}

	quality := params.BaseQuality
	if responseTimeMs > 0 {
		switch {
		case responseTimeMs < params.FastAnswerMs:
			quality++
		case responseTimeMs < params.SlowAnswerMs:
			// no adjustment
		default:
			quality--
		}
	}

	if quality < 0 {
		quality = 0
	}
	if quality > 5 {
		quality = 5
	}

	return quality
}

// nextEaseFactor applies the standard SM-2 ease update:
//
//	ef' = ef + (0.1 - (5-q) * (0.08 + (5-q) * 0.02))
//
// floored at params.MinEaseFactor so repeated failures cannot push a card
// into runaway difficulty.
func nextEaseFactor(easeFactor float64, quality int, params *Params) float64 {
	q := float64(quality)
	next := easeFactor + (0.1 - (5-q)*(0.08+(5-q)*0.02))

	if next < params.MinEaseFactor {
		next = params.MinEaseFactor
	}

	return next
}

// nextRepetitionsAndInterval computes the repetition count and interval in
// days for the new state. Incorrect answers reset both regardless of policy.
func nextRepetitionsAndInterval(
	prior *domain.ReviewState,
	correct bool,
	easeFactor float64,
	params *Params,
) (repetitions, interval int) {
	if !correct {
		return 0, domain.DefaultInterval
	}

	if params.Policy == PolicyGeometric {
		repetitions = prior.Repetitions + 1
		switch repetitions {
		case 1:
			interval = domain.DefaultInterval
		case 2:
			interval = params.SecondIntervalDays
		default:
			interval = int(math.Round(float64(prior.Interval) * easeFactor))
		}
		if interval < domain.DefaultInterval {
			interval = domain.DefaultInterval
		}
		if params.MaxIntervalDays > 0 && interval > params.MaxIntervalDays {
			interval = params.MaxIntervalDays
		}
		return repetitions, interval
	}

	// Immediate mastery: one correct answer is treated as learned and the
	// interval stays at a single day.
	return 1, domain.DefaultInterval
}

// isMastered decides the mastery flag for the new state.
func isMastered(correct bool, repetitions int, params *Params) bool {
	if !correct {
		return false
	}

	if params.Policy == PolicyGeometric {
		return repetitions >= params.MasteryThreshold
	}

	return true
}

// nextState creates a new ReviewState from the prior state and the outcome
// of one attempt. The prior state is never modified; attempt counters are
// copied through untouched because incrementing them is the calling
// service's responsibility, not the scheduler's.
func nextState(
	prior *domain.ReviewState,
	correct bool,
	responseTimeMs int,
	now time.Time,
	params *Params,
) *domain.ReviewState {
	quality := qualityScore(correct, responseTimeMs, params)
	easeFactor := nextEaseFactor(prior.EaseFactor, quality, params)
	repetitions, interval := nextRepetitionsAndInterval(prior, correct, easeFactor, params)
	reviewedAt := now

	next := &domain.ReviewState{
		UserID:          prior.UserID,
		CardID:          prior.CardID,
		EaseFactor:      easeFactor,
		Interval:        interval,
		Repetitions:     repetitions,
		NextReviewAt:    now.AddDate(0, 0, interval),
		LastReviewedAt:  &reviewedAt,
		IsMastered:      isMastered(correct, repetitions, params),
		TotalAttempts:   prior.TotalAttempts,
		CorrectAttempts: prior.CorrectAttempts,
		CreatedAt:       prior.CreatedAt,
		UpdatedAt:       now,
	}

	return next
}
