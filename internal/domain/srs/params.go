package srs

// IntervalPolicy selects how repetitions and intervals evolve on a correct
// answer. The service shipped for years with ImmediateMastery, which marks a
// card mastered after a single correct answer and never grows the interval
// past one day; Geometric restores classic SM-2 interval growth. Both are
// kept selectable so existing review schedules keep their meaning.
type IntervalPolicy string

// Supported interval policies.
const (
	// PolicyImmediateMastery treats any correct answer as mastery:
	// repetitions=1, interval=1 day, mastered immediately.
	PolicyImmediateMastery IntervalPolicy = "immediate"

	// PolicyGeometric grows the interval 1, then SecondIntervalDays, then
	// round(interval * ease) per consecutive correct answer, and only flags
	// mastery after MasteryThreshold consecutive correct answers.
	PolicyGeometric IntervalPolicy = "geometric"
)

// Params defines all configurable parameters for the scheduling algorithm.
type Params struct {
	// MinEaseFactor is the floor applied after every ease update.
	MinEaseFactor float64

	// BaseQuality is the quality score for a correct answer before any
	// latency adjustment.
	BaseQuality int

	// FastAnswerMs and SlowAnswerMs bound the latency adjustment: answers
	// faster than FastAnswerMs earn +1 quality, answers slower than
	// SlowAnswerMs lose 1, everything in between is unadjusted.
	FastAnswerMs int
	SlowAnswerMs int

	// Policy selects the repetition/interval behavior on correct answers.
	Policy IntervalPolicy

	// Geometric policy tuning. Ignored under PolicyImmediateMastery.
	SecondIntervalDays int
	MaxIntervalDays    int
	MasteryThreshold   int
}

// NewDefaultParams creates a Params instance with the production defaults.
func NewDefaultParams() *Params {
	return &Params{
		MinEaseFactor: 1.3,
		BaseQuality:   4,
		FastAnswerMs:  5000,
		SlowAnswerMs:  15000,

		Policy:             PolicyImmediateMastery,
		SecondIntervalDays: 6,
		MaxIntervalDays:    365,
		MasteryThreshold:   3,
	}
}

// NewGeometricParams creates a Params instance using classic SM-2 interval
// growth instead of the immediate mastery rule.
func NewGeometricParams() *Params {
	params := NewDefaultParams()
	params.Policy = PolicyGeometric
	return params
}
