// Package progress folds review history and per-card review state into the
// aggregate views the API serves: streaks, accuracy, weekly activity, and
// per-category analytics. Every function here is a pure reducer over its
// inputs; loading and persisting the data is the caller's concern.
package progress

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/quizora/quizora-api/internal/domain"
)

// weekdayLabels in canonical order, Monday first.
var weekdayLabels = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// DayProgress is one entry of the weekly breakdown.
type DayProgress struct {
	Day          string `json:"day"`
	CardsLearned int    `json:"cardsLearned"`
	Accuracy     int    `json:"accuracy"`
}

// CardReview is the per-card input to category analytics: the card's deck
// category and tags joined with the reviewing user's attempt counters.
type CardReview struct {
	Category        string
	Tags            []string
	TotalAttempts   int
	CorrectAttempts int
}

// CategoryReport is the computed analytics for one (user, category) pair.
type CategoryReport struct {
	Category        string   `json:"category"`
	Performance     float64  `json:"performance"`
	WeakAreas       []string `json:"weakAreas"`
	Recommendations []string `json:"recommendations"`
}

// dayKey normalizes a timestamp to its calendar day in t's location.
func dayKey(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DailyStreak counts consecutive calendar days with at least one attempt,
// scanning backward from today (or yesterday when today is still empty).
// Day boundaries follow now's location.
func DailyStreak(history []*domain.AttemptRecord, now time.Time) int {
	if len(history) == 0 {
		return 0
	}

	active := make(map[time.Time]bool, len(history))
	for _, record := range history {
		active[dayKey(record.CreatedAt.In(now.Location()))] = true
	}

	day := dayKey(now)
	if !active[day] {
		day = day.AddDate(0, 0, -1)
	}

	streak := 0
	for active[day] {
		streak++
		day = day.AddDate(0, 0, -1)
	}

	return streak
}

// Accuracy returns the mean per-card accuracy percentage, rounded to the
// nearest integer. Cards that were never attempted are excluded from both
// the sum and the divisor; no eligible cards yields 0.
func Accuracy(states []*domain.ReviewState) int {
	total := 0.0
	eligible := 0

	for _, state := range states {
		if state == nil || state.TotalAttempts == 0 {
			continue
		}
		total += state.Accuracy()
		eligible++
	}

	if eligible == 0 {
		return 0
	}

	return int(math.Round(total / float64(eligible)))
}

// WeeklyBreakdown buckets review activity over the trailing 7-day window
// ending today. The result always has exactly 7 entries in canonical
// Monday-first order; days without activity report zeros. A state counts
// toward the day of its last review.
func WeeklyBreakdown(states []*domain.ReviewState, now time.Time) []DayProgress {
	windowEnd := dayKey(now)
	windowStart := windowEnd.AddDate(0, 0, -6)

	type bucket struct {
		learned int
		correct int
		total   int
	}
	byDay := make(map[time.Time]*bucket, 7)

	for _, state := range states {
		if state == nil || state.LastReviewedAt == nil {
			continue
		}
		day := dayKey(state.LastReviewedAt.In(now.Location()))
		if day.Before(windowStart) || day.After(windowEnd) {
			continue
		}
		b := byDay[day]
		if b == nil {
			b = &bucket{}
			byDay[day] = b
		}
		if state.IsMastered {
			b.learned++
		}
		b.correct += state.CorrectAttempts
		b.total += state.TotalAttempts
	}

	breakdown := make([]DayProgress, 7)
	for i := 0; i < 7; i++ {
		day := windowStart.AddDate(0, 0, i)
		slot := (int(day.Weekday()) + 6) % 7

		entry := DayProgress{Day: weekdayLabels[slot]}
		if b := byDay[day]; b != nil {
			entry.CardsLearned = b.learned
			if b.total > 0 {
				entry.Accuracy = int(math.Round(float64(b.correct) / float64(b.total) * 100))
			}
		}
		breakdown[slot] = entry
	}

	return breakdown
}

// weakAreaThreshold marks a card as a weak area when its individual
// accuracy falls below this percentage.
const weakAreaThreshold = 60.0

// CategoryReports groups reviews by deck category and derives performance,
// weak-area tags, and textual recommendations per category. Categories are
// returned in alphabetical order so recomputation is deterministic.
func CategoryReports(reviews []CardReview) []CategoryReport {
	type group struct {
		correct   int
		total     int
		weakAreas []string
		weakSeen  map[string]bool
	}

	groups := make(map[string]*group)
	order := make([]string, 0)

	for _, review := range reviews {
		g := groups[review.Category]
		if g == nil {
			g = &group{weakSeen: make(map[string]bool)}
			groups[review.Category] = g
			order = append(order, review.Category)
		}
		g.correct += review.CorrectAttempts
		g.total += review.TotalAttempts

		performance := 0.0
		if review.TotalAttempts > 0 {
			performance = float64(review.CorrectAttempts) / float64(review.TotalAttempts) * 100
		}
		if performance < weakAreaThreshold {
			for _, tag := range review.Tags {
				if !g.weakSeen[tag] {
					g.weakSeen[tag] = true
					g.weakAreas = append(g.weakAreas, tag)
				}
			}
		}
	}

	sort.Strings(order)

	reports := make([]CategoryReport, 0, len(order))
	for _, category := range order {
		g := groups[category]

		performance := 0.0
		if g.total > 0 {
			performance = float64(g.correct) / float64(g.total) * 100
		}
		performance = math.Round(performance*100) / 100

		reports = append(reports, CategoryReport{
			Category:        category,
			Performance:     performance,
			WeakAreas:       append([]string{}, g.weakAreas...),
			Recommendations: recommendations(category, performance, g.weakAreas),
		})
	}

	return reports
}

// recommendations applies the fixed rule set for a category's performance
// band plus one entry per weak-area tag.
func recommendations(category string, performance float64, weakAreas []string) []string {
	recs := make([]string, 0, 2+len(weakAreas))

	switch {
	case performance < 50:
		recs = append(recs,
			fmt.Sprintf("Focus more on %s fundamentals", category),
			fmt.Sprintf("Increase daily practice for %s", category))
	case performance < 70:
		recs = append(recs, fmt.Sprintf("Review %s concepts regularly", category))
	default:
		recs = append(recs, fmt.Sprintf("Great progress in %s! Try advanced topics", category))
	}

	for _, area := range weakAreas {
		recs = append(recs, fmt.Sprintf("Review %s topics in %s", area, category))
	}

	return recs
}
