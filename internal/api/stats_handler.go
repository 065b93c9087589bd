package api

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/quizora/quizora-api/internal/api/shared"
	"github.com/quizora/quizora-api/internal/domain"
	"github.com/quizora/quizora-api/internal/service/stats"
)

// StatsHandler handles statistics and analytics API requests.
type StatsHandler struct {
	stats *stats.Service
}

// NewStatsHandler creates a StatsHandler.
func NewStatsHandler(statsService *stats.Service) *StatsHandler {
	return &StatsHandler{stats: statsService}
}

// UserStats handles GET /stats.
func (h *StatsHandler) UserStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUser(w, r)
	if !ok {
		return
	}

	result, err := h.stats.UserStats(r.Context(), userID)
	if err != nil {
		RespondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

// DeckStats handles GET /decks/{deckID}/stats.
func (h *StatsHandler) DeckStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUser(w, r)
	if !ok {
		return
	}
	deckID, ok := pathID(w, r, "deckID")
	if !ok {
		return
	}

	result, err := h.stats.DeckStats(r.Context(), userID, deckID)
	if err != nil {
		RespondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

// WeeklyProgress handles GET /stats/weekly.
func (h *StatsHandler) WeeklyProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUser(w, r)
	if !ok {
		return
	}

	days, err := h.stats.WeeklyProgress(r.Context(), userID)
	if err != nil {
		RespondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, days)
}

// History handles GET /stats/history. An optional "limit" query parameter
// caps the number of entries.
func (h *StatsHandler) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUser(w, r)
	if !ok {
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = parsed
	}

	deckID := uuid.Nil
	if raw := r.URL.Query().Get("deckId"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid deck ID")
			return
		}
		deckID = parsed
	}

	records, err := h.stats.History(r.Context(), userID, deckID, limit)
	if err != nil {
		RespondServiceError(w, r, err)
		return
	}

	entries := make([]HistoryEntry, 0, len(records))
	for _, record := range records {
		entries = append(entries, historyEntryFromRecord(record))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, entries)
}

// historyEntryFromRecord maps a stored attempt into its response shape.
func historyEntryFromRecord(record *domain.AttemptRecord) HistoryEntry {
	return HistoryEntry{
		ID:        record.ID,
		CardID:    record.CardID,
		DeckID:    record.DeckID,
		Answer:    record.Answer,
		IsCorrect: record.Correct,
		Status:    string(record.Status),
		CreatedAt: record.CreatedAt,
	}
}

// GenerateAnalytics handles POST /stats/analytics.
func (h *StatsHandler) GenerateAnalytics(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUser(w, r)
	if !ok {
		return
	}

	rows, err := h.stats.GenerateAnalytics(r.Context(), userID)
	if err != nil {
		RespondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, rows)
}

// Analytics handles GET /stats/analytics.
func (h *StatsHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUser(w, r)
	if !ok {
		return
	}

	rows, err := h.stats.Analytics(r.Context(), userID, analyticsDefaultLimit)
	if err != nil {
		RespondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, rows)
}

// AnalyticsByCategory handles GET /stats/analytics/{category}.
func (h *StatsHandler) AnalyticsByCategory(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUser(w, r)
	if !ok {
		return
	}
	category := pathCategory(r)
	if category == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid category")
		return
	}

	row, err := h.stats.AnalyticsByCategory(r.Context(), userID, category)
	if err != nil {
		RespondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, row)
}

// analyticsDefaultLimit caps the analytics listing to the most recently
// refreshed categories.
const analyticsDefaultLimit = 4
