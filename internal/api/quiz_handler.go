package api

import (
	"net/http"

	"github.com/quizora/quizora-api/internal/api/shared"
	"github.com/quizora/quizora-api/internal/service/study"
)

// QuizHandler handles quiz generation and answer submission.
type QuizHandler struct {
	study *study.Service
}

// NewQuizHandler creates a QuizHandler.
func NewQuizHandler(studyService *study.Service) *QuizHandler {
	return &QuizHandler{study: studyService}
}

// GenerateQuiz handles GET /decks/{deckID}/quiz.
func (h *QuizHandler) GenerateQuiz(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUser(w, r)
	if !ok {
		return
	}
	deckID, ok := pathID(w, r, "deckID")
	if !ok {
		return
	}

	generated, err := h.study.GenerateQuiz(r.Context(), userID, deckID)
	if err != nil {
		RespondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, generated)
}

// GenerateOfflineQuiz handles GET /decks/{deckID}/quiz/offline. The quiz is
// built without calling the language model so clients can cache it for
// offline study.
func (h *QuizHandler) GenerateOfflineQuiz(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUser(w, r)
	if !ok {
		return
	}
	deckID, ok := pathID(w, r, "deckID")
	if !ok {
		return
	}

	generated, err := h.study.GenerateOfflineQuiz(r.Context(), userID, deckID)
	if err != nil {
		RespondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, generated)
}

// SubmitAnswer handles POST /decks/{deckID}/answers.
func (h *QuizHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUser(w, r)
	if !ok {
		return
	}
	deckID, ok := pathID(w, r, "deckID")
	if !ok {
		return
	}

	var req SubmitAnswerRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.study.SubmitAnswer(
		r.Context(), userID, deckID, req.CardID, req.SelectedAnswer, req.ResponseTimeMs)
	if err != nil {
		RespondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, result)
}
