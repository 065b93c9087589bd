package api

import (
	"net/http"

	"github.com/quizora/quizora-api/internal/api/shared"
	"github.com/quizora/quizora-api/internal/service/deck"
)

// DeckHandler handles deck and card management API requests.
type DeckHandler struct {
	decks *deck.Service
}

// NewDeckHandler creates a DeckHandler.
func NewDeckHandler(decks *deck.Service) *DeckHandler {
	return &DeckHandler{decks: decks}
}

// CreateDeck handles POST /decks.
func (h *DeckHandler) CreateDeck(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUser(w, r)
	if !ok {
		return
	}

	var req DeckRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	created, err := h.decks.CreateDeck(r.Context(), userID, deck.DeckInput{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		IsPublic:    req.IsPublic,
	})
	if err != nil {
		RespondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, created)
}

// GetDeck handles GET /decks/{deckID}.
func (h *DeckHandler) GetDeck(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUser(w, r)
	if !ok {
		return
	}
	deckID, ok := pathID(w, r, "deckID")
	if !ok {
		return
	}

	found, err := h.decks.GetDeck(r.Context(), userID, deckID)
	if err != nil {
		RespondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, found)
}

// ListDecks handles GET /decks.
func (h *DeckHandler) ListDecks(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUser(w, r)
	if !ok {
		return
	}

	decks, err := h.decks.ListDecks(r.Context(), userID)
	if err != nil {
		RespondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, decks)
}

// ListPublicDecks handles GET /decks/public.
func (h *DeckHandler) ListPublicDecks(w http.ResponseWriter, r *http.Request) {
	decks, err := h.decks.ListPublicDecks(r.Context())
	if err != nil {
		RespondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, decks)
}

// UpdateDeck handles PUT /decks/{deckID}.
func (h *DeckHandler) UpdateDeck(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUser(w, r)
	if !ok {
		return
	}
	deckID, ok := pathID(w, r, "deckID")
	if !ok {
		return
	}

	var req DeckRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	updated, err := h.decks.UpdateDeck(r.Context(), userID, deckID, deck.DeckInput{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		IsPublic:    req.IsPublic,
	})
	if err != nil {
		RespondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, updated)
}

// DeleteDeck handles DELETE /decks/{deckID}.
func (h *DeckHandler) DeleteDeck(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUser(w, r)
	if !ok {
		return
	}
	deckID, ok := pathID(w, r, "deckID")
	if !ok {
		return
	}

	if err := h.decks.DeleteDeck(r.Context(), userID, deckID); err != nil {
		RespondServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListCards handles GET /decks/{deckID}/cards.
func (h *DeckHandler) ListCards(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUser(w, r)
	if !ok {
		return
	}
	deckID, ok := pathID(w, r, "deckID")
	if !ok {
		return
	}

	cards, err := h.decks.ListCards(r.Context(), userID, deckID)
	if err != nil {
		RespondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, cards)
}

// AddCard handles POST /decks/{deckID}/cards.
func (h *DeckHandler) AddCard(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUser(w, r)
	if !ok {
		return
	}
	deckID, ok := pathID(w, r, "deckID")
	if !ok {
		return
	}

	var req CardRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	card, err := h.decks.AddCard(r.Context(), userID, deckID, cardInputFromRequest(req))
	if err != nil {
		RespondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, card)
}

// UpdateCard handles PUT /cards/{cardID}.
func (h *DeckHandler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUser(w, r)
	if !ok {
		return
	}
	cardID, ok := pathID(w, r, "cardID")
	if !ok {
		return
	}

	var req CardRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	card, err := h.decks.UpdateCard(r.Context(), userID, cardID, cardInputFromRequest(req))
	if err != nil {
		RespondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, card)
}

// DeleteCard handles DELETE /cards/{cardID}.
func (h *DeckHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUser(w, r)
	if !ok {
		return
	}
	cardID, ok := pathID(w, r, "cardID")
	if !ok {
		return
	}

	if err := h.decks.DeleteCard(r.Context(), userID, cardID); err != nil {
		RespondServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GenerateCards handles POST /decks/{deckID}/generate.
func (h *DeckHandler) GenerateCards(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUser(w, r)
	if !ok {
		return
	}
	deckID, ok := pathID(w, r, "deckID")
	if !ok {
		return
	}

	var req GenerateCardsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	cards, err := h.decks.GenerateCards(r.Context(), userID, deckID, req.Topic, req.Count)
	if err != nil {
		RespondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, cards)
}

func cardInputFromRequest(req CardRequest) deck.CardInput {
	return deck.CardInput{
		Question:   req.Question,
		Answer:     req.Answer,
		ImageURL:   req.ImageURL,
		AudioURL:   req.AudioURL,
		Tags:       req.Tags,
		Difficulty: req.Difficulty,
	}
}
