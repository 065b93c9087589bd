package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/quizora/quizora-api/internal/api"
	apimiddleware "github.com/quizora/quizora-api/internal/api/middleware"
)

// setupRouter configures all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(apimiddleware.Trace)

	authHandler := api.NewAuthHandler(app.userService)
	deckHandler := api.NewDeckHandler(app.deckService)
	quizHandler := api.NewQuizHandler(app.studyService)
	statsHandler := api.NewStatsHandler(app.statsService)
	authMiddleware := apimiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.Refresh)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Deck management
			r.Get("/decks", deckHandler.ListDecks)
			r.Post("/decks", deckHandler.CreateDeck)
			r.Get("/decks/public", deckHandler.ListPublicDecks)
			r.Get("/decks/{deckID}", deckHandler.GetDeck)
			r.Put("/decks/{deckID}", deckHandler.UpdateDeck)
			r.Delete("/decks/{deckID}", deckHandler.DeleteDeck)

			// Card management
			r.Get("/decks/{deckID}/cards", deckHandler.ListCards)
			r.Post("/decks/{deckID}/cards", deckHandler.AddCard)
			r.Post("/decks/{deckID}/cards/generate", deckHandler.GenerateCards)
			r.Put("/cards/{cardID}", deckHandler.UpdateCard)
			r.Delete("/cards/{cardID}", deckHandler.DeleteCard)

			// Study
			r.Get("/decks/{deckID}/quiz", quizHandler.GenerateQuiz)
			r.Get("/decks/{deckID}/quiz/offline", quizHandler.GenerateOfflineQuiz)
			r.Post("/decks/{deckID}/answers", quizHandler.SubmitAnswer)

			// Statistics and analytics
			r.Get("/decks/{deckID}/stats", statsHandler.DeckStats)
			r.Get("/stats", statsHandler.UserStats)
			r.Get("/stats/weekly", statsHandler.WeeklyProgress)
			r.Get("/stats/history", statsHandler.History)
			r.Post("/analytics/generate", statsHandler.GenerateAnalytics)
			r.Get("/analytics", statsHandler.Analytics)
			r.Get("/analytics/{category}", statsHandler.AnalyticsByCategory)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
