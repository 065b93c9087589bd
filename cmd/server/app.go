package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/quizora/quizora-api/internal/config"
	"github.com/quizora/quizora-api/internal/distractor"
	"github.com/quizora/quizora-api/internal/domain/srs"
	"github.com/quizora/quizora-api/internal/generation"
	"github.com/quizora/quizora-api/internal/platform/gemini"
	"github.com/quizora/quizora-api/internal/platform/postgres"
	"github.com/quizora/quizora-api/internal/service/auth"
	deckservice "github.com/quizora/quizora-api/internal/service/deck"
	"github.com/quizora/quizora-api/internal/service/stats"
	"github.com/quizora/quizora-api/internal/service/study"
)

// application holds the assembled dependency graph of the server.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	jwtService   auth.JWTService
	userService  *auth.UserService
	deckService  *deckservice.Service
	studyService *study.Service
	statsService *stats.Service
}

// newApplication connects to the database and wires stores, services, and
// the optional LLM integration.
func newApplication(ctx context.Context, cfg *config.Config, log *slog.Logger) (*application, error) {
	db, err := setupDatabase(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	userStore := postgres.NewUserStore(db)
	deckStore := postgres.NewDeckStore(db)
	cardStore := postgres.NewCardStore(db)
	stateStore := postgres.NewReviewStateStore(db)
	attemptStore := postgres.NewAttemptStore(db)
	analyticsStore := postgres.NewAnalyticsStore(db)

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}

	bcryptVerifier := auth.NewBcryptVerifier(cfg.Auth.BcryptCost)
	userService, err := auth.NewUserService(userStore, bcryptVerifier, bcryptVerifier, jwtService, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %w", err)
	}

	// The LLM stack is optional: without an API key, card generation is
	// disabled and quizzes fall back to deck-derived distractors.
	var cardGenerator generation.CardGenerator
	var source distractor.Source
	if cfg.LLM.GeminiAPIKey != "" {
		textGen, err := gemini.NewTextGenerator(ctx, log, cfg.LLM)
		if err != nil {
			return nil, fmt.Errorf("failed to create text generator: %w", err)
		}
		cardGenerator, err = generation.NewCardGenerator(textGen, log)
		if err != nil {
			return nil, fmt.Errorf("failed to create card generator: %w", err)
		}
		source, err = distractor.NewGenerativeSource(textGen, log)
		if err != nil {
			return nil, fmt.Errorf("failed to create distractor source: %w", err)
		}
	}

	deckService, err := deckservice.NewService(db, deckStore, cardStore, cardGenerator, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create deck service: %w", err)
	}

	studyService, err := study.NewService(
		db, deckStore, cardStore, stateStore, attemptStore,
		schedulerFromConfig(cfg.Scheduler), source, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create study service: %w", err)
	}

	statsService, err := stats.NewService(
		deckStore, cardStore, stateStore, attemptStore, analyticsStore, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create stats service: %w", err)
	}

	return &application{
		config:       cfg,
		logger:       log,
		db:           db,
		jwtService:   jwtService,
		userService:  userService,
		deckService:  deckService,
		studyService: studyService,
		statsService: statsService,
	}, nil
}

// schedulerFromConfig builds the review scheduler for the configured
// interval policy.
func schedulerFromConfig(cfg config.SchedulerConfig) srs.Service {
	if cfg.IntervalPolicy == string(srs.PolicyGeometric) {
		return srs.NewServiceWithParams(srs.NewGeometricParams())
	}
	return srs.NewDefaultService()
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database connection", "error", err)
		}
	}
}
