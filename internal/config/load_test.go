package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A secret long enough to satisfy the min=32 validation rule.
const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("QUIZORA_DATABASE_URL", "postgres://localhost:5432/quizora")
	t.Setenv("QUIZORA_AUTH_JWT_SECRET", testSecret)
	t.Setenv("QUIZORA_SERVER_PORT", "9090")
	t.Setenv("QUIZORA_SERVER_LOG_LEVEL", "debug")
	t.Setenv("QUIZORA_SCHEDULER_INTERVAL_POLICY", "geometric")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, "postgres://localhost:5432/quizora", cfg.Database.URL)
	assert.Equal(t, testSecret, cfg.Auth.JWTSecret)
	assert.Equal(t, "geometric", cfg.Scheduler.IntervalPolicy)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("QUIZORA_DATABASE_URL", "postgres://localhost:5432/quizora")
	t.Setenv("QUIZORA_AUTH_JWT_SECRET", testSecret)

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, 15, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 60, cfg.Auth.TokenLifetimeMinutes)
	assert.Equal(t, "immediate", cfg.Scheduler.IntervalPolicy)
	assert.Equal(t, "gemini-2.0-flash", cfg.LLM.ModelName)
}

func TestLoadValidation(t *testing.T) {
	t.Run("missing database url", func(t *testing.T) {
		t.Setenv("QUIZORA_AUTH_JWT_SECRET", testSecret)

		_, err := Load()

		assert.Error(t, err)
	})

	t.Run("short jwt secret", func(t *testing.T) {
		t.Setenv("QUIZORA_DATABASE_URL", "postgres://localhost:5432/quizora")
		t.Setenv("QUIZORA_AUTH_JWT_SECRET", "short")

		_, err := Load()

		assert.Error(t, err)
	})

	t.Run("unknown interval policy", func(t *testing.T) {
		t.Setenv("QUIZORA_DATABASE_URL", "postgres://localhost:5432/quizora")
		t.Setenv("QUIZORA_AUTH_JWT_SECRET", testSecret)
		t.Setenv("QUIZORA_SCHEDULER_INTERVAL_POLICY", "exponential")

		_, err := Load()

		assert.Error(t, err)
	})

	t.Run("invalid log level", func(t *testing.T) {
		t.Setenv("QUIZORA_DATABASE_URL", "postgres://localhost:5432/quizora")
		t.Setenv("QUIZORA_AUTH_JWT_SECRET", testSecret)
		t.Setenv("QUIZORA_SERVER_LOG_LEVEL", "verbose")

		_, err := Load()

		assert.Error(t, err)
	})
}
