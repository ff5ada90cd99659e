package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var managedKeys = []string{
	"CATALOG_PATH", "DATABASE_PATH", "HTTP_ADDRESS", "HTTP_SHUTDOWN_TIMEOUT",
	"LOG_LEVEL", "LOG_FORMAT", "LOG_DEVELOPMENT",
	"CALORIE_TOLERANCE", "VARIETY_FLOOR", "OPTIONS_PER_MEAL", "DEFAULT_TARGET_CALORIES",
	"METRICS_RETENTION_DAYS", "JWT_SECRET", "JWT_ISSUER",
	"TELEGRAM_BOT_TOKEN", "TELEGRAM_WEBHOOK_URL", "TELEGRAM_ALLOWED_USER_IDS", "TELEGRAM_ADMIN_ID",
}

// clearEnv blanks every key NewFromEnv reads; t.Setenv restores them afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range managedKeys {
		t.Setenv(key, "")
	}
}

func TestNewFromEnv(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		clearEnv(t)

		cfg, err := NewFromEnv()
		require.NoError(t, err)
		assert.Equal(t, "datasets/diet_dataset_1000.csv", cfg.CatalogPath)
		assert.Equal(t, "data/diet-planner.db", cfg.DatabasePath)
		assert.Equal(t, ":8080", cfg.HTTPAddress)
		assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
		assert.Equal(t, 0.35, cfg.CalorieTolerance)
		assert.Equal(t, 7, cfg.VarietyFloor)
		assert.Equal(t, 1, cfg.OptionsPerMeal)
		assert.Equal(t, 2000, cfg.DefaultTargetCalories)
		assert.Equal(t, 30, cfg.MetricsRetentionDays)
		assert.Equal(t, "diet-planner", cfg.JWTIssuer)
		assert.False(t, cfg.AuthEnabled())
		assert.Empty(t, cfg.TelegramAllowedUserIDs)
	})

	t.Run("Overrides", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("CATALOG_PATH", "sqlite")
		t.Setenv("CALORIE_TOLERANCE", "0.2")
		t.Setenv("VARIETY_FLOOR", "10")
		t.Setenv("OPTIONS_PER_MEAL", "3")
		t.Setenv("LOG_DEVELOPMENT", "true")
		t.Setenv("JWT_SECRET", "s3cret")
		t.Setenv("TELEGRAM_ALLOWED_USER_IDS", "42, 7,,")
		t.Setenv("TELEGRAM_ADMIN_ID", "42")

		cfg, err := NewFromEnv()
		require.NoError(t, err)
		assert.Equal(t, CatalogFromDatabase, cfg.CatalogPath)
		assert.True(t, cfg.AuthEnabled())
		assert.True(t, cfg.Logger().Development)
		assert.Equal(t, []int64{42, 7}, cfg.TelegramAllowedUserIDs)
		assert.Equal(t, int64(42), cfg.TelegramAdminID)

		tuning := cfg.PlannerTuning()
		assert.Equal(t, 0.2, tuning.CalorieTolerance)
		assert.Equal(t, 10, tuning.VarietyFloor)
	})

	invalid := []struct {
		key, value, wantErr string
	}{
		{"CALORIE_TOLERANCE", "lots", "invalid CALORIE_TOLERANCE"},
		{"CALORIE_TOLERANCE", "1.5", "CALORIE_TOLERANCE must be in (0, 1]"},
		{"VARIETY_FLOOR", "0", "VARIETY_FLOOR must be at least 1"},
		{"OPTIONS_PER_MEAL", "two", "invalid OPTIONS_PER_MEAL"},
		{"DEFAULT_TARGET_CALORIES", "-100", "DEFAULT_TARGET_CALORIES must be positive"},
		{"HTTP_SHUTDOWN_TIMEOUT", "soon", "invalid HTTP_SHUTDOWN_TIMEOUT"},
		{"TELEGRAM_ALLOWED_USER_IDS", "42,abc", "invalid TELEGRAM_ALLOWED_USER_IDS entry"},
	}
	for _, tt := range invalid {
		t.Run("Invalid"+tt.key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := NewFromEnv()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateTelegram(t *testing.T) {
	cfg := &Config{}
	assert.EqualError(t, cfg.ValidateTelegram(), "TELEGRAM_BOT_TOKEN environment variable not set")

	cfg.TelegramBotToken = "token"
	assert.EqualError(t, cfg.ValidateTelegram(), "TELEGRAM_WEBHOOK_URL environment variable not set")

	cfg.TelegramWebhookURL = "https://bot.example.com"
	assert.EqualError(t, cfg.ValidateTelegram(), "TELEGRAM_ALLOWED_USER_IDS environment variable not set")

	cfg.TelegramAllowedUserIDs = []int64{1}
	assert.NoError(t, cfg.ValidateTelegram())
}

func TestLoadDotEnv(t *testing.T) {
	t.Run("MissingFileIgnored", func(t *testing.T) {
		assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), ".env")))
	})

	t.Run("DoesNotOverride", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(path, []byte("VARIETY_FLOOR=9\nJWT_ISSUER=from-file\n"), 0o600))
		t.Setenv("VARIETY_FLOOR", "")
		t.Setenv("JWT_ISSUER", "from-env")
		require.NoError(t, os.Unsetenv("VARIETY_FLOOR"))

		require.NoError(t, LoadDotEnv(path))
		assert.Equal(t, "9", os.Getenv("VARIETY_FLOOR"))
		assert.Equal(t, "from-env", os.Getenv("JWT_ISSUER"))
	})
}
