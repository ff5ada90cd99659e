package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"diet-planner/internal/logger"
	"diet-planner/internal/planner"

	"github.com/joho/godotenv"
)

// CatalogFromDatabase is the CATALOG_PATH value that loads the imported catalog from SQLite.
const CatalogFromDatabase = "sqlite"

// Config holds the configuration for the application.
type Config struct {
	CatalogPath  string
	DatabasePath string

	HTTPAddress     string
	ShutdownTimeout time.Duration

	LogLevel       string
	LogFormat      string
	LogDevelopment bool

	// Selection heuristics
	CalorieTolerance      float64
	VarietyFloor          int
	OptionsPerMeal        int
	DefaultTargetCalories int

	MetricsRetentionDays int

	// API auth is enabled when JWTSecret is set.
	JWTSecret string
	JWTIssuer string

	// Telegram Config
	TelegramBotToken       string
	TelegramWebhookURL     string
	TelegramAllowedUserIDs []int64
	TelegramAdminID        int64
}

// LoadDotEnv loads variables from the given .env files (default ".env")
// without overriding ones already set. Missing files are not an error.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// NewFromEnv creates a new Config object from environment variables.
func NewFromEnv() (*Config, error) {
	cfg := &Config{
		CatalogPath:        getEnv("CATALOG_PATH", "datasets/diet_dataset_1000.csv"),
		DatabasePath:       getEnv("DATABASE_PATH", "data/diet-planner.db"),
		HTTPAddress:        getEnv("HTTP_ADDRESS", ":8080"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "json"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		JWTIssuer:          getEnv("JWT_ISSUER", "diet-planner"),
		TelegramBotToken:   os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramWebhookURL: os.Getenv("TELEGRAM_WEBHOOK_URL"),
	}

	var err error
	if cfg.ShutdownTimeout, err = getDurationEnv("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.LogDevelopment, err = getBoolEnv("LOG_DEVELOPMENT", false); err != nil {
		return nil, err
	}
	if cfg.CalorieTolerance, err = getFloatEnv("CALORIE_TOLERANCE", 0.35); err != nil {
		return nil, err
	}
	if cfg.CalorieTolerance <= 0 || cfg.CalorieTolerance > 1 {
		return nil, fmt.Errorf("CALORIE_TOLERANCE must be in (0, 1], got %v", cfg.CalorieTolerance)
	}
	if cfg.VarietyFloor, err = getIntEnv("VARIETY_FLOOR", 7); err != nil {
		return nil, err
	}
	if cfg.VarietyFloor < 1 {
		return nil, fmt.Errorf("VARIETY_FLOOR must be at least 1, got %d", cfg.VarietyFloor)
	}
	if cfg.OptionsPerMeal, err = getIntEnv("OPTIONS_PER_MEAL", 1); err != nil {
		return nil, err
	}
	if cfg.OptionsPerMeal < 1 {
		return nil, fmt.Errorf("OPTIONS_PER_MEAL must be at least 1, got %d", cfg.OptionsPerMeal)
	}
	if cfg.DefaultTargetCalories, err = getIntEnv("DEFAULT_TARGET_CALORIES", planner.DefaultTargetCalories); err != nil {
		return nil, err
	}
	if cfg.DefaultTargetCalories <= 0 {
		return nil, fmt.Errorf("DEFAULT_TARGET_CALORIES must be positive, got %d", cfg.DefaultTargetCalories)
	}
	if cfg.MetricsRetentionDays, err = getIntEnv("METRICS_RETENTION_DAYS", 30); err != nil {
		return nil, err
	}
	if cfg.TelegramAdminID, err = getInt64Env("TELEGRAM_ADMIN_ID", 0); err != nil {
		return nil, err
	}
	if cfg.TelegramAllowedUserIDs, err = parseIDs(os.Getenv("TELEGRAM_ALLOWED_USER_IDS")); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ValidateTelegram checks the settings the bot cannot run without.
func (c *Config) ValidateTelegram() error {
	if c.TelegramBotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable not set")
	}
	if c.TelegramWebhookURL == "" {
		return fmt.Errorf("TELEGRAM_WEBHOOK_URL environment variable not set")
	}
	if len(c.TelegramAllowedUserIDs) == 0 {
		return fmt.Errorf("TELEGRAM_ALLOWED_USER_IDS environment variable not set")
	}
	return nil
}

// AuthEnabled reports whether the HTTP API requires a bearer token.
func (c *Config) AuthEnabled() bool {
	return c.JWTSecret != ""
}

// PlannerTuning returns the selection heuristics.
func (c *Config) PlannerTuning() planner.Tuning {
	return planner.Tuning{
		CalorieTolerance:      c.CalorieTolerance,
		VarietyFloor:          c.VarietyFloor,
		DefaultTargetCalories: c.DefaultTargetCalories,
	}
}

// Logger returns the logger settings.
func (c *Config) Logger() logger.Config {
	return logger.Config{Level: c.LogLevel, Format: c.LogFormat, Development: c.LogDevelopment}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getIntEnv(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return parsed, nil
}

func getInt64Env(key string, fallback int64) (int64, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return parsed, nil
}

func getFloatEnv(key string, fallback float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return parsed, nil
}

func getBoolEnv(key string, fallback bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return parsed, nil
}

func getDurationEnv(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return parsed, nil
}

func parseIDs(value string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_ALLOWED_USER_IDS entry %q: %w", part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
