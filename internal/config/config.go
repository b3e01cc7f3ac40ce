package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the configuration for the application.
type Config struct {
	DatabasePath      string
	RecipeStoragePath string
	RulesPath         string
	UnitsPath         string
	DefaultPlanDays   int

	// HTTP API
	HTTPAddr    string
	JWTSecret   string
	CORSOrigins []string

	// Ghost CMS recipe source
	GhostURL        string
	GhostContentKey string
	GhostAdminKey   string
	GhostRecipeTag  string

	// Telegram Config
	TelegramBotToken       string
	TelegramWebhookURL     string
	TelegramAllowedUserIDs []int64
	AdminTelegramID        int64

	LogLevel  string
	LogPretty bool
}

// NewFromEnv creates a new Config object from environment variables.
// Outside production a local .env file is read first; real environment variables win.
func NewFromEnv() (*Config, error) {
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}

	planDays, err := intEnv("DEFAULT_PLAN_DAYS", 7)
	if err != nil {
		return nil, err
	}
	if planDays < 1 {
		return nil, fmt.Errorf("DEFAULT_PLAN_DAYS must be at least 1, got %d", planDays)
	}

	allowed, err := idListEnv("TELEGRAM_ALLOWED_USER_IDS")
	if err != nil {
		return nil, err
	}

	var adminID int64
	if s := os.Getenv("ADMIN_TELEGRAM_ID"); s != "" {
		adminID, err = strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("ADMIN_TELEGRAM_ID is not a valid id: %q", s)
		}
	}

	// The admin key is optional; without it clipped recipes cannot be published.
	ghostAdminKey := os.Getenv("GHOST_ADMIN_API_KEY")

	return &Config{
		DatabasePath:           stringEnv("DATABASE_PATH", filepath.Join("data", "meal-grocer.db")),
		RecipeStoragePath:      stringEnv("RECIPE_STORAGE_PATH", filepath.Join("data", "recipes")),
		RulesPath:              os.Getenv("RULES_PATH"),
		UnitsPath:              os.Getenv("UNITS_PATH"),
		DefaultPlanDays:        planDays,
		HTTPAddr:               stringEnv("HTTP_ADDR", ":8080"),
		JWTSecret:              os.Getenv("JWT_SECRET"),
		CORSOrigins:            listEnv("CORS_ORIGINS"),
		GhostURL:               strings.TrimSuffix(os.Getenv("GHOST_API_URL"), "/"),
		GhostContentKey:        os.Getenv("GHOST_CONTENT_API_KEY"),
		GhostAdminKey:          ghostAdminKey,
		GhostRecipeTag:         os.Getenv("GHOST_RECIPE_TAG"),
		TelegramBotToken:       os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramWebhookURL:     os.Getenv("TELEGRAM_WEBHOOK_URL"),
		TelegramAllowedUserIDs: allowed,
		AdminTelegramID:        adminID,
		LogLevel:               stringEnv("LOG_LEVEL", "info"),
		LogPretty:              os.Getenv("LOG_PRETTY") == "true",
	}, nil
}

// DataDir is the directory holding the database file.
func (c *Config) DataDir() string {
	return filepath.Dir(c.DatabasePath)
}

// RequireHTTP reports the first setting missing for the HTTP API.
func (c *Config) RequireHTTP() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET environment variable not set")
	}
	return nil
}

// RequireGhost reports the first setting missing for syncing recipes from Ghost.
func (c *Config) RequireGhost() error {
	if c.GhostURL == "" {
		return fmt.Errorf("GHOST_API_URL environment variable not set")
	}
	if c.GhostContentKey == "" {
		return fmt.Errorf("GHOST_CONTENT_API_KEY environment variable not set")
	}
	return nil
}

// RequireTelegram reports the first setting missing for the Telegram bot.
func (c *Config) RequireTelegram() error {
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

func stringEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("%s is not a number: %q", key, v)
	}
	return n, nil
}

func listEnv(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func idListEnv(key string) ([]int64, error) {
	var ids []int64
	for _, part := range listEnv(key) {
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%s contains an invalid id: %q", key, part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
