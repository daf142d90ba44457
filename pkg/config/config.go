package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/korjavin/fridgechef/pkg/logger"
	"github.com/korjavin/fridgechef/pkg/reconcile"
)

// Config holds all configuration for the application
type Config struct {
	// HTTP API
	HTTPAddr string

	// Storage
	DataDir    string
	GCInterval time.Duration

	// Telegram Bot configuration (bot disabled when empty)
	BotToken string

	// OpenAI configuration (fallback recipes only when the key is empty)
	OpenAIAPIBase string
	OpenAIAPIKey  string
	OpenAIModel   string
	AITimeout     time.Duration

	// Menu suggestions
	MenuCount    int
	MenuCacheTTL time.Duration

	// Reconciliation
	LiquidKeywords []string

	// Logging
	LogLevel  string
	LogFormat string
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Global.Warn("Error loading .env file: %v", err)
	}

	cfg := &Config{
		HTTPAddr:      getEnvWithDefault("HTTP_ADDR", ":8080"),
		DataDir:       getEnvWithDefault("DATA_DIR", "./data"),
		BotToken:      os.Getenv("BOT_TOKEN"),
		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIAPIBase: getEnvWithDefault("OPENAI_API_BASE", "https://api.openai.com/v1"),
		OpenAIModel:   getEnvWithDefault("OPENAI_MODEL", "gpt-4o-mini"),
		LogLevel:      getEnvWithDefault("LOG_LEVEL", "info"),
		LogFormat:     getEnvWithDefault("LOG_FORMAT", "console"),
	}

	var err error
	if cfg.GCInterval, err = durationFromEnv("GC_INTERVAL", 10*time.Minute); err != nil {
		return nil, err
	}
	if cfg.AITimeout, err = durationFromEnv("AI_TIMEOUT", 20*time.Second); err != nil {
		return nil, err
	}
	if cfg.MenuCacheTTL, err = durationFromEnv("MENU_CACHE_TTL", 10*time.Minute); err != nil {
		return nil, err
	}

	cfg.MenuCount = 3
	if v := os.Getenv("MENU_COUNT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("MENU_COUNT must be a positive integer, got %q", v)
		}
		cfg.MenuCount = n
	}

	cfg.LiquidKeywords = reconcile.DefaultLiquidKeywords
	if v := os.Getenv("LIQUID_KEYWORDS"); v != "" {
		cfg.LiquidKeywords = splitList(v)
	}

	// Log configuration with sensitive data redacted
	logger.Global.Info("Configuration loaded: %+v", cfg.Redacted())
	return cfg, nil
}

// Redacted returns a copy safe to log
func (c Config) Redacted() Config {
	c.BotToken = redact(c.BotToken)
	c.OpenAIAPIKey = redact(c.OpenAIAPIKey)
	return c
}

func redact(s string) string {
	if len(s) > 8 {
		return s[:8] + "...REDACTED..."
	}
	return s
}

// getEnvWithDefault returns the value of the environment variable or the default value
func getEnvWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func durationFromEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
