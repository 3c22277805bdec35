package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Supported generative text providers. ProviderNone serves procedural
// dialogue only.
const (
	ProviderNone      = "none"
	ProviderAnthropic = "anthropic"
	ProviderVenice    = "venice"
	ProviderOpenAI    = "openai"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    slog.Level

	LLMProvider     string
	ModelName       string
	AnthropicAPIKey string
	VeniceAPIKey    string
	OpenAIAPIKey    string
	OpenAIBaseURL   string

	RedisURL string

	GenerationTimeout time.Duration
	GenerationRate    float64 // generations per second, 0 disables limiting
	GenerationBurst   int

	DialogueSeed  uint64 // 0 seeds each game from the clock
	FactionsFile  string // empty uses the embedded table
	ContentRating string
}

// Load reads configuration from the environment, after loading a .env file
// if one exists.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	timeout, err := time.ParseDuration(getEnv("GENERATION_TIMEOUT", "20s"))
	if err != nil {
		return nil, fmt.Errorf("invalid GENERATION_TIMEOUT: %w", err)
	}
	rate, err := strconv.ParseFloat(getEnv("GENERATION_RATE", "2"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid GENERATION_RATE: %w", err)
	}
	burst, err := strconv.Atoi(getEnv("GENERATION_BURST", "4"))
	if err != nil {
		return nil, fmt.Errorf("invalid GENERATION_BURST: %w", err)
	}
	seed, err := strconv.ParseUint(getEnv("DIALOGUE_SEED", "0"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid DIALOGUE_SEED: %w", err)
	}

	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		Environment:       getEnv("ENVIRONMENT", "development"),
		LogLevel:          parseLogLevel(getEnv("LOG_LEVEL", "info")),
		LLMProvider:       strings.ToLower(getEnv("LLM_PROVIDER", ProviderNone)),
		ModelName:         getEnv("MODEL_NAME", ""),
		AnthropicAPIKey:   getEnv("ANTHROPIC_API_KEY", ""),
		VeniceAPIKey:      getEnv("VENICE_API_KEY", ""),
		OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:     getEnv("OPENAI_BASE_URL", ""),
		RedisURL:          getEnv("REDIS_URL", "localhost:6379"),
		GenerationTimeout: timeout,
		GenerationRate:    rate,
		GenerationBurst:   burst,
		DialogueSeed:      seed,
		FactionsFile:      getEnv("FACTIONS_FILE", ""),
		ContentRating:     getEnv("CONTENT_RATING", "PG13"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the provider settings are usable.
func (c *Config) Validate() error {
	switch c.LLMProvider {
	case ProviderNone:
		return nil
	case ProviderAnthropic:
		if c.AnthropicAPIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required when using the anthropic provider")
		}
	case ProviderVenice:
		if c.VeniceAPIKey == "" {
			return fmt.Errorf("VENICE_API_KEY is required when using the venice provider")
		}
	case ProviderOpenAI:
		// Self-hosted servers behind OPENAI_BASE_URL usually need no key.
		if c.OpenAIAPIKey == "" && c.OpenAIBaseURL == "" {
			return fmt.Errorf("OPENAI_API_KEY or OPENAI_BASE_URL is required when using the openai provider")
		}
	default:
		return fmt.Errorf("unsupported LLM_PROVIDER %q (supported: none, anthropic, venice, openai)", c.LLMProvider)
	}
	if c.ModelName == "" {
		return fmt.Errorf("MODEL_NAME is required when using the %s provider", c.LLMProvider)
	}
	return nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
