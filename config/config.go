// Package config provides application configuration loaded from environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"loan-advisor/finance"
	"loan-advisor/llm"
)

// Config holds all application configuration.
type Config struct {
	Port     string
	LogLevel string

	// LLMProvider is gemini, openai or offline. Empty picks the first
	// provider with a key, else offline.
	LLMProvider     string
	GeminiAPIKey    string
	OpenAIAPIKey    string
	GenerationModel string
	EmbeddingModel  string
	// EmbeddingDimensions must match the vectors of the corpus file.
	EmbeddingDimensions int
	GenerationTimeout   time.Duration

	CorpusPath         string
	RetrievalTopK      int
	RetrievalMinScore  float64
	EmbeddingCacheSize int

	// RedisAddr selects the redis-backed stores; empty keeps everything in memory.
	RedisAddr  string
	SessionTTL time.Duration

	PredictionURL     string
	PredictionTimeout time.Duration

	RateLimitPerMinute int
	RateLimitBurst     int

	MetricsEnabled bool

	Risk finance.RiskConfig
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// Load reads configuration from environment variables, loading .env first
// when present. Missing values fall back to defaults.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("Failed to load .env file", "error", err)
	}

	risk := finance.DefaultRiskConfig()
	cfg := &Config{
		Port:                getEnv("PORT", "8080"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		LLMProvider:         strings.ToLower(getEnv("LLM_PROVIDER", "")),
		GeminiAPIKey:        os.Getenv("GEMINI_API_KEY"),
		OpenAIAPIKey:        os.Getenv("OPENAI_API_KEY"),
		GenerationModel:     os.Getenv("GENERATION_MODEL"),
		EmbeddingModel:      os.Getenv("EMBEDDING_MODEL"),
		EmbeddingDimensions: getEnvAsInt("EMBEDDING_DIMENSIONS", 0),
		GenerationTimeout:   getEnvAsDuration("GENERATION_TIMEOUT", 30*time.Second),
		CorpusPath:          getEnv("CORPUS_PATH", "data/embeddings.json"),
		RetrievalTopK:       getEnvAsInt("RETRIEVAL_TOP_K", 5),
		RetrievalMinScore:   getEnvAsFloat("RETRIEVAL_MIN_SCORE", 0.1),
		EmbeddingCacheSize:  getEnvAsInt("EMBEDDING_CACHE_SIZE", 512),
		RedisAddr:           os.Getenv("REDIS_ADDR"),
		SessionTTL:          getEnvAsDuration("SESSION_TTL", 24*time.Hour),
		PredictionURL:       os.Getenv("PREDICTION_URL"),
		PredictionTimeout:   getEnvAsDuration("PREDICTION_TIMEOUT", 10*time.Second),
		RateLimitPerMinute:  getEnvAsInt("RATE_LIMIT_PER_MINUTE", 30),
		RateLimitBurst:      getEnvAsInt("RATE_LIMIT_BURST", 5),
		MetricsEnabled:      getEnvAsBool("METRICS_ENABLED", true),
		Risk: finance.RiskConfig{
			ReferenceRatePct:           getEnvAsFloat("RISK_REFERENCE_RATE", risk.ReferenceRatePct),
			CapacityMultiplier:         getEnvAsFloat("RISK_CAPACITY_MULTIPLIER", risk.CapacityMultiplier),
			DefaultStatementRegularity: getEnvAsFloat("RISK_DEFAULT_STATEMENT_REGULARITY", risk.DefaultStatementRegularity),
			DefaultEngagementScore:     getEnvAsFloat("RISK_DEFAULT_ENGAGEMENT", risk.DefaultEngagementScore),
		},
	}

	if cfg.LLMProvider == "" {
		cfg.LLMProvider = detectProvider(cfg)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func detectProvider(cfg *Config) string {
	switch {
	case cfg.GeminiAPIKey != "":
		return llm.ProviderGemini
	case cfg.OpenAIAPIKey != "":
		return llm.ProviderOpenAI
	default:
		return llm.ProviderOffline
	}
}

func (c *Config) validate() error {
	switch c.LLMProvider {
	case llm.ProviderGemini:
		if c.GeminiAPIKey == "" {
			return errors.New("GEMINI_API_KEY is required when LLM_PROVIDER=gemini")
		}
	case llm.ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return errors.New("OPENAI_API_KEY is required when LLM_PROVIDER=openai")
		}
	case llm.ProviderOffline:
	default:
		return fmt.Errorf("unsupported LLM_PROVIDER %q", c.LLMProvider)
	}

	if c.RetrievalTopK <= 0 {
		return fmt.Errorf("RETRIEVAL_TOP_K must be positive, got %d", c.RetrievalTopK)
	}
	if c.RetrievalMinScore < -1 || c.RetrievalMinScore > 1 {
		return fmt.Errorf("RETRIEVAL_MIN_SCORE must be within [-1, 1], got %v", c.RetrievalMinScore)
	}
	if c.EmbeddingCacheSize <= 0 {
		return fmt.Errorf("EMBEDDING_CACHE_SIZE must be positive, got %d", c.EmbeddingCacheSize)
	}
	if c.RateLimitPerMinute <= 0 || c.RateLimitBurst <= 0 {
		return errors.New("RATE_LIMIT_PER_MINUTE and RATE_LIMIT_BURST must be positive")
	}
	if c.Risk.ReferenceRatePct < 0 || c.Risk.CapacityMultiplier <= 0 {
		return errors.New("RISK_REFERENCE_RATE must be non-negative and RISK_CAPACITY_MULTIPLIER positive")
	}
	return nil
}
