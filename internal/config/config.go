package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port        string
	Environment string
	CORSOrigins string
	// Debug flags
	Debug bool

	// Logging
	LogDir      string // Empty disables the file sink
	LogMaxFiles int

	// Persistence medium
	StorageDriver   string // badger, sqlite, postgres, memory
	StoragePath     string // Directory (badger) or file (sqlite)
	DatabaseURL     string // postgres only
	TablePrefix     string // postgres only, derived from the environment
	StorageNS       string // Key prefix for every collection
	StorageCapacity int64  // Bytes, 0 = unlimited (memory driver only)

	// Generation backend
	GenerationProvider string // openai, anthropic, openrouter, lorem; empty infers from DefaultModel
	OpenAIAPIKey       string
	OpenAIBaseURL      string
	AnthropicAPIKey    string
	OpenRouterAPIKey   string
	DefaultModel       string
	GenerationRPS      float64
	GenerationBurst    int
	GenerationTimeout  time.Duration // 0 = no timeout

	// Streaming
	SSEKeepAlive time.Duration

	// Drafts
	DraftDebounce time.Duration

	// Billing / entitlement backend
	BillingURL     string
	BillingAPIKey  string
	EntitlementTTL time.Duration

	// Auth (bearer verification only, empty disables)
	AuthJWKSURL string
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")
	provider := getEnv("GENERATION_PROVIDER", "")

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: env,
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),
		// Debug flags - default to true in dev/test, false in production
		Debug: getEnv("DEBUG", getDefaultDebug(env)) == "true",

		LogDir:      getEnv("LOG_DIR", ""),
		LogMaxFiles: getEnvInt("LOG_MAX_FILES", 10),

		StorageDriver:   getEnv("STORAGE_DRIVER", "badger"),
		StoragePath:     getEnv("STORAGE_PATH", "./data/quill"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		TablePrefix:     getTablePrefix(env),
		StorageNS:       getStorageNamespace(env),
		StorageCapacity: int64(getEnvInt("STORAGE_CAPACITY_BYTES", 0)),

		GenerationProvider: provider,
		OpenAIAPIKey:       getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:      getEnv("OPENAI_BASE_URL", ""),
		AnthropicAPIKey:    getEnv("ANTHROPIC_API_KEY", ""),
		OpenRouterAPIKey:   getEnv("OPENROUTER_API_KEY", ""),
		DefaultModel:       getEnv("DEFAULT_MODEL", defaultModelFor(provider)),
		GenerationRPS:      getEnvFloat("GENERATION_RPS", 2),
		GenerationBurst:    getEnvInt("GENERATION_BURST", 4),
		GenerationTimeout:  getEnvDuration("GENERATION_TIMEOUT", 0),

		SSEKeepAlive: getEnvDuration("SSE_KEEPALIVE", 10*time.Second),

		DraftDebounce: getEnvDuration("DRAFT_DEBOUNCE", DefaultDraftDebounce),

		BillingURL:     getEnv("BILLING_URL", ""),
		BillingAPIKey:  getEnv("BILLING_API_KEY", ""),
		EntitlementTTL: getEnvDuration("ENTITLEMENT_TTL", 5*time.Minute),

		AuthJWKSURL: getEnv("AUTH_JWKS_URL", ""),
	}
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true"
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

// getStorageNamespace returns the key prefix based on environment
func getStorageNamespace(env string) string {
	// Allow manual override via STORAGE_NAMESPACE env var
	if ns := os.Getenv("STORAGE_NAMESPACE"); ns != "" {
		return ns
	}

	switch env {
	case "prod":
		return "quill:"
	case "test":
		return "quill_test:"
	default:
		return "quill_dev:"
	}
}

func defaultModelFor(provider string) string {
	switch provider {
	case "anthropic":
		return "claude-haiku-4-5-20251001"
	case "lorem":
		return "lorem-fast"
	case "openrouter":
		return "anthropic/claude-haiku-4.5"
	default:
		return "gpt-4o-mini"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return f
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}
