package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Session store backends.
const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

// Config holds all application configuration.
type Config struct {
	ServerPort   string
	GinMode      string
	LogLevel     string
	LogFormat    string
	BankManifest string
	AssetsDir    string
	SessionStore string
	RedisURL     string
	SessionTTL   time.Duration
	TicketSecret string
	TicketTTL    time.Duration
	// RandomSeed fixes question sampling when non-zero.
	RandomSeed uint64
	// CreateRatePerMinute limits new sessions per client IP.
	CreateRatePerMinute int
	// AllowedOrigins controls HTTP CORS and WebSocket origin validation.
	// Empty slice means all origins are permitted (dev default).
	AllowedOrigins []string
}

// Load reads configuration from environment variables with sensible defaults.
// It loads .env file if present but does not fail if missing.
func Load() *Config {
	_ = godotenv.Load() // .env is optional

	return &Config{
		ServerPort:          getEnv("SERVER_PORT", "8080"),
		GinMode:             getEnv("GIN_MODE", "debug"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		LogFormat:           getEnv("LOG_FORMAT", "pretty"),
		BankManifest:        getEnv("BANK_MANIFEST", "data/banks.yaml"),
		AssetsDir:           getEnv("ASSETS_DIR", "./assets"),
		SessionStore:        strings.ToLower(getEnv("SESSION_STORE", SessionStoreMemory)),
		RedisURL:            getEnv("REDIS_URL", "redis://localhost:6379/0"),
		SessionTTL:          time.Duration(getEnvInt("SESSION_TTL_MINUTES", 60)) * time.Minute,
		TicketSecret:        getEnv("TICKET_SECRET", "change-this-to-a-secure-random-string"),
		TicketTTL:           time.Duration(getEnvInt("TICKET_TTL_MINUTES", 60)) * time.Minute,
		RandomSeed:          uint64(getEnvInt("RANDOM_SEED", 0)),
		CreateRatePerMinute: getEnvInt("CREATE_RATE_PER_MINUTE", 30),
		AllowedOrigins:      parseOrigins(getEnv("ALLOWED_ORIGINS", "")),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

// parseOrigins splits a comma-separated origins string into a trimmed slice.
// Returns nil (allow-all) if the input is empty.
func parseOrigins(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
