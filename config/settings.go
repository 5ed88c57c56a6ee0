package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Settings are the process-level options read from the environment.
type Settings struct {
	Port string

	GCPProjectID   string
	GCPLocation    string
	GeminiModel    string
	EmbeddingModel string

	TelegramBotToken string
	NotifyRatePerSec float64
	NotifyFanout     int

	ServiceAPIKeyHash string
	JWTSecret         string

	Workers            int
	ReasoningTimeout   time.Duration
	// DepartmentCacheTTL bounds how stale display lookups may be; routing
	// decisions always re-read the department row.
	DepartmentCacheTTL time.Duration
	TraceTTL           time.Duration

	MongoDB string
}

func LoadSettings() Settings {
	return Settings{
		Port: envOr("PORT", "8080"),

		GCPProjectID:   os.Getenv("GCP_PROJECT_ID"),
		GCPLocation:    envOr("GCP_LOCATION", "us-central1"),
		GeminiModel:    envOr("GEMINI_MODEL", "gemini-2.5-flash"),
		EmbeddingModel: envOr("EMBEDDING_MODEL", "gemini-embedding-001"),

		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		NotifyRatePerSec: envFloat("NOTIFY_RATE_PER_SEC", 25),
		NotifyFanout:     envInt("NOTIFY_FANOUT", 8),

		ServiceAPIKeyHash: os.Getenv("SERVICE_API_KEY_HASH"),
		JWTSecret:         os.Getenv("JWT_SECRET"),

		Workers:            envInt("WORKERS", 4),
		ReasoningTimeout:   envDuration("REASONING_TIMEOUT", 60*time.Second),
		DepartmentCacheTTL: envDuration("DEPARTMENT_CACHE_TTL", 5*time.Minute),
		TraceTTL:           envDuration("TRACE_TTL", 30*24*time.Hour),

		MongoDB: envOr("MONGO_DB", "routing"),
	}
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func envFloat(key string, def float64) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(os.Getenv(key)), 64)
	if err != nil || f < 0 {
		return def
	}
	return f
}

func envDuration(key string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(os.Getenv(key)))
	if err != nil || d <= 0 {
		return def
	}
	return d
}
