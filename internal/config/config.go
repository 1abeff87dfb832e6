package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Load reads the .env file specified by RATELENS_ENV (or .env by default),
// then loads the corresponding .secret file if it exists.
// All config is flat env vars read via os.Getenv after loading.
func Load() error {
	envFile := os.Getenv("RATELENS_ENV")
	if envFile == "" {
		envFile = ".env"
	}

	// Missing files are fine; the process environment still applies.
	_ = godotenv.Load(envFile)
	_ = godotenv.Load(envFile + ".secret")

	return nil
}

func getString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func getFloat(key string, def float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func ServerPort() int {
	return getInt("SERVER_PORT", 8080)
}

func ServerAddr() string {
	return fmt.Sprintf(":%d", ServerPort())
}

// LogLevel returns the log level (debug, info, warn, error).
// Defaults to "info" if not set.
func LogLevel() string {
	return getString("LOG_LEVEL", "info")
}

// RateLimitRPS returns requests per second limit.
// Defaults to 100 if not set.
func RateLimitRPS() float64 {
	return getFloat("RATE_LIMIT_RPS", 100)
}

// RateLimitBurst returns the burst size for rate limiting.
// Defaults to 20 if not set.
func RateLimitBurst() int {
	return getInt("RATE_LIMIT_BURST", 20)
}

// StoreBackend returns the feedback store backend.
// Valid values: file, redis, postgres, sqlite. Defaults to "file".
func StoreBackend() string {
	return getString("STORE_BACKEND", "file")
}

func FeedbackFile() string {
	return getString("FEEDBACK_FILE", "data/feedback.yaml")
}

func RedisURL() string {
	return getString("REDIS_URL", "localhost:6379")
}

func RedisKey() string {
	return getString("REDIS_KEY", "ratelens:feedback")
}

func DatabaseURL() string {
	return os.Getenv("DATABASE_URL")
}

func SQLitePath() string {
	return getString("SQLITE_PATH", "data/feedback.db")
}

// LLMProvider returns the configured LLM provider.
// Defaults to "openrouter" if not set.
// Valid values: openrouter, openai, anthropic, gemini, cerebras, mock
func LLMProvider() string {
	return getString("LLM_PROVIDER", "openrouter")
}

// LLMModel returns the model override; empty means the provider default.
func LLMModel() string {
	return os.Getenv("LLM_MODEL")
}

// LLMBaseURL overrides the provider endpoint, e.g. for a proxy.
func LLMBaseURL() string {
	return os.Getenv("LLM_BASE_URL")
}

// LLMTimeout bounds a single model call. Defaults to 30s.
func LLMTimeout() time.Duration {
	d, err := time.ParseDuration(os.Getenv("LLM_TIMEOUT"))
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// LLMMaxRetries returns how many times a rate-limited or failed call is retried.
// Zero is allowed and disables retries.
func LLMMaxRetries() int {
	n, err := strconv.Atoi(os.Getenv("LLM_MAX_RETRIES"))
	if err != nil || n < 0 {
		return 2
	}
	return n
}

// LLMAPIKey returns the API key for the configured LLM provider.
func LLMAPIKey() string {
	switch LLMProvider() {
	case "openai":
		return os.Getenv("OPENAI_API_KEY")
	case "anthropic":
		return os.Getenv("ANTHROPIC_API_KEY")
	case "gemini":
		return os.Getenv("GEMINI_API_KEY")
	case "cerebras":
		return os.Getenv("CEREBRAS_API_KEY")
	case "mock":
		return ""
	default:
		return os.Getenv("OPENROUTER_API_KEY")
	}
}

// AdminKeyHash returns the bcrypt hash guarding the admin routes.
// Admin routes are not mounted when it is empty.
func AdminKeyHash() string {
	return os.Getenv("ADMIN_KEY_HASH")
}

// MonitorSchedule is the cron expression for the accuracy monitor; "off" disables it.
func MonitorSchedule() string {
	return getString("MONITOR_SCHEDULE", "@hourly")
}

// MonitorEnabled reports whether MONITOR_SCHEDULE leaves the monitor on.
// An unset variable means the default schedule.
func MonitorEnabled() bool {
	return !strings.EqualFold(strings.TrimSpace(MonitorSchedule()), "off")
}

func MonitorMaxCorrectionRate() float64 {
	return getFloat("MONITOR_MAX_CORRECTION_RATE", 0.4)
}

func MonitorMinFeedback() int {
	return getInt("MONITOR_MIN_FEEDBACK", 10)
}

func BatchMaxRows() int {
	return getInt("BATCH_MAX_ROWS", 100)
}

func BatchConcurrency() int {
	return getInt("BATCH_CONCURRENCY", 4)
}
