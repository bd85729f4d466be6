package config

import (
	"os"
	"strconv"
	"time"

	"taskhub/internal/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort     string
	DatabaseURL string
	JWTSecret   string
	TokenTTL    time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Rate limits
	APIRateLimit   int
	APIRateWindow  time.Duration
	AuthRateLimit  int
	AuthRateWindow time.Duration
	// Per-user limit on mutating requests
	WriteRateLimit  int
	WriteRateWindow time.Duration

	// Reminder dispatcher
	ReminderPollInterval time.Duration
	ReminderSendWindow   time.Duration

	// Pagination cap for list endpoints
	MaxPerPage int
}

// Load reads configuration from the environment. Required keys abort startup.
func Load() *Config {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		logger.Fatal("DATABASE_URL is not set")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Fatal("JWT_SECRET is not set")
	}

	return &Config{
		AppPort:     envStr("APP_PORT", "8080"),
		DatabaseURL: dbURL,
		JWTSecret:   jwtSecret,
		TokenTTL:    envSeconds("TOKEN_TTL_SECONDS", 24*time.Hour),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       envInt("REDIS_DB", 0),

		APIRateLimit:    envInt("API_RATE_LIMIT", 120),
		APIRateWindow:   envSeconds("API_RATE_WINDOW_SECONDS", time.Minute),
		AuthRateLimit:   envInt("AUTH_RATE_LIMIT", 10),
		AuthRateWindow:  envSeconds("AUTH_RATE_WINDOW_SECONDS", time.Minute),
		WriteRateLimit:  envInt("WRITE_RATE_LIMIT", 60),
		WriteRateWindow: envSeconds("WRITE_RATE_WINDOW_SECONDS", time.Minute),

		ReminderPollInterval: envSeconds("REMINDER_POLL_SECONDS", 30*time.Second),
		ReminderSendWindow:   envSeconds("REMINDER_SEND_WINDOW_SECONDS", 5*time.Minute),

		MaxPerPage: envInt("MAX_PER_PAGE", 100),
	}
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return def
}

func envSeconds(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
	}
	return def
}
