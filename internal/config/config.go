package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string
	Port           string
	AllowedOrigins string

	DatabaseURL string
	RedisURL    string

	MeiliSearchHost string
	MeiliMasterKey  string

	JWTSecret     string
	JWTTTLMinutes int

	// Scoring knobs. The item point table and badge tiers have code-level
	// defaults (see the leaderboard service); these cover the rest.
	MoneyPointRate int    // points per currency unit donated
	ResetTopN      int    // ledger entries preserved in each period snapshot
	ResetCron      string // cron spec for the automatic monthly reset; empty disables

	RateLimitDonation time.Duration
}

func Load() (*Config, error) {
	// Don't fail if .env doesn't exist (might be prod env vars)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:3000"),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),

		MeiliSearchHost: getEnv("MEILISEARCH_HOST", "http://localhost:7700"),
		MeiliMasterKey:  os.Getenv("MEILI_MASTER_KEY"),

		JWTSecret: getEnv("JWT_SECRET", "change-me"),

		ResetCron: getEnv("LEADERBOARD_RESET_CRON", "0 0 1 * *"),
	}

	var err error
	cfg.JWTTTLMinutes, err = parseInt(getEnv("JWT_TTL_MINUTES", "60"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_TTL_MINUTES: %w", err)
	}
	cfg.MoneyPointRate, err = parseInt(getEnv("MONEY_POINT_RATE", "1"))
	if err != nil {
		return nil, fmt.Errorf("invalid MONEY_POINT_RATE: %w", err)
	}
	cfg.ResetTopN, err = parseInt(getEnv("LEADERBOARD_RESET_TOP_N", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid LEADERBOARD_RESET_TOP_N: %w", err)
	}
	cfg.RateLimitDonation, err = time.ParseDuration(getEnv("RATE_LIMIT_DONATION", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_DONATION: %w", err)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func parseInt(s string) (int, error) {
	return strconv.Atoi(s)
}
