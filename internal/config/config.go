package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	APIBaseURL     string
	TokenDBPath    string
	RequestTimeout time.Duration
}

func Load() *Config {
	return &Config{
		APIBaseURL:     getEnv("API_BASE_URL", "http://localhost:8000"),
		TokenDBPath:    getEnv("TOKEN_DB_PATH", "data/console.db"),
		RequestTimeout: time.Duration(getEnvInt("REQUEST_TIMEOUT_SECONDS", 15)) * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
