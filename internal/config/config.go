package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port      int
	DBPath    string
	RedisAddr string
	LogLevel  string
}

// Load reads configuration from the environment. A .env file is applied
// first when present so local runs need no exported variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:      8080,
		DBPath:    env("DB_PATH", "data/finance.db"),
		RedisAddr: os.Getenv("REDIS_ADDR"),
		LogLevel:  env("LOG_LEVEL", "info"),
	}

	if raw := os.Getenv("PORT"); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil || port <= 0 || port > 65535 {
			return nil, fmt.Errorf("invalid PORT %q", raw)
		}
		cfg.Port = port
	}

	return cfg, nil
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
