package config

import (
	"errors"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Token   string // Telegram bot token
	DataDir string // Directory with the JSON collections
	AppEnv  string
}

func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{
		Token:   os.Getenv("TELEGRAM_TOKEN"),
		DataDir: getEnv("DATA_DIR", "data"),
		AppEnv:  getEnv("APP_ENV", "development"),
	}
	if cfg.Token == "" {
		return nil, errors.New("config: TELEGRAM_TOKEN is required")
	}
	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
