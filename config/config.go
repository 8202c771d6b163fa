package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	BackendCSV      = "csv"
	BackendPostgres = "postgres"
)

type Config struct {
	DB       DBConfig
	Telegram TelegramConfig
	Ledger   LedgerConfig
	App      AppConfig
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

type TelegramConfig struct {
	Token string
}

type LedgerConfig struct {
	Backend     string // "csv" or "postgres"
	Path        string // csv file location
	AutoMigrate bool
}

type AppConfig struct {
	DefaultLang  string
	MenuImageURL string // optional, decorative only
	LogLevel     string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	port, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("DB_PORT: %w", err)
	}

	backend := strings.ToLower(getEnv("LEDGER_BACKEND", BackendCSV))
	if backend != BackendCSV && backend != BackendPostgres {
		return nil, fmt.Errorf("LEDGER_BACKEND must be %q or %q, got %q", BackendCSV, BackendPostgres, backend)
	}

	autoMigrate := strings.TrimSpace(os.Getenv("AUTO_MIGRATE"))

	return &Config{
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     port,
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "orders"),
		},
		Telegram: TelegramConfig{
			Token: getEnv("TOKEN", ""),
		},
		Ledger: LedgerConfig{
			Backend:     backend,
			Path:        getEnv("LEDGER_PATH", "orders.csv"),
			AutoMigrate: autoMigrate == "1" || strings.EqualFold(autoMigrate, "true"),
		},
		App: AppConfig{
			DefaultLang:  getEnv("DEFAULT_LANG", "it"),
			MenuImageURL: getEnv("MENU_IMAGE_URL", ""),
			LogLevel:     getEnv("LOG_LEVEL", "info"),
		},
	}, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
