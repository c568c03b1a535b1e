package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	MigrationModeAuto = "auto" // gorm AutoMigrate
	MigrationModeSQL  = "sql"  // golang-migrate with embedded SQL files
)

var ErrMissingSecret = errors.New("JWT_SECRET or JWT_SECRET_FILE must be set")

// Config carries every runtime setting; it is built once in main and injected downward.
type Config struct {
	Port          string
	GinMode       string
	DatabaseURL   string
	MigrationMode string
	CORSOrigins   []string

	JWTSecret []byte
	TokenTTL  time.Duration
}

// Load reads configs/.env (if present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}
	return FromEnv()
}

// FromEnv builds a Config from the environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		GinMode:       os.Getenv("GIN_MODE"),
		MigrationMode: getEnv("MIGRATION_MODE", MigrationModeAuto),
		CORSOrigins:   splitList(getEnv("CORS_ORIGINS", "http://localhost:5173,http://127.0.0.1:5173")),
	}

	if cfg.MigrationMode != MigrationModeAuto && cfg.MigrationMode != MigrationModeSQL {
		return nil, fmt.Errorf("invalid MIGRATION_MODE %q: must be %q or %q", cfg.MigrationMode, MigrationModeAuto, MigrationModeSQL)
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "postgres://" + getEnv("DB_USER", "postgres") + ":" + getEnv("DB_PASSWORD", "postgres") +
			"@" + getEnv("DB_HOST", "localhost") + ":" + getEnv("DB_PORT", "5432") +
			"/" + getEnv("DB_NAME", "postgres") + "?sslmode=" + getEnv("DB_SSLMODE", "disable")
	}

	secret, err := loadSecret()
	if err != nil {
		return nil, err
	}
	cfg.JWTSecret = secret

	cfg.TokenTTL = 24 * time.Hour
	if raw := os.Getenv("TOKEN_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid TOKEN_TTL: %w", err)
		}
		if ttl <= 0 {
			return nil, fmt.Errorf("invalid TOKEN_TTL: must be positive, got %s", ttl)
		}
		cfg.TokenTTL = ttl
	}

	return cfg, nil
}

// loadSecret prefers a mounted secret file (docker/k8s secrets) over the plain variable.
func loadSecret() ([]byte, error) {
	if path := os.Getenv("JWT_SECRET_FILE"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read JWT_SECRET_FILE: %w", err)
		}
		secret := strings.TrimSpace(string(raw))
		if secret == "" {
			return nil, fmt.Errorf("JWT_SECRET_FILE %s is empty", path)
		}
		return []byte(secret), nil
	}

	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		return []byte(secret), nil
	}
	return nil, ErrMissingSecret
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
