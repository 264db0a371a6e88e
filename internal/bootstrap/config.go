// Package bootstrap wires configuration, infrastructure, and services into a
// running process. Binaries call into it instead of assembling dependencies
// themselves.
package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/raborimet/crm-api/config"
)

// InitLogger initializes the structured logger.
func InitLogger() *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)
	return logger
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (config.AppConfig, error) {
	// Load .env file if it exists (development)
	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return config.AppConfig{}, fmt.Errorf("load .env file: %w", err)
		}
	}

	var cfg config.AppConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	cfg.Sanitize()
	return cfg, nil
}

// ValidateServerConfig checks the settings a server process cannot run
// without. Development mode falls back to a generated-unsafe secret so local
// setups work out of the box.
func ValidateServerConfig(cfg *config.AppConfig, logger *slog.Logger) error {
	if cfg == nil {
		return errors.New("server config is required")
	}
	if cfg.Auth.JWTSecret == "" {
		if !cfg.IsDev {
			return errors.New("AUTH_JWT_SECRET is required outside development mode")
		}
		cfg.Auth.JWTSecret = "dev-only-insecure-secret"
		if logger != nil {
			logger.Warn("using development JWT secret; do not run this configuration in production")
		}
	}
	return nil
}
