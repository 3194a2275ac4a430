package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the server settings read from the environment.
type Config struct {
	Port      int
	DBPath    string
	LogLevel  string
	LogFormat string
	// Auth
	TokenTTL   time.Duration
	BcryptCost int
	// Sign-in rate limiting per client address
	AuthRatePerMinute int
	AuthBurst         int
	// CORS
	AllowedOrigin string
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to read .env file", "error", err)
	}
	return FromEnv()
}

// LoadFile seeds the environment from the given dotenv files. Variables that
// are already set win over the file.
func LoadFile(paths ...string) (*Config, error) {
	if err := godotenv.Load(paths...); err != nil {
		return nil, fmt.Errorf("load env file: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:              envInt("PORT", 8080),
		DBPath:            envStr("POMIFY_DB_PATH", "pomify.db"),
		LogLevel:          envStr("LOG_LEVEL", "info"),
		LogFormat:         envStr("LOG_FORMAT", "json"),
		TokenTTL:          envDuration("TOKEN_TTL", 30*24*time.Hour),
		BcryptCost:        envInt("BCRYPT_COST", 10),
		AuthRatePerMinute: envInt("AUTH_RATE_PER_MINUTE", 10),
		AuthBurst:         envInt("AUTH_BURST", 5),
		AllowedOrigin:     envStr("CORS_ALLOWED_ORIGIN", "*"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port)
	}
	if c.DBPath == "" {
		return fmt.Errorf("POMIFY_DB_PATH must not be empty")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive, got %s", c.TokenTTL)
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 31, got %d", c.BcryptCost)
	}
	if c.AuthRatePerMinute < 1 {
		return fmt.Errorf("AUTH_RATE_PER_MINUTE must be positive, got %d", c.AuthRatePerMinute)
	}
	if c.AuthBurst < 1 {
		return fmt.Errorf("AUTH_BURST must be positive, got %d", c.AuthBurst)
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or text, got %q", c.LogFormat)
	}
	return nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
