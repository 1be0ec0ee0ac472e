// Package config loads server settings from the environment.
//
// A .env file in the working directory is read first when present; real
// environment variables win over it.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Lock backends.
const (
	LockMemory = "memory"
	LockRedis  = "redis"
)

// Config holds every server setting.
type Config struct {
	Port      int
	DBPath    string
	LogLevel  string
	LogFormat string

	JWTSecret    string
	AuthDisabled bool

	StoreTimeout    time.Duration
	StoreMaxRetries int

	LockBackend string
	RedisAddr   string
	LockTTL     time.Duration

	RateLimitRPS   float64
	RateLimitBurst int
}

// Load reads the configuration, loading envFiles (default ".env") first.
// Missing env files are ignored.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	var errs []error
	cfg := &Config{
		Port:            getInt("PORT", 8080, &errs),
		DBPath:          getEnv("DB_PATH", "./data/giftcircle.db"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "text"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		AuthDisabled:    getBool("AUTH_DISABLED", false, &errs),
		StoreTimeout:    getDuration("STORE_TIMEOUT", 5*time.Second, &errs),
		StoreMaxRetries: getInt("STORE_MAX_RETRIES", 5, &errs),
		LockBackend:     strings.ToLower(getEnv("LOCK_BACKEND", LockMemory)),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		LockTTL:         getDuration("LOCK_TTL", 10*time.Second, &errs),
		RateLimitRPS:    getFloat("RATE_LIMIT_RPS", 20, &errs),
		RateLimitBurst:  getInt("RATE_LIMIT_BURST", 40, &errs),
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" && !c.AuthDisabled {
		errs = append(errs, errors.New("JWT_SECRET is required unless AUTH_DISABLED=true"))
	}
	switch c.LockBackend {
	case LockMemory:
	case LockRedis:
		if c.RedisAddr == "" {
			errs = append(errs, errors.New("REDIS_ADDR is required when LOCK_BACKEND=redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("LOCK_BACKEND must be %q or %q, got %q", LockMemory, LockRedis, c.LockBackend))
	}
	if c.StoreTimeout <= 0 {
		errs = append(errs, errors.New("STORE_TIMEOUT must be positive"))
	}
	if c.StoreMaxRetries < 0 {
		errs = append(errs, errors.New("STORE_MAX_RETRIES must not be negative"))
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive"))
	}
	return errors.Join(errs...)
}

// Addr is the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int, errs *[]error) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return v
}

func getFloat(key string, fallback float64, errs *[]error) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return v
}

func getBool(key string, fallback bool, errs *[]error) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration, errs *[]error) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return v
}
