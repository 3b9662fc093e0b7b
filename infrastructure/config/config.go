package config

import (
	"TUI_channel_analytics/internal/core/domain"
	"fmt"
	"os"
	"strconv"
	"time"
)

// LookupFunc has the signature of os.LookupEnv.
type LookupFunc func(key string) (string, bool)

type Config struct {
	Secrets

	SecretsFile       string
	MaxResults        int64
	CacheSize         int
	CacheTTL          time.Duration
	RedisURL          string
	RequestsPerSecond float64
	HTTPTimeout       time.Duration
	DashboardAddr     string
	LogDir            string
}

func Default() Config {
	return Config{
		SecretsFile:   DefaultSecretsFile,
		MaxResults:    50,
		CacheSize:     32,
		CacheTTL:      10 * time.Minute,
		HTTPTimeout:   15 * time.Second,
		DashboardAddr: ":8080",
		LogDir:        "logs",
	}
}

// Load resolves settings from the environment and secrets from the secret
// store. Any missing secret or malformed value is a *domain.ConfigError.
func Load(lookup LookupFunc) (Config, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	cfg := Default()
	var err error

	cfg.SecretsFile = str(lookup, "SECRETS_FILE", cfg.SecretsFile)
	cfg.RedisURL = str(lookup, "REDIS_URL", cfg.RedisURL)
	cfg.DashboardAddr = str(lookup, "DASHBOARD_ADDR", cfg.DashboardAddr)
	cfg.LogDir = str(lookup, "LOG_DIR", cfg.LogDir)

	if cfg.MaxResults, err = parse(lookup, "MAX_RESULTS", cfg.MaxResults, func(s string) (int64, error) {
		return strconv.ParseInt(s, 10, 64)
	}); err != nil {
		return Config{}, err
	}
	if cfg.MaxResults < 1 || cfg.MaxResults > 50 {
		return Config{}, &domain.ConfigError{Key: "MAX_RESULTS", Err: fmt.Errorf("must be between 1 and 50, got %d", cfg.MaxResults)}
	}
	if cfg.CacheSize, err = parse(lookup, "CACHE_SIZE", cfg.CacheSize, strconv.Atoi); err != nil {
		return Config{}, err
	}
	if cfg.CacheTTL, err = parse(lookup, "CACHE_TTL", cfg.CacheTTL, time.ParseDuration); err != nil {
		return Config{}, err
	}
	// the LRU treats a non-positive TTL as no expiry
	if cfg.CacheTTL <= 0 {
		return Config{}, &domain.ConfigError{Key: "CACHE_TTL", Err: fmt.Errorf("must be positive, got %s", cfg.CacheTTL)}
	}
	if cfg.HTTPTimeout, err = parse(lookup, "HTTP_TIMEOUT", cfg.HTTPTimeout, time.ParseDuration); err != nil {
		return Config{}, err
	}
	if cfg.RequestsPerSecond, err = parse(lookup, "API_RPS", cfg.RequestsPerSecond, func(s string) (float64, error) {
		return strconv.ParseFloat(s, 64)
	}); err != nil {
		return Config{}, err
	}

	secrets, err := NewSecretStore(cfg.SecretsFile, lookup).LoadSecrets()
	if err != nil {
		return Config{}, err
	}
	cfg.Secrets = secrets

	return cfg, nil
}

func str(lookup LookupFunc, key, fallback string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return fallback
}

func parse[T any](lookup LookupFunc, key string, fallback T, conv func(string) (T, error)) (T, error) {
	v, ok := lookup(key)
	if !ok || v == "" {
		return fallback, nil
	}
	parsed, err := conv(v)
	if err != nil {
		var zero T
		return zero, &domain.ConfigError{Key: key, Err: err}
	}
	return parsed, nil
}
