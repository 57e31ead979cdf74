// Package config loads and validates environment-based configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"itinerary-route-service/internal/domain"
)

// ConfigError represents a configuration error.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error: field %q: %s", e.Field, e.Message)
}

const (
	CacheBackendNone     = "none"
	CacheBackendRedis    = "redis"
	CacheBackendPostgres = "postgres"

	OptimizerCostStraightLine = "straight-line"
	OptimizerCostProvider     = "provider"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	Port int

	// Place store. An empty DatabaseURL selects the in-memory store loaded from PlacesSeedPath.
	DatabaseURL    string
	PlacesSeedPath string

	// Routing provider. An empty key selects the straight-line estimator.
	GoogleAPIKey string

	Timezone       *time.Location
	AllowedRegions []domain.Region

	ProviderCallTimeout time.Duration
	ProviderMaxAttempts int
	ProviderBackoff     time.Duration
	ProviderConcurrency int

	CacheBackend  string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	OptimizerCost  string
	RequestTimeout time.Duration
}

// Load reads and validates environment variables.
// Returns a ConfigError for any invalid value.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		PlacesSeedPath: Get("PLACES_SEED_PATH", "data/seeds/places.json"),
		GoogleAPIKey:   strings.TrimSpace(os.Getenv("GOOGLE_API_KEY")),
		RedisAddr:      Get("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		CacheBackend:   strings.ToLower(Get("CACHE_BACKEND", CacheBackendNone)),
		OptimizerCost:  strings.ToLower(Get("OPTIMIZER_COST", OptimizerCostStraightLine)),
	}

	var err error
	if cfg.Port, err = parseIntEnv("PORT", 8080); err != nil {
		return nil, err
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, &ConfigError{Field: "PORT", Message: "must be between 1 and 65535"}
	}

	tzName := Get("CANONICAL_TIMEZONE", "Asia/Hong_Kong")
	cfg.Timezone, err = time.LoadLocation(tzName)
	if err != nil {
		return nil, &ConfigError{Field: "CANONICAL_TIMEZONE", Message: fmt.Sprintf("unknown timezone %q", tzName)}
	}

	cfg.AllowedRegions = parseRegions(Get("ALLOWED_REGIONS", "hong-kong,macau"))

	if cfg.ProviderCallTimeout, err = parseDurationEnv("PROVIDER_CALL_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.ProviderMaxAttempts, err = parseIntEnv("PROVIDER_MAX_ATTEMPTS", 4); err != nil {
		return nil, err
	}
	if cfg.ProviderBackoff, err = parseDurationEnv("PROVIDER_BACKOFF", 200*time.Millisecond); err != nil {
		return nil, err
	}
	if cfg.ProviderConcurrency, err = parseIntEnv("PROVIDER_CONCURRENCY", 5); err != nil {
		return nil, err
	}
	if cfg.RedisDB, err = parseIntEnv("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.CacheTTL, err = parseDurationEnv("CACHE_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.RequestTimeout, err = parseDurationEnv("REQUEST_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate re-checks fields on an already-constructed Config.
func (c *Config) Validate() error {
	var errs []error
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, &ConfigError{Field: "PORT", Message: "must be between 1 and 65535"})
	}
	if c.Timezone == nil {
		errs = append(errs, &ConfigError{Field: "CANONICAL_TIMEZONE", Message: "cannot be empty"})
	}
	if len(c.AllowedRegions) == 0 {
		errs = append(errs, &ConfigError{Field: "ALLOWED_REGIONS", Message: "must list at least one region"})
	}
	if c.ProviderCallTimeout <= 0 {
		errs = append(errs, &ConfigError{Field: "PROVIDER_CALL_TIMEOUT", Message: "must be positive"})
	}
	if c.ProviderMaxAttempts < 1 || c.ProviderMaxAttempts > 10 {
		errs = append(errs, &ConfigError{Field: "PROVIDER_MAX_ATTEMPTS", Message: "must be between 1 and 10"})
	}
	if c.ProviderBackoff < 0 {
		errs = append(errs, &ConfigError{Field: "PROVIDER_BACKOFF", Message: "cannot be negative"})
	}
	if c.ProviderConcurrency < 1 {
		errs = append(errs, &ConfigError{Field: "PROVIDER_CONCURRENCY", Message: "must be at least 1"})
	}
	switch c.CacheBackend {
	case CacheBackendNone, CacheBackendRedis:
	case CacheBackendPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, &ConfigError{Field: "CACHE_BACKEND", Message: "postgres cache requires DATABASE_URL"})
		}
	default:
		errs = append(errs, &ConfigError{Field: "CACHE_BACKEND", Message: "must be one of none, redis, postgres"})
	}
	switch c.OptimizerCost {
	case OptimizerCostStraightLine, OptimizerCostProvider:
	default:
		errs = append(errs, &ConfigError{Field: "OPTIMIZER_COST", Message: "must be straight-line or provider"})
	}
	return errors.Join(errs...)
}

// Get returns the environment value for key, or fallback when unset.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func parseIntEnv(key string, defaultVal int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultVal, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &ConfigError{Field: key, Message: "must be a valid integer"}
	}
	return v, nil
}

// parseDurationEnv accepts Go duration strings like "200ms", "10s", "24h".
func parseDurationEnv(key string, defaultVal time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, &ConfigError{Field: key, Message: "must be a valid duration"}
	}
	return d, nil
}

func parseRegions(raw string) []domain.Region {
	seen := make(map[domain.Region]struct{})
	out := make([]domain.Region, 0, 2)
	for _, part := range strings.Split(raw, ",") {
		r := domain.Region(part).Normalize()
		if r == "" {
			continue
		}
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}
