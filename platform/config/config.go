// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// JWTConfig provides JWT validation settings for middleware.
type JWTConfig interface {
	GetJWTAccessSecret() string
}

// AuthServiceConfig provides settings needed by the accounts auth flow.
type AuthServiceConfig interface {
	JWTConfig
	GetAccessTokenTTL() time.Duration
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
}

// DatasetConfig provides settings for the project dataset snapshot.
type DatasetConfig interface {
	GetDatasetPath() string
	GetTariffsPath() string
}

// RedisConfig provides settings for the recommendation cache.
type RedisConfig interface {
	GetRedisURL() string
	GetRecommendationCacheTTL() time.Duration
}

// SchedulerConfig provides settings for the asynq revenue-accrual worker.
type SchedulerConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
	GetAccrualInterval() time.Duration
}

// Config holds all application configuration loaded from the environment.
type Config struct {
	Env              string
	HTTPAddr         string
	DatabaseURL      string
	JWTAccessSecret  string
	AccessTokenTTL   time.Duration
	CORSAllowAll     bool
	CORSOrigins      []string
	DatasetPath      string
	TariffsPath      string
	RedisURL         string
	RedisTLSInsecure bool
	RecommendTTL     time.Duration
	AsynqQueueName   string
	AsynqConcurrency int
	AccrualInterval  time.Duration
}

// Load reads configuration from the environment (and an optional .env file).
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:4200"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:              getEnv("APP_ENV", "development"),
		HTTPAddr:         getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		JWTAccessSecret:  getEnv("JWT_ACCESS_SECRET", ""),
		AccessTokenTTL:   mustDuration(getEnv("JWT_ACCESS_TTL", "15m")),
		CORSAllowAll:     corsAllowAll,
		CORSOrigins:      corsOrigins,
		DatasetPath:      getEnv("PROJECT_DATASET_PATH", "data/solar_installation_analysis_monthly.csv"),
		TariffsPath:      getEnv("TARIFFS_PATH", ""),
		RedisURL:         getEnv("REDIS_URL", ""),
		RedisTLSInsecure: strings.EqualFold(getEnv("REDIS_TLS_INSECURE", "false"), "true"),
		RecommendTTL:     mustDuration(getEnv("RECOMMENDATION_CACHE_TTL", "10m")),
		AsynqQueueName:   getEnv("ASYNQ_QUEUE", "default"),
		AsynqConcurrency: mustInt(getEnv("ASYNQ_CONCURRENCY", "10")),
		AccrualInterval:  mustDuration(getEnv("REVENUE_ACCRUAL_INTERVAL", "720h")),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTAccessSecret == "" {
		return nil, fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	if cfg.DatasetPath == "" {
		return nil, fmt.Errorf("PROJECT_DATASET_PATH is required")
	}

	return cfg, nil
}

// =============================================================================
// Interface implementations
// =============================================================================

func (c *Config) GetDatabaseURL() string                   { return c.DatabaseURL }
func (c *Config) GetJWTAccessSecret() string               { return c.JWTAccessSecret }
func (c *Config) GetAccessTokenTTL() time.Duration         { return c.AccessTokenTTL }
func (c *Config) GetHTTPAddr() string                      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool                    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string                 { return c.CORSOrigins }
func (c *Config) GetDatasetPath() string                   { return c.DatasetPath }
func (c *Config) GetTariffsPath() string                   { return c.TariffsPath }
func (c *Config) GetRedisURL() string                      { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool                { return c.RedisTLSInsecure }
func (c *Config) GetRecommendationCacheTTL() time.Duration { return c.RecommendTTL }
func (c *Config) GetAsynqQueueName() string                { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int                 { return c.AsynqConcurrency }
func (c *Config) GetAccrualInterval() time.Duration        { return c.AccrualInterval }

// =============================================================================
// Helpers
// =============================================================================

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return n
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(origins []string) bool {
	for _, origin := range origins {
		if origin == "*" {
			return true
		}
	}
	return false
}
