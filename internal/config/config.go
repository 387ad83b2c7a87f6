// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults, Load(ctx) to layer
//   file and environment overrides on top.
// - External errors must be wrapped via this package's error helpers.
//
// Scoring weights are deliberately not configurable: scores are only
// comparable when every pair is computed with the same weights.
package config

import (
	"runtime"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// QueueSize bounds the in-memory refresh pair queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of scoring workers.
	WorkerCount int `koanf:"worker_count"`

	// DefaultMinScore filters recommendations below this overall score.
	DefaultMinScore int `koanf:"default_min_score"`

	// MaxResults caps the number of recommendations returned.
	MaxResults int `koanf:"max_results"`

	// AnalyticsWindowDays sets the default lookback for analytics queries.
	AnalyticsWindowDays int `koanf:"analytics_window_days"`

	// CacheTTLSeconds sets how long cached scores stay fresh.
	CacheTTLSeconds int `koanf:"cache_ttl_seconds"`

	// PostgresDSN enables the Postgres score store when non-empty.
	// Empty means the in-memory store is used.
	PostgresDSN string `koanf:"postgres_dsn"`

	// RedisAddr enables the Redis score cache when non-empty, e.g.
	// "localhost:6379". Empty means the in-memory cache is used.
	RedisAddr string `koanf:"redis_addr"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		QueueSize:           10_000,
		WorkerCount:         runtime.NumCPU() * 2,
		DefaultMinScore:     0,
		MaxResults:          50,
		AnalyticsWindowDays: 30,
		CacheTTLSeconds:     900,
	}
}
