// Package config provides configuration loading and validation for the service.
// Configuration is loaded from YAML files with environment variable overrides
// using a layered system: defaults -> base.yaml -> {profile}.yaml -> env vars.
package config

import "time"

// Supported store drivers.
const (
	StoreDriverMemory = "memory"
	StoreDriverRedis  = "redis"
)

// Config holds all configuration for the service.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Log       LogConfig       `koanf:"log"`
	Store     StoreConfig     `koanf:"store"`
	Inventory InventoryConfig `koanf:"inventory"`
	Seed      SeedConfig      `koanf:"seed"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host               string          `koanf:"host"`
	Port               int             `koanf:"port"`
	ReadTimeout        time.Duration   `koanf:"read_timeout"`
	WriteTimeout       time.Duration   `koanf:"write_timeout"`
	IdleTimeout        time.Duration   `koanf:"idle_timeout"`
	RequestTimeout     time.Duration   `koanf:"request_timeout"`
	HealthCheckTimeout time.Duration   `koanf:"health_check_timeout"`
	RateLimit          RateLimitConfig `koanf:"rate_limit"`
}

// RateLimitConfig throttles inbound requests with a token bucket.
// A RequestsPerSecond of zero disables rate limiting.
type RateLimitConfig struct {
	RequestsPerSecond float64 `koanf:"requests_per_second"`
	BurstSize         int     `koanf:"burst_size"`
}

// LogConfig holds structured logging settings.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// StoreConfig selects and configures the inventory store backend.
type StoreConfig struct {
	Driver         string               `koanf:"driver"`
	Redis          RedisConfig          `koanf:"redis"`
	CircuitBreaker CircuitBreakerConfig `koanf:"circuit_breaker"`
}

// RedisConfig holds Redis connection settings for the Redis store driver.
type RedisConfig struct {
	Addr         string        `koanf:"addr"`
	Password     string        `koanf:"password"`
	DB           int           `koanf:"db"`
	KeyPrefix    string        `koanf:"key_prefix"`
	DialTimeout  time.Duration `koanf:"dial_timeout"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
	MaxTxRetries int           `koanf:"max_tx_retries"`
}

// CircuitBreakerConfig holds circuit breaker settings.
type CircuitBreakerConfig struct {
	MaxFailures   int           `koanf:"max_failures"`
	Timeout       time.Duration `koanf:"timeout"`
	HalfOpenLimit int           `koanf:"half_open_limit"`
}

// InventoryConfig holds query and bulk operation settings.
type InventoryConfig struct {
	DefaultTopCount int `koanf:"default_top_count"`
	BulkMaxWorkers  int `koanf:"bulk_max_workers"`
}

// SeedConfig controls generation of demonstration data at startup.
// A RandomSeed of zero picks a random seed.
type SeedConfig struct {
	Enabled    bool   `koanf:"enabled"`
	Pallets    int    `koanf:"pallets"`
	RandomSeed uint64 `koanf:"random_seed"`
}

// TelemetryConfig holds OpenTelemetry settings.
type TelemetryConfig struct {
	Enabled     bool   `koanf:"enabled"`
	Exporter    string `koanf:"exporter"`
	Endpoint    string `koanf:"endpoint"`
	ServiceName string `koanf:"service_name"`
}
