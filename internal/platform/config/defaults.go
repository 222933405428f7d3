package config

const (
	defaultServerPort = 8080

	defaultRedisMaxTxRetries = 5

	defaultCircuitBreakerMaxFailures = 5
	defaultCircuitBreakerHalfOpen    = 1

	defaultTopCount       = 3
	defaultBulkMaxWorkers = 4
	defaultSeedPallets    = 10
)

// defaults returns the default configuration values.
// These are loaded first and can be overridden by base.yaml, profile YAML, and env vars.
func defaults() map[string]any {
	return map[string]any{
		"server.host":                 "0.0.0.0",
		"server.port":                 defaultServerPort,
		"server.read_timeout":         "5s",
		"server.write_timeout":        "10s",
		"server.idle_timeout":         "120s",
		"server.request_timeout":      "30s",
		"server.health_check_timeout": "2s",

		"server.rate_limit.requests_per_second": 0,
		"server.rate_limit.burst_size":          0,

		"log.level":  "info",
		"log.format": "json",

		"store.driver":                          StoreDriverMemory,
		"store.redis.addr":                      "localhost:6379",
		"store.redis.password":                  "",
		"store.redis.db":                        0,
		"store.redis.key_prefix":                "inventory:",
		"store.redis.dial_timeout":              "5s",
		"store.redis.read_timeout":              "3s",
		"store.redis.write_timeout":             "3s",
		"store.redis.max_tx_retries":            defaultRedisMaxTxRetries,
		"store.circuit_breaker.max_failures":    defaultCircuitBreakerMaxFailures,
		"store.circuit_breaker.timeout":         "30s",
		"store.circuit_breaker.half_open_limit": defaultCircuitBreakerHalfOpen,

		"inventory.default_top_count": defaultTopCount,
		"inventory.bulk_max_workers":  defaultBulkMaxWorkers,

		"seed.enabled":     false,
		"seed.pallets":     defaultSeedPallets,
		"seed.random_seed": 0,

		"telemetry.enabled":      false,
		"telemetry.exporter":     "stdout",
		"telemetry.endpoint":     "",
		"telemetry.service_name": "pallet-inventory",
	}
}
