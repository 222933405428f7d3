package config

import (
	"errors"
	"fmt"
)

// Validate checks all configuration values and returns aggregated errors.
func (c *Config) Validate() error {
	return errors.Join(
		c.Server.validate(),
		c.Log.validate(),
		c.Store.validate(),
		c.Inventory.validate(),
		c.Seed.validate(),
		c.Telemetry.validate(),
	)
}

func (s *ServerConfig) validate() error {
	var errs []error

	if s.Port < 1 || s.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", s.Port))
	}
	if s.ReadTimeout <= 0 {
		errs = append(errs, errors.New("server.read_timeout must be positive"))
	}
	if s.WriteTimeout <= 0 {
		errs = append(errs, errors.New("server.write_timeout must be positive"))
	}
	if s.RequestTimeout <= 0 {
		errs = append(errs, errors.New("server.request_timeout must be positive"))
	}
	if s.HealthCheckTimeout <= 0 {
		errs = append(errs, errors.New("server.health_check_timeout must be positive"))
	}
	if s.RateLimit.RequestsPerSecond < 0 {
		errs = append(errs, fmt.Errorf("server.rate_limit.requests_per_second must not be negative, got %g",
			s.RateLimit.RequestsPerSecond))
	}
	if s.RateLimit.RequestsPerSecond > 0 && s.RateLimit.BurstSize < 1 {
		errs = append(errs, fmt.Errorf("server.rate_limit.burst_size must be at least 1 when rate limiting is enabled, got %d",
			s.RateLimit.BurstSize))
	}

	return errors.Join(errs...)
}

func (l *LogConfig) validate() error {
	var errs []error

	switch l.Level {
	case "debug", "info", "warn", "error":
		// Valid levels.
	default:
		errs = append(errs, fmt.Errorf("log.level must be one of: debug, info, warn, error; got %q", l.Level))
	}

	switch l.Format {
	case "json", "text":
		// Valid formats.
	default:
		errs = append(errs, fmt.Errorf("log.format must be one of: json, text; got %q", l.Format))
	}

	return errors.Join(errs...)
}

func (st *StoreConfig) validate() error {
	var errs []error

	switch st.Driver {
	case StoreDriverMemory:
		return nil
	case StoreDriverRedis:
		// Validated below.
	default:
		return fmt.Errorf("store.driver must be one of: %s, %s; got %q", StoreDriverMemory, StoreDriverRedis, st.Driver)
	}

	if st.Redis.Addr == "" {
		errs = append(errs, errors.New("store.redis.addr must not be empty"))
	}
	if st.Redis.DB < 0 {
		errs = append(errs, fmt.Errorf("store.redis.db must be >= 0, got %d", st.Redis.DB))
	}
	if st.Redis.MaxTxRetries < 1 {
		errs = append(errs, fmt.Errorf("store.redis.max_tx_retries must be >= 1, got %d", st.Redis.MaxTxRetries))
	}
	if st.CircuitBreaker.MaxFailures < 1 {
		errs = append(errs, fmt.Errorf("store.circuit_breaker.max_failures must be >= 1, got %d",
			st.CircuitBreaker.MaxFailures))
	}
	if st.CircuitBreaker.Timeout <= 0 {
		errs = append(errs, errors.New("store.circuit_breaker.timeout must be positive"))
	}

	return errors.Join(errs...)
}

func (inv *InventoryConfig) validate() error {
	var errs []error

	if inv.DefaultTopCount < 1 {
		errs = append(errs, fmt.Errorf("inventory.default_top_count must be >= 1, got %d", inv.DefaultTopCount))
	}
	if inv.BulkMaxWorkers < 1 {
		errs = append(errs, fmt.Errorf("inventory.bulk_max_workers must be >= 1, got %d", inv.BulkMaxWorkers))
	}

	return errors.Join(errs...)
}

func (sd *SeedConfig) validate() error {
	if !sd.Enabled {
		return nil
	}
	if sd.Pallets < 1 {
		return fmt.Errorf("seed.pallets must be >= 1 when seeding is enabled, got %d", sd.Pallets)
	}
	return nil
}

func (t *TelemetryConfig) validate() error {
	if !t.Enabled {
		return nil
	}

	var errs []error

	switch t.Exporter {
	case "stdout", "otlp":
		// Valid exporters.
	default:
		errs = append(errs, fmt.Errorf("telemetry.exporter must be one of: stdout, otlp; got %q", t.Exporter))
	}

	if t.Exporter == "otlp" && t.Endpoint == "" {
		errs = append(errs, errors.New("telemetry.endpoint must not be empty when exporter is otlp"))
	}

	return errors.Join(errs...)
}
