package config

import (
	"fmt"
	"strconv"
	"time"

	"bookstore-catalog/internal/infrastructure/database"
)

// LoadDatabaseConfig reads the PostgreSQL pool settings (DB_DRIVER=postgres).
// Unlike Load, malformed numbers and durations are errors, not silent defaults.
func LoadDatabaseConfig() (*database.DBConfig, error) {
	var errs []error
	intVar := func(key, def string) int {
		v, err := strconv.Atoi(getEnv(key, def))
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid %s: %w", key, err))
		}
		return v
	}
	durVar := func(key, def string) time.Duration {
		v, err := time.ParseDuration(getEnv(key, def))
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid %s: %w", key, err))
		}
		return v
	}

	cfg := &database.DBConfig{
		Host:              getEnv("DB_HOST", "localhost"),
		Port:              intVar("DB_PORT", "5432"),
		Username:          getEnv("DB_USER", "postgres"),
		Password:          getEnv("DB_PASSWORD", ""),
		DBName:            getEnv("DB_NAME", "bookstore"),
		SSLMode:           getEnv("DB_SSLMODE", "disable"),
		MaxConns:          int32(intVar("DB_MAX_CONNECTIONS", "25")),
		MinConns:          int32(intVar("DB_MIN_CONNECTIONS", "2")),
		MaxRetries:        intVar("DB_MAX_RETRIES", "5"),
		MaxConnLifetime:   durVar("DB_MAX_CONN_LIFETIME", "5m"),
		MaxConnIdleTime:   durVar("DB_MAX_CONN_IDLE_TIME", "1m"),
		HealthCheckPeriod: durVar("DB_HEALTH_CHECK_PERIOD", "1m"),
		RetryDelay:        durVar("DB_RETRY_DELAY", "1s"),
		ConnectTimeout:    durVar("DB_CONNECT_TIMEOUT", "10s"),
	}
	if len(errs) > 0 {
		return nil, errs[0]
	}
	if cfg.MinConns > cfg.MaxConns {
		return nil, fmt.Errorf("DB_MIN_CONNECTIONS (%d) exceeds DB_MAX_CONNECTIONS (%d)", cfg.MinConns, cfg.MaxConns)
	}
	return cfg, nil
}
