package config

import (
	"os"
	"strconv"
)

// Config holds the application configuration. The scsynth endpoint is fixed
// per process; every scheduling invocation sends to the same host/port.
type Config struct {
	// Environment
	Environment string
	Port        string

	// SuperCollider endpoint
	SCHost  string
	SCPort  int
	SCPatch string // default synthdef name for new voices

	// Persistence (optional; performance history is disabled when unset)
	DatabaseURL string

	// Observability
	SentryDSN      string
	MetricsEnabled bool
}

func Load() *Config {
	return &Config{
		Environment:    getEnv("ENVIRONMENT", "development"),
		Port:           getEnv("PORT", "8080"),
		SCHost:         getEnv("SC_HOST", "127.0.0.1"),
		SCPort:         getEnvInt("SC_PORT", 57110),
		SCPatch:        getEnv("SC_DEFAULT_PATCH", "default"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		SentryDSN:      getEnv("SENTRY_DSN", ""),
		MetricsEnabled: getEnv("METRICS_ENABLED", "false") == "true",
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
