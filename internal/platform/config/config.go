// Package config centralizes runtime configuration: process-level settings
// from the environment and the screening policy document from YAML.
package config

import (
	"os"
	"strings"
	"time"
)

// RedisConfig captures connection tuning for the candidate cache.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Server captures process-level configuration. Optional collaborators
// (database, cache, broker) are disabled when their setting is empty.
type Server struct {
	Addr            string
	LogLevel        string
	ShutdownTimeout time.Duration

	PostgresDSN  string
	Redis        RedisConfig
	KafkaBrokers []string

	// ScreeningConfigPath points at the YAML policy/connector document.
	// Empty means built-in defaults with no connectors, useful for tests.
	ScreeningConfigPath string
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("SCREENING_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	var brokers []string
	if raw := os.Getenv("SCREENING_KAFKA_BROKERS"); raw != "" {
		for _, b := range strings.Split(raw, ",") {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
	}

	return Server{
		Addr:                addr,
		LogLevel:            os.Getenv("SCREENING_LOG_LEVEL"),
		ShutdownTimeout:     10 * time.Second,
		PostgresDSN:         os.Getenv("SCREENING_POSTGRES_DSN"),
		KafkaBrokers:        brokers,
		ScreeningConfigPath: os.Getenv("SCREENING_CONFIG_PATH"),
		Redis: RedisConfig{
			URL:          os.Getenv("SCREENING_REDIS_URL"),
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
	}
}
