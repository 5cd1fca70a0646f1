// Package config provides environment-driven service configuration.
// The Config object is constructed once in main and passed down
// explicitly; nothing reads the environment after startup.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all service configuration.
type Config struct {
	Env      string `env:"APP_ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	HTTPAddr        string        `env:"HTTP_ADDR" envDefault:":8000"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	DatabaseURL  string `env:"DATABASE_URL,required"`
	PoolMaxConns int32  `env:"DB_POOL_MAX_CONNS" envDefault:"25"`
	PoolMinConns int32  `env:"DB_POOL_MIN_CONNS" envDefault:"5"`

	EventTopic        string        `env:"EVENT_TOPIC" envDefault:"user-events"`
	EventBufferSize   int           `env:"EVENT_BUFFER_SIZE" envDefault:"1000"`
	EventBatchSize    int           `env:"EVENT_BATCH_SIZE" envDefault:"100"`
	EventBatchTimeout time.Duration `env:"EVENT_BATCH_TIMEOUT" envDefault:"100ms"`
	EventWorkerCount  int           `env:"EVENT_WORKER_COUNT" envDefault:"4"`
}

// Load parses configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

// IsDevelopment reports whether the service runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
