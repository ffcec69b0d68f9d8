package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// AppConfig represents the complete configuration
type AppConfig struct {
	Sweep   SweepConfig   `toml:"sweep"`
	Queuing QueuingConfig `toml:"queuing"`
}

// SweepConfig contains the auto-close sweep scheduling contract
type SweepConfig struct {
	IntervalMinutes         int    `toml:"interval_minutes"`
	MaxRetryAttempts        int    `toml:"max_retry_attempts"`
	RetryDelaySeconds       int    `toml:"retry_delay_seconds"`
	UniquenessWindowMinutes int    `toml:"uniqueness_window_minutes"`
	TimeoutSeconds          int    `toml:"timeout_seconds"`
	Queue                   string `toml:"queue"`
}

// QueuingConfig contains Redis and concurrency settings
type QueuingConfig struct {
	RedisAddr       string         `toml:"redis_addr"`
	RedisPassword   string         `toml:"redis_password"`
	RedisDB         int            `toml:"redis_db"`
	Concurrency     int            `toml:"concurrency"`
	QueuePriorities map[string]int `toml:"queue_priorities"`
}

// DefaultAppConfig is the configuration used when no file is provided.
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		Sweep: SweepConfig{
			IntervalMinutes:         5,
			MaxRetryAttempts:        3,
			RetryDelaySeconds:       30,
			UniquenessWindowMinutes: 5,
			TimeoutSeconds:          300,
			Queue:                   "maintenance",
		},
		Queuing: QueuingConfig{
			RedisAddr:       "localhost:6379",
			Concurrency:     5,
			QueuePriorities: map[string]int{"maintenance": 1},
		},
	}
}

// LoadAppConfig loads configuration from a TOML file, filling unset sections
// with defaults.
func LoadAppConfig(filename string) (*AppConfig, error) {
	config := DefaultAppConfig()
	_, err := toml.DecodeFile(filename, config)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}
	return config, nil
}
