// Package config provides Viper-based configuration loading for the server.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Addr returns the "host:port" listen address
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// StorageConfig selects and configures the round-history backend
type StorageConfig struct {
	// Type is the storage backend: "memory" or "redis"
	Type string `mapstructure:"type"`
	// RedisURL is the Redis connection URL (used when Type is "redis")
	RedisURL string `mapstructure:"redis_url"`
	// RoundHistoryTTL is how long a room's round history is retained
	RoundHistoryTTL time.Duration `mapstructure:"round_history_ttl"`
}

// LoggingConfig holds structured logging settings
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error"
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "text"
	Format string `mapstructure:"format"`
}

// Config is the top-level application configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Storage StorageConfig `mapstructure:"storage"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// Validate checks configuration invariants
func (c Config) Validate() error {
	var errs []string

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Storage.Type != "memory" && c.Storage.Type != "redis" {
		errs = append(errs, fmt.Sprintf("storage.type must be one of [memory, redis], got %q", c.Storage.Type))
	}
	if c.Storage.Type == "redis" && c.Storage.RedisURL == "" {
		errs = append(errs, "storage.redis_url must not be empty when storage.type is redis")
	}
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		errs = append(errs, fmt.Sprintf("logging.level must be one of [debug, info, warn, error], got %q", c.Logging.Level))
	}
	if c.Logging.Format != "json" && c.Logging.Format != "text" {
		errs = append(errs, fmt.Sprintf("logging.format must be one of [json, text], got %q", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the optional file path, applies environment
// variable overrides with the RPSARENA_ prefix, and validates the result.
// An empty path means defaults plus environment only.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetEnvPrefix("RPSARENA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "")
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.shutdown_timeout", "30s")

	v.SetDefault("storage.type", "memory")
	v.SetDefault("storage.redis_url", "")
	v.SetDefault("storage.round_history_ttl", "24h")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}
