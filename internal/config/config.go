// Package config loads the shopctl client settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the client settings. Values come from defaults, then the
// YAML file named by SHOPFRONT_CONFIG (if any), then environment variables.
type Config struct {
	// API
	APIURL  string        `yaml:"api_url"`
	Timeout time.Duration `yaml:"timeout"`

	// Storage
	Storage     string `yaml:"storage"`
	StoragePath string `yaml:"storage_path"`
	RedisAddr   string `yaml:"redis_addr"`
	KeyPrefix   string `yaml:"key_prefix"`

	// Logging
	LogLevel string `yaml:"log_level"`
}

// Default returns the settings used when nothing is configured.
func Default() *Config {
	return &Config{
		APIURL:      "http://localhost:8080/api",
		Timeout:     30 * time.Second,
		Storage:     "sqlite",
		StoragePath: "shopfront-client.db",
		RedisAddr:   "localhost:6379",
		KeyPrefix:   "shopfront:",
		LogLevel:    "info",
	}
}

// Load builds the Config from defaults, the optional YAML file and the
// environment.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("SHOPFRONT_CONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	timeout, err := getEnvDuration("SHOPFRONT_TIMEOUT", cfg.Timeout)
	if err != nil {
		return nil, err
	}
	cfg.Timeout = timeout
	cfg.APIURL = getEnvString("SHOPFRONT_API_URL", cfg.APIURL)
	cfg.Storage = getEnvString("SHOPFRONT_STORAGE", cfg.Storage)
	cfg.StoragePath = getEnvString("SHOPFRONT_STORAGE_PATH", cfg.StoragePath)
	cfg.RedisAddr = getEnvString("SHOPFRONT_REDIS_ADDR", cfg.RedisAddr)
	cfg.KeyPrefix = getEnvString("SHOPFRONT_KEY_PREFIX", cfg.KeyPrefix)
	cfg.LogLevel = getEnvString("SHOPFRONT_LOG_LEVEL", cfg.LogLevel)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) validate() error {
	var errs []error
	if c.APIURL == "" {
		errs = append(errs, errors.New("api_url must not be empty"))
	}
	if c.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout must be positive, got %s", c.Timeout))
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown log_level %q", c.LogLevel))
	}
	return errors.Join(errs...)
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
