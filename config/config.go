// Package config loads service settings from the environment and an optional .env file.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"go.uber.org/zap/zapcore"

	"fakeorders/fake"
	"fakeorders/fakefactory"
)

// Config holds everything main needs to start the service.
type Config struct {
	HTTPAddr          string
	DatabaseDSN       string
	LogLevel          zapcore.Level
	SeedConcurrency   int
	RecursiveDepth    uint
	MaxCollectionSize uint
	TimezoneOffset    time.Duration
}

// Load reads .env files (missing files are ignored) and then the environment.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, errors.Wrap(err, "config: load .env")
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment.
func FromEnv() (*Config, error) {
	defaults := fakefactory.DefaultConfig()

	cfg := &Config{
		HTTPAddr:    getEnv("FAKEORDERS_HTTP_ADDR", ":8080"),
		DatabaseDSN: getEnv("FAKEORDERS_DB_DSN", "file:fakeorders.db?_foreign_keys=on"),
	}

	var err error
	if cfg.LogLevel, err = zapcore.ParseLevel(getEnv("FAKEORDERS_LOG_LEVEL", "info")); err != nil {
		return nil, errors.Wrap(err, "config: FAKEORDERS_LOG_LEVEL")
	}
	if cfg.SeedConcurrency, err = getEnvAsInt("FAKEORDERS_SEED_CONCURRENCY", 4); err != nil {
		return nil, err
	}
	if cfg.RecursiveDepth, err = getEnvAsUint("FAKEORDERS_RECURSIVE_DEPTH", defaults.RecursiveDepth); err != nil {
		return nil, err
	}
	if cfg.MaxCollectionSize, err = getEnvAsUint("FAKEORDERS_MAX_COLLECTION_SIZE", fake.DefaultMaxCollectionSize); err != nil {
		return nil, err
	}
	if cfg.TimezoneOffset, err = getEnvAsDuration("FAKEORDERS_TIMEZONE_OFFSET", defaults.DefaultTimezoneOffset); err != nil {
		return nil, err
	}

	if cfg.SeedConcurrency < 1 {
		return nil, errors.New("config: FAKEORDERS_SEED_CONCURRENCY must be at least 1")
	}
	if cfg.TimezoneOffset <= -24*time.Hour || cfg.TimezoneOffset >= 24*time.Hour {
		return nil, errors.Errorf("config: FAKEORDERS_TIMEZONE_OFFSET %s out of range", cfg.TimezoneOffset)
	}
	return cfg, nil
}

// Fake returns the generator configuration for fakefactory.New.
func (c *Config) Fake() fake.Config {
	return fake.Config{
		DefaultTimezoneOffset: c.TimezoneOffset,
		RecursiveDepth:        c.RecursiveDepth,
		MaxCollectionSize:     c.MaxCollectionSize,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, errors.Wrapf(err, "config: %s", key)
	}
	return n, nil
}

func getEnvAsUint(key string, defaultValue uint) (uint, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		return 0, errors.Wrapf(err, "config: %s", key)
	}
	return uint(n), nil
}

func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, errors.Wrapf(err, "config: %s", key)
	}
	return d, nil
}
