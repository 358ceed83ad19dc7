// Copyright 2021 The httpop Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package config loads the httpop command's YAML configuration.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the httpop command configuration.
type Config struct {
	// Timeout bounds each request. Zero means no timeout.
	Timeout   time.Duration     `yaml:"timeout"`
	UserAgent string            `yaml:"user_agent"`
	Header    map[string]string `yaml:"header"`

	Queue QueueConfig `yaml:"queue"`
	Retry RetryConfig `yaml:"retry"`
	Hedge HedgeConfig `yaml:"hedge"`
	Log   LogConfig   `yaml:"log"`

	// Metrics dumps Prometheus metrics to stderr when the command ends.
	Metrics bool `yaml:"metrics"`
	// Trace prints OpenTelemetry spans to stderr.
	Trace bool `yaml:"trace"`
}

// QueueConfig bounds how many requests run at once and how fast they
// start.
type QueueConfig struct {
	MaxConcurrent     int     `yaml:"max_concurrent"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// RetryConfig configures retries of failed requests. Attempts is the
// number of retries after the first try.
type RetryConfig struct {
	Attempts int           `yaml:"attempts"`
	Wait     time.Duration `yaml:"wait"`
}

// HedgeConfig configures hedged requests. A second request is started
// when the first has not finished after Delay.
type HedgeConfig struct {
	Delay     time.Duration `yaml:"delay"`
	MaxRacers int           `yaml:"max_racers"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of debug, info, warn or error.
	Level string `yaml:"level"`
	// Format is one of text or json.
	Format string `yaml:"format"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Timeout:   30 * time.Second,
		UserAgent: "httpop",
		Queue: QueueConfig{
			MaxConcurrent: 4,
		},
		Retry: RetryConfig{
			Wait: 100 * time.Millisecond,
		},
		Hedge: HedgeConfig{
			MaxRacers: 2,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load returns the default configuration overlaid with the YAML file
// at path, if path is not empty, and with HTTPOP_* environment
// variables. Environment references in the file are expanded before
// parsing.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := cfg.loadFromEnv(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadFromEnv() error {
	if val := os.Getenv("HTTPOP_TIMEOUT"); val != "" {
		d, err := time.ParseDuration(val)
		if err != nil {
			return fmt.Errorf("invalid HTTPOP_TIMEOUT: %w", err)
		}
		c.Timeout = d
	}
	if val := os.Getenv("HTTPOP_USER_AGENT"); val != "" {
		c.UserAgent = val
	}
	if val := os.Getenv("HTTPOP_LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("HTTPOP_LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}
	return nil
}

// Validate checks the configuration and reports every problem found.
func (c *Config) Validate() error {
	var errs []string

	if c.Timeout < 0 {
		errs = append(errs, fmt.Sprintf("timeout must not be negative, got %v", c.Timeout))
	}
	if c.Queue.MaxConcurrent < 0 {
		errs = append(errs, fmt.Sprintf("queue.max_concurrent must not be negative, got %d", c.Queue.MaxConcurrent))
	}
	if c.Queue.RequestsPerSecond < 0 {
		errs = append(errs, fmt.Sprintf("queue.requests_per_second must not be negative, got %v", c.Queue.RequestsPerSecond))
	}
	if c.Queue.Burst < 0 {
		errs = append(errs, fmt.Sprintf("queue.burst must not be negative, got %d", c.Queue.Burst))
	}
	if c.Retry.Attempts < 0 {
		errs = append(errs, fmt.Sprintf("retry.attempts must not be negative, got %d", c.Retry.Attempts))
	}
	if c.Retry.Wait < 0 {
		errs = append(errs, fmt.Sprintf("retry.wait must not be negative, got %v", c.Retry.Wait))
	}
	if c.Hedge.Delay < 0 {
		errs = append(errs, fmt.Sprintf("hedge.delay must not be negative, got %v", c.Hedge.Delay))
	}
	if c.Hedge.Delay > 0 && c.Hedge.MaxRacers < 2 {
		errs = append(errs, fmt.Sprintf("hedge.max_racers must be at least 2 when hedging, got %d", c.Hedge.MaxRacers))
	}
	if c.Retry.Attempts > 0 && c.Hedge.Delay > 0 {
		errs = append(errs, "retry and hedge cannot both be enabled")
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		errs = append(errs, fmt.Sprintf("log.format must be text or json, got %q", c.Log.Format))
	}

	if len(errs) > 0 {
		return errors.New("invalid configuration: " + strings.Join(errs, "; "))
	}
	return nil
}

// ParseLevel converts a log level name to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("log.level must be debug, info, warn or error, got %q", s)
	}
}
