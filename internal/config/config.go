// Waxcharts - Bayesian Music Release Charts
// Copyright 2026 Waxcharts contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/waxcharts/waxcharts

// Package config loads and validates Waxcharts configuration via koanf v2
// with layered sources: struct defaults, an optional YAML file, then
// environment variables (highest priority, WAXCHARTS_ prefix).
package config

import (
	"fmt"
	"time"
)

// Config is the process-wide configuration, fixed at deployment. None of
// these settings are per-request parameters.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Chart    ChartConfig    `koanf:"chart"`
	Ingest   IngestConfig   `koanf:"ingest"`
	API      APIConfig      `koanf:"api"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"`
}

// DatabaseConfig holds BadgerDB settings. InMemory is intended for tests
// and throwaway environments; it disables persistence entirely.
type DatabaseConfig struct {
	Path     string `koanf:"path"`
	InMemory bool   `koanf:"in_memory"`
}

// ChartConfig holds the scoring and snapshot settings of the chart engine.
type ChartConfig struct {
	// BayesianMinRatings is the shrinkage constant m: a release needs
	// roughly this many ratings before its own average dominates the
	// snapshot-global prior.
	BayesianMinRatings float64 `koanf:"bayesian_min_ratings"`

	// EsotericThreshold flags releases with fewer effective ratings than
	// this as esoteric (hidden from the default chart view).
	EsotericThreshold int64 `koanf:"esoteric_threshold"`

	// RebuildInterval is the cadence of periodic snapshot recomputation.
	RebuildInterval time.Duration `koanf:"rebuild_interval"`

	// StaleAfter marks served charts as stale once the snapshot is older
	// than this horizon.
	StaleAfter time.Duration `koanf:"stale_after"`

	// DefaultLimit applies when a chart request omits limit; MaxLimit is
	// the server-enforced cap.
	DefaultLimit int `koanf:"default_limit"`
	MaxLimit     int `koanf:"max_limit"`
}

// IngestConfig holds the rating ingestion pipeline settings.
type IngestConfig struct {
	// BufferSize is the gochannel Pub/Sub output buffer.
	BufferSize int64 `koanf:"buffer_size"`

	// RetryCount is the router retry middleware attempt count.
	RetryCount int `koanf:"retry_count"`

	// AutoRebuild triggers a snapshot rebuild after ratings land, rate
	// limited to one trigger per AutoRebuildMinInterval.
	AutoRebuild            bool          `koanf:"auto_rebuild"`
	AutoRebuildMinInterval time.Duration `koanf:"auto_rebuild_min_interval"`
}

// APIConfig holds request-handling limits for the HTTP surface.
type APIConfig struct {
	RateLimitRequests int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// defaultConfig returns a Config with all default values. Defaults are
// applied first, then overridden by config file and environment.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:    "0.0.0.0",
			Port:    8974,
			Timeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			Path:     "/data/waxcharts",
			InMemory: false,
		},
		Chart: ChartConfig{
			BayesianMinRatings: 50,
			EsotericThreshold:  50,
			RebuildInterval:    time.Hour,
			StaleAfter:         2 * time.Hour,
			DefaultLimit:       100,
			MaxLimit:           500,
		},
		Ingest: IngestConfig{
			BufferSize:             1024,
			RetryCount:             3,
			AutoRebuild:            true,
			AutoRebuildMinInterval: time.Minute,
		},
		API: APIConfig{
			RateLimitRequests: 100,
			RateLimitWindow:   time.Minute,
			CORSOrigins:       nil,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Validate checks the configuration for values the engine cannot run with.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if !c.Database.InMemory && c.Database.Path == "" {
		return fmt.Errorf("database.path is required unless database.in_memory is set")
	}
	if c.Chart.BayesianMinRatings <= 0 {
		return fmt.Errorf("chart.bayesian_min_ratings must be positive, got %v", c.Chart.BayesianMinRatings)
	}
	if c.Chart.EsotericThreshold < 0 {
		return fmt.Errorf("chart.esoteric_threshold must not be negative, got %d", c.Chart.EsotericThreshold)
	}
	if c.Chart.RebuildInterval <= 0 {
		return fmt.Errorf("chart.rebuild_interval must be positive, got %v", c.Chart.RebuildInterval)
	}
	if c.Chart.DefaultLimit < 1 || c.Chart.MaxLimit < 1 {
		return fmt.Errorf("chart limits must be positive (default %d, max %d)", c.Chart.DefaultLimit, c.Chart.MaxLimit)
	}
	if c.Chart.DefaultLimit > c.Chart.MaxLimit {
		return fmt.Errorf("chart.default_limit %d exceeds chart.max_limit %d", c.Chart.DefaultLimit, c.Chart.MaxLimit)
	}
	if c.Ingest.BufferSize < 1 {
		return fmt.Errorf("ingest.buffer_size must be positive, got %d", c.Ingest.BufferSize)
	}
	if c.Ingest.RetryCount < 0 {
		return fmt.Errorf("ingest.retry_count must not be negative, got %d", c.Ingest.RetryCount)
	}
	return nil
}
