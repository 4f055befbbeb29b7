// Waxcharts - Bayesian Music Release Charts
// Copyright 2026 Waxcharts contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/waxcharts/waxcharts

package config

import (
	"testing"
	"time"
)

func TestDefaultConfigValid(t *testing.T) {
	cfg := defaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
	if cfg.Chart.BayesianMinRatings != 50 {
		t.Errorf("bayesian_min_ratings default = %v, want 50", cfg.Chart.BayesianMinRatings)
	}
	if cfg.Chart.EsotericThreshold != 50 {
		t.Errorf("esoteric_threshold default = %d, want 50", cfg.Chart.EsotericThreshold)
	}
	if cfg.Chart.DefaultLimit != 100 || cfg.Chart.MaxLimit != 500 {
		t.Errorf("limits = %d/%d, want 100/500", cfg.Chart.DefaultLimit, cfg.Chart.MaxLimit)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port zero", func(c *Config) { c.Server.Port = 0 }},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }},
		{"no db path", func(c *Config) { c.Database.Path = ""; c.Database.InMemory = false }},
		{"zero shrinkage", func(c *Config) { c.Chart.BayesianMinRatings = 0 }},
		{"negative threshold", func(c *Config) { c.Chart.EsotericThreshold = -1 }},
		{"zero rebuild interval", func(c *Config) { c.Chart.RebuildInterval = 0 }},
		{"default above max", func(c *Config) { c.Chart.DefaultLimit = 600 }},
		{"zero buffer", func(c *Config) { c.Ingest.BufferSize = 0 }},
		{"negative retries", func(c *Config) { c.Ingest.RetryCount = -1 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := defaultConfig()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestValidateAllowsInMemoryWithoutPath(t *testing.T) {
	cfg := defaultConfig()
	cfg.Database.Path = ""
	cfg.Database.InMemory = true
	if err := cfg.Validate(); err != nil {
		t.Errorf("in-memory config rejected: %v", err)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("WAXCHARTS_SERVER_PORT", "9000")
	t.Setenv("WAXCHARTS_CHART_REBUILD_INTERVAL", "15m")
	t.Setenv("WAXCHARTS_DATABASE_IN_MEMORY", "true")
	t.Setenv("WAXCHARTS_API_CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("WAXCHARTS_CONFIG", "/nonexistent/nothing.yaml")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Chart.RebuildInterval != 15*time.Minute {
		t.Errorf("rebuild interval = %v, want 15m", cfg.Chart.RebuildInterval)
	}
	if !cfg.Database.InMemory {
		t.Error("in_memory not picked up from environment")
	}
	if len(cfg.API.CORSOrigins) != 2 || cfg.API.CORSOrigins[1] != "https://b.example" {
		t.Errorf("cors origins = %v, want two trimmed entries", cfg.API.CORSOrigins)
	}

	// Untouched settings keep their defaults.
	if cfg.Chart.DefaultLimit != 100 {
		t.Errorf("default limit = %d, want default 100", cfg.Chart.DefaultLimit)
	}
}

func TestEnvTransform(t *testing.T) {
	cases := map[string]string{
		"WAXCHARTS_SERVER_PORT":            "server.port",
		"WAXCHARTS_CHART_REBUILD_INTERVAL": "chart.rebuild_interval",
		"WAXCHARTS_LOGGING_LEVEL":          "logging.level",
	}
	for in, want := range cases {
		if got := envTransform(in); got != want {
			t.Errorf("envTransform(%q) = %q, want %q", in, got, want)
		}
	}
}
