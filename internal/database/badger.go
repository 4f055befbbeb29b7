// Waxcharts - Bayesian Music Release Charts
// Copyright 2026 Waxcharts contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/waxcharts/waxcharts

// Package database opens the shared BadgerDB instance backing the rating
// store, the catalog, and snapshot persistence. The engine treats storage
// as an abstract keyed store; Badger is the embedded implementation.
package database

import (
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"

	"github.com/waxcharts/waxcharts/internal/config"
	"github.com/waxcharts/waxcharts/internal/logging"
)

// Open opens (or creates) the BadgerDB keyed store per configuration.
// With cfg.InMemory set, nothing touches disk; intended for tests.
func Open(cfg config.DatabaseConfig) (*badger.DB, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithLogger(badgerLogger{logger: logging.With().Str("component", "badger").Logger()})

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", cfg.Path, err)
	}
	return db, nil
}

// OpenInMemory opens a throwaway in-memory instance. Test helper.
func OpenInMemory() (*badger.DB, error) {
	return Open(config.DatabaseConfig{InMemory: true})
}

// badgerLogger adapts Badger's logger interface to zerolog. Badger's
// INFO-level output is operational noise; it logs at debug here.
type badgerLogger struct {
	logger zerolog.Logger
}

func (l badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error().Msgf(format, args...)
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn().Msgf(format, args...)
}

func (l badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug().Msgf(format, args...)
}

func (l badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug().Msgf(format, args...)
}
