// Waxcharts - Bayesian Music Release Charts
// Copyright 2026 Waxcharts contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/waxcharts/waxcharts

// Command server runs the Waxcharts chart engine: the rating ingestion
// pipeline, the periodic snapshot rebuilder, and the HTTP API, all under
// one supervision tree.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/waxcharts/waxcharts/internal/api"
	"github.com/waxcharts/waxcharts/internal/catalog"
	"github.com/waxcharts/waxcharts/internal/chart"
	"github.com/waxcharts/waxcharts/internal/config"
	"github.com/waxcharts/waxcharts/internal/database"
	"github.com/waxcharts/waxcharts/internal/ingest"
	"github.com/waxcharts/waxcharts/internal/logging"
	"github.com/waxcharts/waxcharts/internal/ratingstore"
	"github.com/waxcharts/waxcharts/internal/supervisor"
)

func main() {
	if err := run(); err != nil {
		logging.Error().Err(err).Msg("server exited with error")
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	logging.Info().
		Str("listen", fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)).
		Bool("in_memory", cfg.Database.InMemory).
		Msg("starting waxcharts")

	db, err := database.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("database close failed")
		}
	}()

	ratings := ratingstore.New(db)
	cat := catalog.New(db)

	holder := chart.NewHolder(db)
	if restored, err := holder.Restore(); err != nil {
		logging.Warn().Err(err).Msg("snapshot restore failed, starting cold")
	} else if restored {
		snap := holder.Current()
		logging.Info().
			Uint64("generation", snap.Generation).
			Time("computed_at", snap.ComputedAt).
			Msg("snapshot restored")
	}

	builder := chart.NewBuilder(ratings, cat, holder, cfg.Chart.BayesianMinRatings, cfg.Chart.EsotericThreshold)
	rebuilder := chart.NewRebuilder(builder, cfg.Chart.RebuildInterval)
	charts := chart.NewService(holder, cfg.Chart)

	pipeline, err := ingest.NewPipeline(cfg.Ingest, ratings, rebuilder)
	if err != nil {
		return fmt.Errorf("build ingestion pipeline: %w", err)
	}
	defer func() {
		if err := pipeline.Close(); err != nil {
			logging.Error().Err(err).Msg("pipeline close failed")
		}
	}()

	handler := api.NewHandler(charts, pipeline, rebuilder, ratings, cat, cfg)
	router := api.NewRouter(handler, cfg.API)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	treeCfg := supervisor.DefaultTreeConfig()
	tree := supervisor.NewTree(logging.NewSlogLogger(), treeCfg)
	tree.AddProcessingService(pipeline)
	tree.AddProcessingService(rebuilder)
	tree.AddAPIService(supervisor.NewHTTPService(server, treeCfg.ShutdownTimeout))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = tree.Serve(ctx)
	if errors.Is(err, context.Canceled) {
		logging.Info().Msg("shutdown complete")
		return nil
	}
	return err
}
