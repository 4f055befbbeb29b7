// Waxcharts - Bayesian Music Release Charts
// Copyright 2026 Waxcharts contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/waxcharts/waxcharts

package api

import (
	"context"
	"time"

	"github.com/waxcharts/waxcharts/internal/catalog"
	"github.com/waxcharts/waxcharts/internal/chart"
	"github.com/waxcharts/waxcharts/internal/config"
	"github.com/waxcharts/waxcharts/internal/models"
	"github.com/waxcharts/waxcharts/internal/ratingstore"
	"github.com/waxcharts/waxcharts/internal/weighting"
)

// RatingPublisher hands accepted rating submissions to the ingestion
// pipeline.
type RatingPublisher interface {
	PublishRating(ctx context.Context, ev models.RatingEvent) error
}

// RebuildTrigger requests an on-demand snapshot recomputation.
type RebuildTrigger interface {
	Trigger() bool
}

// Handler processes HTTP requests for the chart engine.
type Handler struct {
	charts    *chart.Service
	publisher RatingPublisher
	rebuild   RebuildTrigger
	ratings   *ratingstore.Store
	catalog   *catalog.Store
	weighting *weighting.Calculator
	cfg       *config.Config
	startTime time.Time
}

// NewHandler creates the API handler with its collaborators.
func NewHandler(
	charts *chart.Service,
	publisher RatingPublisher,
	rebuild RebuildTrigger,
	ratings *ratingstore.Store,
	cat *catalog.Store,
	cfg *config.Config,
) *Handler {
	return &Handler{
		charts:    charts,
		publisher: publisher,
		rebuild:   rebuild,
		ratings:   ratings,
		catalog:   cat,
		weighting: weighting.NewCalculator(),
		cfg:       cfg,
		startTime: time.Now(),
	}
}
