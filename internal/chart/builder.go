// Waxcharts - Bayesian Music Release Charts
// Copyright 2026 Waxcharts contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/waxcharts/waxcharts

package chart

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/waxcharts/waxcharts/internal/logging"
	"github.com/waxcharts/waxcharts/internal/metrics"
	"github.com/waxcharts/waxcharts/internal/models"
)

// RatingSource provides the point-in-time view a pass folds over.
type RatingSource interface {
	EffectiveRatings(ctx context.Context, cutoff time.Time) ([]models.RatingEvent, error)
}

// CatalogSource provides release metadata for the snapshot join.
type CatalogSource interface {
	All(ctx context.Context) (map[int64]models.Release, error)
}

// Builder runs recomputation passes and publishes the results. It is not
// safe for concurrent passes; the rebuilder enforces the single-writer
// discipline.
type Builder struct {
	ratings    RatingSource
	catalog    CatalogSource
	holder     *Holder
	m          float64
	esoteric   int64
	generation atomic.Uint64
}

// NewBuilder creates a builder. m is the shrinkage constant, esoteric the
// low-visibility rating-count threshold.
func NewBuilder(ratings RatingSource, catalog CatalogSource, holder *Holder, m float64, esoteric int64) *Builder {
	b := &Builder{
		ratings:  ratings,
		catalog:  catalog,
		holder:   holder,
		m:        m,
		esoteric: esoteric,
	}
	// Continue the generation sequence across restarts when a snapshot
	// was restored.
	if snap := holder.Current(); snap != nil {
		b.generation.Store(snap.Generation)
	}
	return b
}

// Run executes one full recomputation pass: read effective ratings at the
// pass-start cutoff, aggregate, join catalog metadata, score against the
// snapshot-global prior, classify, publish atomically.
//
// Any failure aborts the pass without publishing; the previous snapshot
// remains authoritative. A rated release with no catalog record (or one
// that is not ACTIVE) is logged and excluded rather than failing the
// whole chart.
func (b *Builder) Run(ctx context.Context) (*Snapshot, error) {
	started := time.Now()
	cutoff := started.UTC()

	snap, err := b.build(ctx, cutoff)
	if err != nil {
		metrics.RecordSnapshotBuild("failed", 0, 0, time.Since(started))
		return nil, err
	}

	if err := b.holder.Publish(snap); err != nil {
		// The swap already happened; persistence is best-effort.
		logging.Error().Err(err).Uint64("generation", snap.Generation).Msg("snapshot persisted with errors")
	}
	metrics.RecordSnapshotBuild("published", len(snap.Releases), snap.Generation, time.Since(started))
	logging.Info().
		Uint64("generation", snap.Generation).
		Int("releases", len(snap.Releases)).
		Dur("took", time.Since(started)).
		Msg("snapshot published")
	return snap, nil
}

func (b *Builder) build(ctx context.Context, cutoff time.Time) (*Snapshot, error) {
	events, err := b.ratings.EffectiveRatings(ctx, cutoff)
	if err != nil {
		return nil, fmt.Errorf("read effective ratings: %w", err)
	}

	releases, err := b.catalog.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	stats := Aggregate(events)
	globalMean, ok := GlobalMeanRating(stats)
	if !ok {
		// No rated releases at all: an empty snapshot is still a valid,
		// publishable batch.
		return &Snapshot{
			Generation: b.generation.Add(1),
			ComputedAt: cutoff,
			Releases:   []models.ScoredRelease{},
		}, nil
	}

	scored := make([]models.ScoredRelease, 0, len(stats))
	for releaseID, st := range stats {
		rel, found := releases[releaseID]
		if !found {
			metrics.CatalogMisses.Inc()
			logging.Warn().Int64("release_id", releaseID).Msg("rated release missing from catalog, excluded from snapshot")
			continue
		}
		if rel.Status != models.ReleaseStatusActive {
			continue
		}

		scored = append(scored, models.ScoredRelease{
			ReleaseID:         releaseID,
			Title:             rel.Title,
			ArtistID:          rel.ArtistID,
			ArtistName:        rel.ArtistName,
			ReleaseType:       rel.ReleaseType,
			ReleaseYear:       rel.ReleaseYear,
			GenreID:           rel.GenreID,
			TotalRatings:      st.TotalRatings,
			WeightedAvgRating: st.WeightedAvgRating,
			BayesianScore:     BayesianScore(st.WeightedAvgRating, globalMean, b.m, st.TotalRatings),
			IsEsoteric:        IsEsoteric(st, b.esoteric),
		})
	}

	return &Snapshot{
		Generation:       b.generation.Add(1),
		ComputedAt:       cutoff,
		GlobalMeanRating: globalMean,
		Releases:         scored,
	}, nil
}
