// Waxcharts - Bayesian Music Release Charts
// Copyright 2026 Waxcharts contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/waxcharts/waxcharts

package chart

import (
	"github.com/waxcharts/waxcharts/internal/models"
)

// Aggregate folds effective rating events into per-release running stats.
//
// The input must already be deduplicated to one event per (user, release)
// pair — the rating store's point-in-time view guarantees that — so each
// event contributes exactly one distinct user to its release. Releases
// with zero effective ratings simply never appear in the result; no
// zero-score entry is fabricated and no division by zero can occur.
func Aggregate(events []models.RatingEvent) map[int64]*models.ReleaseStats {
	stats := make(map[int64]*models.ReleaseStats)
	for _, ev := range events {
		st, ok := stats[ev.ReleaseID]
		if !ok {
			st = &models.ReleaseStats{ReleaseID: ev.ReleaseID}
			stats[ev.ReleaseID] = st
		}
		st.TotalRatings++
		st.RatingSum += ev.Score
		st.RatingSumSquares += ev.Score * ev.Score
	}

	// Derive the mean only after the fold so each entry is internally
	// consistent; stats are never observed half-updated.
	for _, st := range stats {
		st.WeightedAvgRating = st.RatingSum / float64(st.TotalRatings)
	}
	return stats
}
