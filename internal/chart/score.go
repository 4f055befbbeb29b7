// Waxcharts - Bayesian Music Release Charts
// Copyright 2026 Waxcharts contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/waxcharts/waxcharts

package chart

import (
	"github.com/waxcharts/waxcharts/internal/models"
)

// GlobalMeanRating computes the prior all releases in a snapshot are
// shrunk toward: the mean of per-release averages across releases with at
// least one rating. Computed once per snapshot so chart ordering is a
// single consistent batch, not a per-release independent computation.
// Returns 0 with ok=false when no release has ratings.
func GlobalMeanRating(stats map[int64]*models.ReleaseStats) (mean float64, ok bool) {
	var sum float64
	var n int
	for _, st := range stats {
		if st.TotalRatings > 0 {
			sum += st.WeightedAvgRating
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// BayesianScore blends a release's own average with the snapshot-global
// prior, weighted by rating volume (Laplace shrinkage):
//
//	score = (n/(n+m))·avg + (m/(n+m))·globalMean
//
// where m is the configured minimum-ratings-confidence constant. The
// result is a convex combination of avg and globalMean: it always lies
// between the two, approaches avg as n grows, and approaches globalMean
// as n shrinks. The score is kept at full float64 precision; rounding
// would collapse distinct scores and disturb the deterministic ordering.
//
// Callers must not pass totalRatings == 0; zero-rating releases are
// excluded upstream by the aggregator.
func BayesianScore(weightedAvg, globalMean, m float64, totalRatings int64) float64 {
	n := float64(totalRatings)
	return (n*weightedAvg + m*globalMean) / (n + m)
}
