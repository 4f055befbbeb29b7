// Waxcharts - Bayesian Music Release Charts
// Copyright 2026 Waxcharts contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/waxcharts/waxcharts

package chart

import (
	"sort"

	"github.com/waxcharts/waxcharts/internal/models"
)

// Assemble turns a snapshot into an ordered chart for one filter:
//
//  1. Select releases matching every provided filter field; hide esoteric
//     releases unless the filter opts in.
//  2. Sort by bayesianScore descending, tie-broken by higher totalRatings,
//     then lower releaseID. The tie-break chain is a total order, so
//     pagination is stable and results are reproducible.
//  3. Truncate to limit and assign contiguous 1-based ranks local to the
//     filtered chart.
//
// An empty result is a valid chart, not an error. The limit must already
// be normalized by the caller.
func Assemble(snap *Snapshot, filter models.ChartFilter) []models.ChartEntry {
	if snap == nil {
		return []models.ChartEntry{}
	}

	matched := make([]models.ScoredRelease, 0, len(snap.Releases))
	for _, sr := range snap.Releases {
		if sr.IsEsoteric && !filter.IncludeEsoteric {
			continue
		}
		if !filter.Matches(sr) {
			continue
		}
		matched = append(matched, sr)
	}

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if a.BayesianScore != b.BayesianScore {
			return a.BayesianScore > b.BayesianScore
		}
		if a.TotalRatings != b.TotalRatings {
			return a.TotalRatings > b.TotalRatings
		}
		return a.ReleaseID < b.ReleaseID
	})

	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}

	entries := make([]models.ChartEntry, len(matched))
	for i, sr := range matched {
		entries[i] = models.ChartEntry{
			Rank:              i + 1,
			ReleaseID:         sr.ReleaseID,
			Title:             sr.Title,
			ArtistName:        sr.ArtistName,
			ReleaseType:       sr.ReleaseType,
			ReleaseYear:       sr.ReleaseYear,
			BayesianScore:     sr.BayesianScore,
			WeightedAvgRating: sr.WeightedAvgRating,
			TotalRatings:      sr.TotalRatings,
			IsEsoteric:        sr.IsEsoteric,
		}
	}
	return entries
}
