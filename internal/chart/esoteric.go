// Waxcharts - Bayesian Music Release Charts
// Copyright 2026 Waxcharts contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/waxcharts/waxcharts

package chart

import (
	"github.com/waxcharts/waxcharts/internal/models"
)

// IsEsoteric flags a release whose rating volume sits below the configured
// absolute threshold. The flag lets clients distinguish broadly-rated hits
// from low-sample releases that scored well after shrinkage; it never
// affects the score itself, only default-view filtering and labeling.
//
// The threshold is applied uniformly within a snapshot, so the flag is
// stable across all releases computed together.
func IsEsoteric(stats *models.ReleaseStats, threshold int64) bool {
	return stats.TotalRatings < threshold
}
