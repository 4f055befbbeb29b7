// Waxcharts - Bayesian Music Release Charts
// Copyright 2026 Waxcharts contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/waxcharts/waxcharts

// Package weighting derives a per-user credibility weight from rating
// behavior: volume, spread, and activity recency. The weight is served as
// a user-facing statistic; chart scoring deliberately uses the unweighted
// mean of effective ratings, so this signal never feeds the ranking.
package weighting

import (
	"math"
	"time"

	"github.com/waxcharts/waxcharts/internal/models"
)

// Tuning constants. A user reaches full volume credit at nTarget ratings,
// full diversity credit at a score standard deviation of sigmaTarget, and
// loses activity credit exponentially at lambda per day of inactivity.
const (
	minRatings  = 10
	nTarget     = 200.0
	sigmaTarget = 1.5
	lambda      = 0.00095
)

// Component weights sum to 1, so the final weight lives in [0, 1].
const (
	volumeShare    = 0.4
	diversityShare = 0.4
	activityShare  = 0.2
)

// Calculator computes user weighting stats.
type Calculator struct {
	// now is swappable for tests.
	now func() time.Time
}

// NewCalculator creates a calculator.
func NewCalculator() *Calculator {
	return &Calculator{now: time.Now}
}

// FromRatings derives a user's weighting from their effective ratings.
// Users with fewer than 10 ratings carry zero weight: too little history
// to establish credibility.
func (c *Calculator) FromRatings(userID int64, ratings []models.RatingEvent) models.UserWeighting {
	uw := models.UserWeighting{
		UserID:      userID,
		RatingCount: int64(len(ratings)),
	}
	if len(ratings) == 0 {
		return uw
	}

	var sum, sumSquares float64
	var lastActive time.Time
	for _, ev := range ratings {
		sum += ev.Score
		sumSquares += ev.Score * ev.Score
		if ev.Timestamp.After(lastActive) {
			lastActive = ev.Timestamp
		}
	}
	uw.LastActiveAt = &lastActive

	n := float64(len(ratings))
	mean := sum / n
	variance := sumSquares/n - mean*mean
	if variance < 0 {
		// Guard against float cancellation on uniform score histories.
		variance = 0
	}
	uw.RatingVariance = variance

	if len(ratings) < minRatings {
		return uw
	}

	wVolume := volumeShare * math.Min(1, n/nTarget)
	wDiversity := diversityShare * math.Min(1, math.Sqrt(variance)/sigmaTarget)

	daysInactive := c.now().Sub(lastActive).Hours() / 24
	if daysInactive < 0 {
		daysInactive = 0
	}
	wActivity := activityShare * math.Exp(-lambda*daysInactive)

	uw.Weight = clamp01(wVolume + wDiversity + wActivity)
	return uw
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
