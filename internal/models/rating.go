// Waxcharts - Bayesian Music Release Charts
// Copyright 2026 Waxcharts contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/waxcharts/waxcharts

package models

import "time"

// Rating score bounds. Scores land on 0.5 steps (0.5, 1.0, ..., 5.0),
// matching the site's half-star widget.
const (
	MinRatingScore = 0.5
	MaxRatingScore = 5.0
	RatingStep     = 0.5
)

// RatingEvent is an immutable rating fact submitted by a user for a release.
//
// Events are never mutated or deleted. A later event from the same
// (user, release) pair supersedes the earlier one; supersession is resolved
// by Timestamp, not by arrival order of concurrent writes. Only the latest
// event per pair (the "effective rating") contributes to aggregates.
type RatingEvent struct {
	// EventID uniquely identifies this submission (UUID).
	EventID string `json:"event_id"`

	// ReleaseID identifies the rated release in the catalog.
	ReleaseID int64 `json:"release_id"`

	// UserID identifies the submitting user.
	UserID int64 `json:"user_id"`

	// Score is the submitted rating in [0.5, 5.0] on 0.5 steps.
	Score float64 `json:"score"`

	// Timestamp is the submission time assigned by the server.
	Timestamp time.Time `json:"timestamp"`
}

// ValidScore reports whether s is within rating bounds and on a 0.5 step.
// Float comparison is exact here: every representable half step in
// [0.5, 5.0] is an exact binary fraction.
func ValidScore(s float64) bool {
	if s < MinRatingScore || s > MaxRatingScore {
		return false
	}
	doubled := s * 2
	return doubled == float64(int64(doubled))
}

// ReleaseStats is the running aggregate for one release, owned by the
// aggregator and read-only downstream. All fields are recomputed together
// in a single pass; WeightedAvgRating is always consistent with
// TotalRatings and RatingSum.
type ReleaseStats struct {
	ReleaseID int64 `json:"release_id"`

	// TotalRatings counts distinct users with a currently-effective rating.
	TotalRatings int64 `json:"total_ratings"`

	// RatingSum is the sum of effective rating scores.
	RatingSum float64 `json:"rating_sum"`

	// RatingSumSquares supports variance-style statistics downstream.
	RatingSumSquares float64 `json:"rating_sum_squares"`

	// WeightedAvgRating is RatingSum / TotalRatings. "Weighted" refers to
	// the display contract carried over from the site; the mean itself is
	// the plain arithmetic mean across effective user ratings.
	WeightedAvgRating float64 `json:"weighted_avg_rating"`
}
