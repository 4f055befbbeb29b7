// Waxcharts - Bayesian Music Release Charts
// Copyright 2026 Waxcharts contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/waxcharts/waxcharts

package chart

import (
	"math"
	"testing"
	"time"

	"github.com/waxcharts/waxcharts/internal/models"
)

func ratingAt(release, user int64, score float64, ts time.Time) models.RatingEvent {
	return models.RatingEvent{
		EventID:   time.Now().Format(time.RFC3339Nano),
		ReleaseID: release,
		UserID:    user,
		Score:     score,
		Timestamp: ts,
	}
}

func TestAggregate(t *testing.T) {
	now := time.Now()
	events := []models.RatingEvent{
		ratingAt(1, 10, 4.0, now),
		ratingAt(1, 11, 5.0, now),
		ratingAt(1, 12, 3.0, now),
		ratingAt(2, 10, 2.5, now),
	}

	stats := Aggregate(events)
	if len(stats) != 2 {
		t.Fatalf("got %d releases, want 2", len(stats))
	}

	r1 := stats[1]
	if r1.TotalRatings != 3 {
		t.Errorf("release 1 total = %d, want 3", r1.TotalRatings)
	}
	if math.Abs(r1.RatingSum-12.0) > 1e-12 {
		t.Errorf("release 1 sum = %v, want 12", r1.RatingSum)
	}
	if math.Abs(r1.WeightedAvgRating-4.0) > 1e-12 {
		t.Errorf("release 1 mean = %v, want 4", r1.WeightedAvgRating)
	}
	if math.Abs(r1.RatingSumSquares-(16+25+9)) > 1e-12 {
		t.Errorf("release 1 sum of squares = %v, want 50", r1.RatingSumSquares)
	}

	r2 := stats[2]
	if r2.TotalRatings != 1 || r2.WeightedAvgRating != 2.5 {
		t.Errorf("release 2 = %+v, want 1 rating with mean 2.5", r2)
	}
}

func TestAggregateZeroRatingReleasesAbsent(t *testing.T) {
	// Only releases with at least one effective rating appear. There is no
	// zero-score fabrication for unrated releases and no division by zero.
	stats := Aggregate(nil)
	if len(stats) != 0 {
		t.Fatalf("got %d releases for no events, want 0", len(stats))
	}
	if _, ok := stats[42]; ok {
		t.Error("unrated release must not appear in aggregates")
	}
}
