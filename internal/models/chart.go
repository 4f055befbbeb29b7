// Waxcharts - Bayesian Music Release Charts
// Copyright 2026 Waxcharts contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/waxcharts/waxcharts

package models

import "time"

// ScoredRelease is the derived, read-only view of one release inside a
// snapshot: aggregate stats joined with catalog metadata, the shrunk score,
// and the esoteric flag. Regenerated as a whole batch each recomputation
// pass, never mutated field by field.
type ScoredRelease struct {
	ReleaseID         int64       `json:"release_id"`
	Title             string      `json:"title"`
	ArtistID          int64       `json:"artist_id"`
	ArtistName        string      `json:"artist_name"`
	ReleaseType       ReleaseType `json:"release_type"`
	ReleaseYear       int         `json:"release_year"`
	GenreID           *int64      `json:"genre_id,omitempty"`
	TotalRatings      int64       `json:"total_ratings"`
	WeightedAvgRating float64     `json:"weighted_avg_rating"`
	BayesianScore     float64     `json:"bayesian_score"`
	IsEsoteric        bool        `json:"is_esoteric"`
}

// ChartFilter selects releases for a chart. Omitted (nil) fields impose no
// constraint; provided fields are ANDed. This is the explicit, enumerated
// replacement for the client's old free-form filter object.
type ChartFilter struct {
	GenreID         *int64       `json:"genre_id,omitempty"`
	Year            *int         `json:"year,omitempty"`
	ReleaseType     *ReleaseType `json:"release_type,omitempty"`
	IncludeEsoteric bool         `json:"include_esoteric"`

	// Limit caps the entry count. Zero means the configured default; the
	// query service clamps it to the configured maximum.
	Limit int `json:"limit"`
}

// Matches reports whether a scored release satisfies every provided filter
// dimension. The esoteric flag is handled separately by the assembler.
func (f ChartFilter) Matches(sr ScoredRelease) bool {
	if f.GenreID != nil && (sr.GenreID == nil || *sr.GenreID != *f.GenreID) {
		return false
	}
	if f.Year != nil && sr.ReleaseYear != *f.Year {
		return false
	}
	if f.ReleaseType != nil && sr.ReleaseType != *f.ReleaseType {
		return false
	}
	return true
}

// ChartEntry is one ranked row in a chart response. Rank is 1-based and
// local to the filtered chart, not the global release table.
type ChartEntry struct {
	Rank              int         `json:"rank"`
	ReleaseID         int64       `json:"release_id"`
	Title             string      `json:"title"`
	ArtistName        string      `json:"artist_name"`
	ReleaseType       ReleaseType `json:"release_type"`
	ReleaseYear       int         `json:"release_year"`
	BayesianScore     float64     `json:"bayesian_score"`
	WeightedAvgRating float64     `json:"weighted_avg_rating"`
	TotalRatings      int64       `json:"total_ratings"`
	IsEsoteric        bool        `json:"is_esoteric"`
}

// TopChartResponse is the read contract served to the presentation layer.
// LastUpdated is the snapshot's computation timestamp, not the request
// time, so clients can detect staleness. Stale is a non-fatal warning set
// when the snapshot is older than the configured horizon.
type TopChartResponse struct {
	ChartType   string       `json:"chart_type"`
	LastUpdated time.Time    `json:"last_updated"`
	Stale       bool         `json:"stale,omitempty"`
	Entries     []ChartEntry `json:"entries"`
}

// UserRating is one row in a user's effective-ratings listing.
type UserRating struct {
	ReleaseID  int64     `json:"release_id"`
	Title      string    `json:"title"`
	ArtistName string    `json:"artist_name"`
	Score      float64   `json:"score"`
	RatedAt    time.Time `json:"rated_at"`
}

// UserWeighting is the served view of a user's credibility weight. The
// weight is informational; chart scoring uses the unweighted mean.
type UserWeighting struct {
	UserID         int64      `json:"user_id"`
	Weight         float64    `json:"weight"`
	RatingCount    int64      `json:"rating_count"`
	RatingVariance float64    `json:"rating_variance"`
	LastActiveAt   *time.Time `json:"last_active_at,omitempty"`
}
