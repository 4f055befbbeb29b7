// Waxcharts - Bayesian Music Release Charts
// Copyright 2026 Waxcharts contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/waxcharts/waxcharts

package models

import (
	"fmt"
	"time"
)

// ReleaseType enumerates the release formats accepted by the chart filter.
type ReleaseType string

// Release types. Unknown values are a validation error at the API boundary,
// never silently ignored.
const (
	ReleaseTypeAlbum       ReleaseType = "ALBUM"
	ReleaseTypeEP          ReleaseType = "EP"
	ReleaseTypeSingle      ReleaseType = "SINGLE"
	ReleaseTypeCompilation ReleaseType = "COMPILATION"
)

// ParseReleaseType validates and converts a raw release type string.
func ParseReleaseType(s string) (ReleaseType, error) {
	switch ReleaseType(s) {
	case ReleaseTypeAlbum, ReleaseTypeEP, ReleaseTypeSingle, ReleaseTypeCompilation:
		return ReleaseType(s), nil
	}
	return "", fmt.Errorf("unknown release type %q", s)
}

// ReleaseStatus tracks a release's catalog lifecycle. Only ACTIVE releases
// are charted or accept ratings.
type ReleaseStatus string

const (
	ReleaseStatusPending ReleaseStatus = "PENDING"
	ReleaseStatusActive  ReleaseStatus = "ACTIVE"
	ReleaseStatusDeleted ReleaseStatus = "DELETED"
)

// Release is a catalog metadata record. The catalog is an external
// collaborator from the engine's perspective; the engine only reads it to
// join metadata into snapshots.
type Release struct {
	ReleaseID   int64         `json:"release_id"`
	ArtistID    int64         `json:"artist_id"`
	ArtistName  string        `json:"artist_name"`
	Title       string        `json:"title"`
	ReleaseType ReleaseType   `json:"release_type"`
	ReleaseYear int           `json:"release_year"`
	GenreID     *int64        `json:"genre_id,omitempty"`
	Status      ReleaseStatus `json:"status"`
	UpdatedAt   time.Time     `json:"updated_at"`
}
