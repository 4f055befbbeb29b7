// Waxcharts - Bayesian Music Release Charts
// Copyright 2026 Waxcharts contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/waxcharts/waxcharts

package chart

import (
	"fmt"
	"strings"
	"time"

	"github.com/waxcharts/waxcharts/internal/config"
	"github.com/waxcharts/waxcharts/internal/models"
)

// Service is the query boundary the presentation layer calls. It
// normalizes filters, assembles charts against the current snapshot, and
// stamps freshness information. Release-type validation happens at the API
// boundary before the filter reaches this service.
type Service struct {
	holder *Holder
	cfg    config.ChartConfig
	// now is swappable for staleness tests.
	now func() time.Time
}

// NewService creates the chart query service.
func NewService(holder *Holder, cfg config.ChartConfig) *Service {
	return &Service{holder: holder, cfg: cfg, now: time.Now}
}

// GetTopChart serves one chart for the given filter against the latest
// completed snapshot. Limit is defaulted and clamped here; lastUpdated is
// the snapshot's computation time (not the request time) so clients can
// detect staleness. Before the first snapshot exists the chart is empty
// with a zero lastUpdated — a degraded success, never an error.
func (s *Service) GetTopChart(filter models.ChartFilter) *models.TopChartResponse {
	filter.Limit = s.normalizeLimit(filter.Limit)

	snap := s.holder.Current()
	resp := &models.TopChartResponse{
		ChartType: chartLabel(filter),
		Entries:   Assemble(snap, filter),
	}
	if snap != nil {
		resp.LastUpdated = snap.ComputedAt
		resp.Stale = s.cfg.StaleAfter > 0 && s.now().Sub(snap.ComputedAt) > s.cfg.StaleAfter
	}
	return resp
}

// SnapshotStatus reports the current snapshot's generation and
// computation time for health and readiness probes. ok is false before
// the first publication.
func (s *Service) SnapshotStatus() (generation uint64, computedAt time.Time, ok bool) {
	snap := s.holder.Current()
	if snap == nil {
		return 0, time.Time{}, false
	}
	return snap.Generation, snap.ComputedAt, true
}

// normalizeLimit applies the configured default and maximum. Out-of-range
// limits clamp rather than error: a too-large limit is a preference, not a
// malformed request.
func (s *Service) normalizeLimit(limit int) int {
	if limit <= 0 {
		return s.cfg.DefaultLimit
	}
	if limit > s.cfg.MaxLimit {
		return s.cfg.MaxLimit
	}
	return limit
}

// chartLabel derives the deterministic chart title from the filter, so
// repeated identical filters always label the chart identically.
//
//	{}                          -> "All-Time Top Releases"
//	{type: ALBUM, year: 1997}   -> "All-Time Top Albums — 1997"
//	{genre: 5, esoteric: true}  -> "All-Time Top Releases (Genre 5, incl. esoteric)"
func chartLabel(filter models.ChartFilter) string {
	var b strings.Builder
	b.WriteString("All-Time Top ")
	if filter.ReleaseType != nil {
		b.WriteString(releaseTypePlural(*filter.ReleaseType))
	} else {
		b.WriteString("Releases")
	}

	if filter.Year != nil {
		fmt.Fprintf(&b, " — %d", *filter.Year)
	}

	var qualifiers []string
	if filter.GenreID != nil {
		qualifiers = append(qualifiers, fmt.Sprintf("Genre %d", *filter.GenreID))
	}
	if filter.IncludeEsoteric {
		qualifiers = append(qualifiers, "incl. esoteric")
	}
	if len(qualifiers) > 0 {
		fmt.Fprintf(&b, " (%s)", strings.Join(qualifiers, ", "))
	}
	return b.String()
}

func releaseTypePlural(rt models.ReleaseType) string {
	switch rt {
	case models.ReleaseTypeAlbum:
		return "Albums"
	case models.ReleaseTypeEP:
		return "EPs"
	case models.ReleaseTypeSingle:
		return "Singles"
	case models.ReleaseTypeCompilation:
		return "Compilations"
	default:
		return "Releases"
	}
}
