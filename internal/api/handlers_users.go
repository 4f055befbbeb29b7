// Waxcharts - Bayesian Music Release Charts
// Copyright 2026 Waxcharts contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/waxcharts/waxcharts

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/waxcharts/waxcharts/internal/logging"
	"github.com/waxcharts/waxcharts/internal/models"
)

// UserRatings lists a user's currently-effective ratings, newest first,
// joined with catalog metadata.
//
// Method: GET
// Path: /api/v1/users/{userID}/ratings
//
// Query parameters:
//   - limit: page size, defaulted and clamped like chart limits
//   - offset: rows to skip
func (h *Handler) UserRatings(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathInt64(chi.URLParam(r, "userID"))
	if !ok {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "userID must be a positive integer", nil)
		return
	}

	limit, ok := queryInt(r, "limit", h.cfg.Chart.DefaultLimit)
	if !ok || limit <= 0 {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "limit must be a positive integer", nil)
		return
	}
	if limit > h.cfg.Chart.MaxLimit {
		limit = h.cfg.Chart.MaxLimit
	}
	offset, ok := queryInt(r, "offset", 0)
	if !ok || offset < 0 {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "offset must be a non-negative integer", nil)
		return
	}

	events, err := h.ratings.UserRatings(r.Context(), userID)
	if err != nil {
		ctxLogger := logging.Ctx(r.Context())
		ctxLogger.Error().Err(err).Int64("user_id", userID).Msg("user ratings lookup failed")
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "ratings lookup failed", nil)
		return
	}

	total := len(events)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	page := events[offset:end]

	rows := make([]models.UserRating, 0, len(page))
	for _, ev := range page {
		row := models.UserRating{
			ReleaseID: ev.ReleaseID,
			Score:     ev.Score,
			RatedAt:   ev.Timestamp,
		}
		// Metadata join is best-effort; a rating for a since-deleted
		// catalog record still lists with bare identifiers.
		if rel, err := h.catalog.Get(r.Context(), ev.ReleaseID); err == nil {
			row.Title = rel.Title
			row.ArtistName = rel.ArtistName
		}
		rows = append(rows, row)
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"user_id": userID,
		"total":   total,
		"offset":  offset,
		"ratings": rows,
	})
}

// UserWeighting serves a user's credibility weight. Purely informational;
// chart scores use the unweighted mean.
//
// Method: GET
// Path: /api/v1/users/{userID}/weighting
func (h *Handler) UserWeighting(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathInt64(chi.URLParam(r, "userID"))
	if !ok {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "userID must be a positive integer", nil)
		return
	}

	events, err := h.ratings.UserRatings(r.Context(), userID)
	if err != nil {
		ctxLogger := logging.Ctx(r.Context())
		ctxLogger.Error().Err(err).Int64("user_id", userID).Msg("user ratings lookup failed")
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "ratings lookup failed", nil)
		return
	}

	respondJSON(w, http.StatusOK, h.weighting.FromRatings(userID, events))
}
