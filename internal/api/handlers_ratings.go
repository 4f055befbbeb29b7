// Waxcharts - Bayesian Music Release Charts
// Copyright 2026 Waxcharts contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/waxcharts/waxcharts

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/waxcharts/waxcharts/internal/catalog"
	"github.com/waxcharts/waxcharts/internal/logging"
	"github.com/waxcharts/waxcharts/internal/models"
	"github.com/waxcharts/waxcharts/internal/validation"
)

// RatingSubmission is the request body for POST /api/v1/ratings.
type RatingSubmission struct {
	UserID    int64   `json:"user_id" validate:"required,gt=0"`
	ReleaseID int64   `json:"release_id" validate:"required,gt=0"`
	Score     float64 `json:"score" validate:"required,gte=0.5,lte=5,ratingstep"`
}

// SubmitRating accepts one rating submission and hands it to the
// asynchronous ingestion pipeline.
//
// Method: POST
// Path: /api/v1/ratings
//
// The release must exist and be ACTIVE. Acceptance is acknowledged with
// 202 and the generated event ID; the rating becomes visible in charts
// after the next snapshot recomputation.
func (h *Handler) SubmitRating(w http.ResponseWriter, r *http.Request) {
	var body RatingSubmission
	if !decodeBody(w, r, &body) {
		return
	}
	if verr := validation.ValidateStruct(&body); verr != nil {
		respondValidationError(w, verr)
		return
	}

	rel, err := h.catalog.Get(r.Context(), body.ReleaseID)
	if err != nil {
		if errors.Is(err, catalog.ErrReleaseNotFound) {
			respondError(w, http.StatusNotFound, "NOT_FOUND", "release not found", map[string]interface{}{
				"release_id": body.ReleaseID,
			})
			return
		}
		ctxLogger := logging.Ctx(r.Context())
		ctxLogger.Error().Err(err).Int64("release_id", body.ReleaseID).Msg("catalog lookup failed")
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "catalog lookup failed", nil)
		return
	}
	if rel.Status != models.ReleaseStatusActive {
		respondError(w, http.StatusConflict, "RELEASE_INACTIVE", "release is not accepting ratings", map[string]interface{}{
			"release_id": rel.ReleaseID,
			"status":     string(rel.Status),
		})
		return
	}

	ev := models.RatingEvent{
		EventID:   uuid.NewString(),
		ReleaseID: body.ReleaseID,
		UserID:    body.UserID,
		Score:     body.Score,
		Timestamp: time.Now().UTC(),
	}

	if err := h.publisher.PublishRating(r.Context(), ev); err != nil {
		ctxLogger := logging.Ctx(r.Context())
		ctxLogger.Error().Err(err).Str("event_id", ev.EventID).Msg("failed to publish rating")
		respondError(w, http.StatusServiceUnavailable, "INGEST_UNAVAILABLE", "rating could not be queued", nil)
		return
	}

	respondJSON(w, http.StatusAccepted, map[string]interface{}{
		"event_id":   ev.EventID,
		"release_id": ev.ReleaseID,
		"user_id":    ev.UserID,
		"score":      ev.Score,
		"timestamp":  ev.Timestamp,
	})
}
