// Waxcharts - Bayesian Music Release Charts
// Copyright 2026 Waxcharts contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/waxcharts/waxcharts

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/waxcharts/waxcharts/internal/catalog"
	"github.com/waxcharts/waxcharts/internal/logging"
	"github.com/waxcharts/waxcharts/internal/models"
	"github.com/waxcharts/waxcharts/internal/validation"
)

// ReleaseUpsert is the request body for POST /api/v1/releases.
type ReleaseUpsert struct {
	ReleaseID   int64  `json:"release_id" validate:"required,gt=0"`
	ArtistID    int64  `json:"artist_id" validate:"required,gt=0"`
	ArtistName  string `json:"artist_name" validate:"required,max=512"`
	Title       string `json:"title" validate:"required,max=512"`
	ReleaseType string `json:"release_type" validate:"required,oneof=ALBUM EP SINGLE COMPILATION"`
	ReleaseYear int    `json:"release_year" validate:"required,gte=1900,lte=2100"`
	GenreID     *int64 `json:"genre_id,omitempty" validate:"omitempty,gt=0"`
	Status      string `json:"status,omitempty" validate:"omitempty,oneof=PENDING ACTIVE DELETED"`
}

// UpsertRelease creates or replaces one catalog record.
//
// Method: POST
// Path: /api/v1/releases
func (h *Handler) UpsertRelease(w http.ResponseWriter, r *http.Request) {
	var body ReleaseUpsert
	if !decodeBody(w, r, &body) {
		return
	}
	if verr := validation.ValidateStruct(&body); verr != nil {
		respondValidationError(w, verr)
		return
	}

	rel := models.Release{
		ReleaseID:   body.ReleaseID,
		ArtistID:    body.ArtistID,
		ArtistName:  body.ArtistName,
		Title:       body.Title,
		ReleaseType: models.ReleaseType(body.ReleaseType),
		ReleaseYear: body.ReleaseYear,
		GenreID:     body.GenreID,
		Status:      models.ReleaseStatus(body.Status),
	}
	if err := h.catalog.Upsert(r.Context(), rel); err != nil {
		ctxLogger := logging.Ctx(r.Context())
		ctxLogger.Error().Err(err).Int64("release_id", rel.ReleaseID).Msg("release upsert failed")
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "release could not be stored", nil)
		return
	}

	stored, err := h.catalog.Get(r.Context(), rel.ReleaseID)
	if err != nil {
		ctxLogger := logging.Ctx(r.Context())
		ctxLogger.Error().Err(err).Int64("release_id", rel.ReleaseID).Msg("release readback failed")
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "release could not be read back", nil)
		return
	}
	respondJSON(w, http.StatusOK, stored)
}

// GetRelease returns one catalog record.
//
// Method: GET
// Path: /api/v1/releases/{releaseID}
func (h *Handler) GetRelease(w http.ResponseWriter, r *http.Request) {
	releaseID, ok := pathInt64(chi.URLParam(r, "releaseID"))
	if !ok {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "releaseID must be a positive integer", nil)
		return
	}

	rel, err := h.catalog.Get(r.Context(), releaseID)
	if err != nil {
		if errors.Is(err, catalog.ErrReleaseNotFound) {
			respondError(w, http.StatusNotFound, "NOT_FOUND", "release not found", map[string]interface{}{
				"release_id": releaseID,
			})
			return
		}
		ctxLogger := logging.Ctx(r.Context())
		ctxLogger.Error().Err(err).Int64("release_id", releaseID).Msg("catalog lookup failed")
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "catalog lookup failed", nil)
		return
	}
	respondJSON(w, http.StatusOK, rel)
}
