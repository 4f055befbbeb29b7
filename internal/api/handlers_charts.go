// Waxcharts - Bayesian Music Release Charts
// Copyright 2026 Waxcharts contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/waxcharts/waxcharts

package api

import (
	"fmt"
	"net/http"

	"github.com/waxcharts/waxcharts/internal/metrics"
	"github.com/waxcharts/waxcharts/internal/models"
)

// ChartsTop serves the ranked chart for the requested filter.
//
// Method: GET
// Path: /api/v1/charts/top
//
// Query parameters, all optional and ANDed together:
//   - genre_id: integer genre constraint
//   - year: release year constraint
//   - release_type: ALBUM | EP | SINGLE | COMPILATION
//   - include_esoteric: include low-sample releases (default false)
//   - limit: entry cap, defaulted and clamped server-side
//
// An unknown release_type is a validation error, not a silently-empty
// chart. An empty result after filtering is a success with no entries.
func (h *Handler) ChartsTop(w http.ResponseWriter, r *http.Request) {
	filter, apiErr := parseChartFilter(r)
	if apiErr != nil {
		metrics.ChartRequests.WithLabelValues("validation_error").Inc()
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
		return
	}

	resp := h.charts.GetTopChart(*filter)
	metrics.ChartRequests.WithLabelValues("ok").Inc()
	respondJSON(w, http.StatusOK, resp)
}

// ChartsRebuild triggers an on-demand snapshot recomputation pass.
//
// Method: POST
// Path: /api/v1/charts/rebuild
//
// Returns 202 whether the trigger was queued or a pass was already
// pending; the queued flag tells the two apart.
func (h *Handler) ChartsRebuild(w http.ResponseWriter, _ *http.Request) {
	queued := h.rebuild.Trigger()
	respondJSON(w, http.StatusAccepted, map[string]interface{}{
		"queued": queued,
	})
}

// parseChartFilter builds a ChartFilter from query parameters, reporting
// the first invalid parameter as a validation error.
func parseChartFilter(r *http.Request) (*models.ChartFilter, *models.APIError) {
	filter := &models.ChartFilter{}

	var ok bool
	if filter.GenreID, ok = queryInt64(r, "genre_id"); !ok {
		return nil, invalidParam("genre_id", "must be an integer")
	}

	yearPtr, ok := queryInt64(r, "year")
	if !ok {
		return nil, invalidParam("year", "must be an integer")
	}
	if yearPtr != nil {
		year := int(*yearPtr)
		filter.Year = &year
	}

	if raw := r.URL.Query().Get("release_type"); raw != "" {
		rt, err := models.ParseReleaseType(raw)
		if err != nil {
			return nil, invalidParam("release_type", err.Error())
		}
		filter.ReleaseType = &rt
	}

	if filter.IncludeEsoteric, ok = queryBool(r, "include_esoteric", false); !ok {
		return nil, invalidParam("include_esoteric", "must be a boolean")
	}

	limit, ok := queryInt(r, "limit", 0)
	if !ok || limit < 0 {
		return nil, invalidParam("limit", "must be a non-negative integer")
	}
	filter.Limit = limit

	return filter, nil
}

func invalidParam(field, reason string) *models.APIError {
	return &models.APIError{
		Code:    "VALIDATION_ERROR",
		Message: fmt.Sprintf("%s %s", field, reason),
		Details: map[string]interface{}{"field": field},
	}
}
