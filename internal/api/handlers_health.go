// Waxcharts - Bayesian Music Release Charts
// Copyright 2026 Waxcharts contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/waxcharts/waxcharts

package api

import (
	"net/http"
	"time"
)

// Health reports process status and snapshot freshness.
//
// Method: GET
// Path: /api/v1/health
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	status := map[string]interface{}{
		"status":         "ok",
		"uptime_seconds": int64(time.Since(h.startTime).Seconds()),
	}

	if gen, computedAt, ok := h.charts.SnapshotStatus(); ok {
		status["snapshot"] = map[string]interface{}{
			"generation":  gen,
			"computed_at": computedAt,
		}
	} else {
		status["snapshot"] = nil
	}

	respondJSON(w, http.StatusOK, status)
}

// Live is the liveness probe. Always 200 while the process serves.
func (h *Handler) Live(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Ready is the readiness probe. The read path never blocks on
// recomputation, so the server is ready as soon as it serves; an empty
// chart before the first snapshot is a valid degraded response.
func (h *Handler) Ready(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
