// Waxcharts - Bayesian Music Release Charts
// Copyright 2026 Waxcharts contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/waxcharts/waxcharts

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/waxcharts/waxcharts/internal/config"
)

// NewRouter builds the chi router with the full middleware stack and
// every API route.
func NewRouter(h *Handler, cfg config.APIConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(requestIDMiddleware)
	r.Use(chimiddleware.Recoverer)
	r.Use(loggingMiddleware)
	r.Use(metricsMiddleware)

	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.CORSOrigins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			MaxAge:         300,
		}))
	}

	if cfg.RateLimitRequests > 0 {
		r.Use(httprate.LimitByIP(cfg.RateLimitRequests, cfg.RateLimitWindow))
	}

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", h.Health)
		r.Get("/health/live", h.Live)
		r.Get("/health/ready", h.Ready)

		r.Get("/charts/top", h.ChartsTop)
		r.Post("/charts/rebuild", h.ChartsRebuild)

		r.Post("/ratings", h.SubmitRating)

		r.Post("/releases", h.UpsertRelease)
		r.Get("/releases/{releaseID}", h.GetRelease)

		r.Get("/users/{userID}/ratings", h.UserRatings)
		r.Get("/users/{userID}/weighting", h.UserWeighting)
	})

	return r
}
