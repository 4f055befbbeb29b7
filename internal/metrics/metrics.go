// Waxcharts - Bayesian Music Release Charts
// Copyright 2026 Waxcharts contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/waxcharts/waxcharts

// Package metrics exposes Prometheus instrumentation for the chart engine:
// rating ingestion throughput, snapshot recomputation passes, store errors,
// and API latency. Metrics are served on /metrics via promhttp.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Ingestion metrics
	RatingsIngested = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "waxcharts_ratings_ingested_total",
			Help: "Total number of rating events appended to the rating store",
		},
	)

	RatingsSuperseded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "waxcharts_ratings_superseded_total",
			Help: "Total number of rating events that replaced a prior rating from the same user",
		},
	)

	IngestErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "waxcharts_ingest_errors_total",
			Help: "Total number of rating ingestion failures",
		},
		[]string{"stage"}, // "publish", "decode", "append"
	)

	// Snapshot metrics
	SnapshotBuilds = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "waxcharts_snapshot_builds_total",
			Help: "Total number of snapshot recomputation passes",
		},
		[]string{"outcome"}, // "published", "failed"
	)

	SnapshotBuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "waxcharts_snapshot_build_duration_seconds",
			Help:    "Duration of snapshot recomputation passes in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60, 300},
		},
	)

	SnapshotReleases = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "waxcharts_snapshot_releases",
			Help: "Number of scored releases in the current snapshot",
		},
	)

	SnapshotGeneration = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "waxcharts_snapshot_generation",
			Help: "Generation counter of the current snapshot",
		},
	)

	CatalogMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "waxcharts_catalog_misses_total",
			Help: "Rated releases skipped during a pass because catalog metadata was missing",
		},
	)

	// Store metrics
	StoreErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "waxcharts_store_errors_total",
			Help: "Total number of keyed-store operation failures",
		},
		[]string{"store", "operation"},
	)

	// API metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "waxcharts_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "waxcharts_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "endpoint"},
	)

	ChartRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "waxcharts_chart_requests_total",
			Help: "Top-chart requests by outcome",
		},
		[]string{"outcome"}, // "ok", "validation_error"
	)
)

// RecordAPIRequest records one completed API request.
func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordSnapshotBuild records one recomputation pass.
func RecordSnapshotBuild(outcome string, releases int, generation uint64, duration time.Duration) {
	SnapshotBuilds.WithLabelValues(outcome).Inc()
	SnapshotBuildDuration.Observe(duration.Seconds())
	if outcome == "published" {
		SnapshotReleases.Set(float64(releases))
		SnapshotGeneration.Set(float64(generation))
	}
}
