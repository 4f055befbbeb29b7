// Waxcharts - Bayesian Music Release Charts
// Copyright 2026 Waxcharts contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/waxcharts/waxcharts

// Package api provides the HTTP surface of the chart engine: the chart
// read contract, rating ingestion, the minimal catalog surface, user
// rating/weighting lookups, and health endpoints. Routing uses chi with
// CORS, per-IP rate limiting, and Prometheus instrumentation.
package api
