// Waxcharts - Bayesian Music Release Charts
// Copyright 2026 Waxcharts contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/waxcharts/waxcharts

// Package chart implements the ranking engine: aggregation of effective
// ratings into per-release stats, Bayesian shrinkage scoring against a
// snapshot-global prior, esoteric classification, immutable snapshot
// publication, chart assembly, and the query service behind
// GET /charts/top.
//
// Reads are served from the latest completed snapshot, swapped in by
// atomic pointer only after a pass finishes. A failed pass publishes
// nothing; readers keep the previous snapshot and the system degrades to
// staleness, never to an error response.
package chart
