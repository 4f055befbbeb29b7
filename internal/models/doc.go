// Waxcharts - Bayesian Music Release Charts
// Copyright 2026 Waxcharts contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/waxcharts/waxcharts

// Package models holds the shared domain types of the chart engine:
// rating events, catalog releases, chart filters and responses, and the
// API envelope. Types here carry no behavior beyond validation and
// predicate helpers; persistence and scoring live in their own packages.
package models
