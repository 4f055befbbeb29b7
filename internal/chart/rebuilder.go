// Waxcharts - Bayesian Music Release Charts
// Copyright 2026 Waxcharts contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/waxcharts/waxcharts

package chart

import (
	"context"
	"time"

	"github.com/waxcharts/waxcharts/internal/logging"
)

// Rebuilder runs recomputation passes on a fixed cadence and on demand.
// It implements suture.Service and is the single snapshot writer: its
// Serve loop is the only goroutine that ever calls Builder.Run, so passes
// never interleave. Triggers arriving while a pass runs coalesce into at
// most one queued pass; extras are dropped, never stacked.
type Rebuilder struct {
	builder  *Builder
	interval time.Duration
	trigger  chan struct{}
}

// NewRebuilder creates a rebuilder with the given cadence.
func NewRebuilder(builder *Builder, interval time.Duration) *Rebuilder {
	return &Rebuilder{
		builder:  builder,
		interval: interval,
		trigger:  make(chan struct{}, 1),
	}
}

// Trigger requests an on-demand pass. Non-blocking; returns false when a
// pass is already queued.
func (r *Rebuilder) Trigger() bool {
	select {
	case r.trigger <- struct{}{}:
		return true
	default:
		return false
	}
}

// Serve runs the rebuild loop until ctx is canceled. An initial pass runs
// immediately so a fresh deployment has a chart as soon as possible. A
// pass abandoned by shutdown simply discards its result; nothing partial
// is ever published.
func (r *Rebuilder) Serve(ctx context.Context) error {
	if _, err := r.builder.Run(ctx); err != nil && ctx.Err() == nil {
		logging.Error().Err(err).Msg("initial snapshot pass failed, previous snapshot remains authoritative")
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		case <-r.trigger:
		}

		if _, err := r.builder.Run(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logging.Error().Err(err).Msg("snapshot pass failed, previous snapshot remains authoritative")
		}
	}
}

// String names the service in supervisor logs.
func (r *Rebuilder) String() string {
	return "chart-rebuilder"
}
