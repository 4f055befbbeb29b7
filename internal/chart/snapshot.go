// Waxcharts - Bayesian Music Release Charts
// Copyright 2026 Waxcharts contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/waxcharts/waxcharts

package chart

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/waxcharts/waxcharts/internal/models"
)

// snapshotKey is where the latest published snapshot persists in Badger so
// a restart serves warm data until the first pass completes.
const snapshotKey = "snapshot:latest"

// Snapshot is one complete, internally consistent batch of scored
// releases. It is immutable after publication: the assembler and query
// service only ever read it, and a newer snapshot replaces it wholesale by
// pointer swap.
type Snapshot struct {
	// Generation increments with every published pass.
	Generation uint64 `json:"generation"`

	// ComputedAt is the pass cutoff: all events with timestamps at or
	// before it are reflected.
	ComputedAt time.Time `json:"computed_at"`

	// GlobalMeanRating is the prior this batch was shrunk toward.
	GlobalMeanRating float64 `json:"global_mean_rating"`

	// Releases holds every scored release, unordered. Ordering is the
	// assembler's job, per filter.
	Releases []models.ScoredRelease `json:"releases"`
}

// Holder publishes snapshots atomically. Readers load the current
// snapshot lock-free and are never blocked by, or exposed to, an
// in-progress recomputation.
type Holder struct {
	current atomic.Pointer[Snapshot]
	db      *badger.DB
}

// NewHolder creates a snapshot holder. If db is non-nil, published
// snapshots persist there and Restore can warm-start from it.
func NewHolder(db *badger.DB) *Holder {
	return &Holder{db: db}
}

// Current returns the latest published snapshot, or nil before the first
// publication.
func (h *Holder) Current() *Snapshot {
	return h.current.Load()
}

// Publish swaps in a fully computed snapshot and persists it. The swap is
// the single atomic step that makes a pass visible; persistence failure is
// reported but does not unpublish.
func (h *Holder) Publish(snap *Snapshot) error {
	h.current.Store(snap)

	if h.db == nil {
		return nil
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := h.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(snapshotKey), data)
	}); err != nil {
		return fmt.Errorf("persist snapshot: %w", err)
	}
	return nil
}

// Restore loads the persisted snapshot, if any, into the holder. Called
// once at startup; reports whether a snapshot was found.
func (h *Holder) Restore() (bool, error) {
	if h.db == nil {
		return false, nil
	}

	var snap Snapshot
	err := h.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(snapshotKey))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &snap)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("restore snapshot: %w", err)
	}

	h.current.Store(&snap)
	return true, nil
}
