// Waxcharts - Bayesian Music Release Charts
// Copyright 2026 Waxcharts contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/waxcharts/waxcharts

// Package catalog stores release metadata in BadgerDB. The chart engine
// treats the catalog as an external collaborator: it reads records by
// release id when joining metadata into a snapshot. The write surface is
// the minimum needed to operate the engine, not catalog management.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/waxcharts/waxcharts/internal/models"
)

const releaseKeyPrefix = "release:"

// ErrReleaseNotFound indicates the release id has no catalog record.
var ErrReleaseNotFound = errors.New("release not found")

// Store is the BadgerDB-backed release catalog.
type Store struct {
	db *badger.DB
}

// New creates a catalog store on the given BadgerDB instance.
func New(db *badger.DB) *Store {
	return &Store{db: db}
}

func releaseKey(releaseID int64) []byte {
	return fmt.Appendf(nil, "%s%020d", releaseKeyPrefix, releaseID)
}

// Upsert writes a release record, stamping UpdatedAt.
func (s *Store) Upsert(ctx context.Context, rel models.Release) error {
	if rel.ReleaseID <= 0 {
		return fmt.Errorf("release id must be positive, got %d", rel.ReleaseID)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	rel.UpdatedAt = time.Now().UTC()
	if rel.Status == "" {
		rel.Status = models.ReleaseStatusPending
	}

	data, err := json.Marshal(rel)
	if err != nil {
		return fmt.Errorf("marshal release: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(releaseKey(rel.ReleaseID), data)
	})
}

// Get returns one release record, or ErrReleaseNotFound.
func (s *Store) Get(ctx context.Context, releaseID int64) (*models.Release, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var rel models.Release
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(releaseKey(releaseID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrReleaseNotFound
		}
		if err != nil {
			return fmt.Errorf("get release: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rel)
		})
	})
	if err != nil {
		return nil, err
	}
	return &rel, nil
}

// All returns every catalog record keyed by release id. A recomputation
// pass loads the catalog once up front rather than point-reading per
// release.
func (s *Store) All(ctx context.Context) (map[int64]models.Release, error) {
	out := make(map[int64]models.Release)
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(releaseKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var rel models.Release
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rel)
			}); err != nil {
				return fmt.Errorf("decode release: %w", err)
			}
			out[rel.ReleaseID] = rel
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
