// Waxcharts - Bayesian Music Release Charts
// Copyright 2026 Waxcharts contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/waxcharts/waxcharts

// Package ratingstore persists rating events in BadgerDB.
//
// The store is append-only: events are immutable facts, and a later event
// from the same (user, release) pair supersedes the earlier one without
// deleting it. Two keyspaces are maintained:
//
//	event:<release>:<user>:<ts>   append-only event log, the durable record
//	user:<user>:<release>         latest effective rating per pair
//
// IDs and timestamps are zero-padded decimals so Badger's lexicographic
// key order matches numeric order; the event log for one pair therefore
// iterates in timestamp order.
package ratingstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/waxcharts/waxcharts/internal/models"
)

const (
	eventKeyPrefix = "event:"
	userKeyPrefix  = "user:"
)

// ErrInvalidEvent rejects events that fail basic integrity checks before
// touching the store.
var ErrInvalidEvent = errors.New("invalid rating event")

// Store is the BadgerDB-backed rating event store.
type Store struct {
	db *badger.DB
}

// New creates a rating store on the given BadgerDB instance.
func New(db *badger.DB) *Store {
	return &Store{db: db}
}

func eventKey(ev models.RatingEvent) []byte {
	return fmt.Appendf(nil, "%s%020d:%020d:%020d", eventKeyPrefix, ev.ReleaseID, ev.UserID, ev.Timestamp.UnixNano())
}

func userKey(userID, releaseID int64) []byte {
	return fmt.Appendf(nil, "%s%020d:%020d", userKeyPrefix, userID, releaseID)
}

// Append writes a rating event. The event log always receives the record;
// the effective-rating index is updated only when the event is not older
// than the stored one, so supersession is resolved by timestamp rather
// than arrival order. Retransmission of an identical event is a no-op.
//
// Returns true when the event replaced a previously effective rating from
// the same user.
func (s *Store) Append(ctx context.Context, ev models.RatingEvent) (superseded bool, err error) {
	if ev.ReleaseID <= 0 || ev.UserID <= 0 || !models.ValidScore(ev.Score) || ev.Timestamp.IsZero() {
		return false, fmt.Errorf("%w: release=%d user=%d score=%v", ErrInvalidEvent, ev.ReleaseID, ev.UserID, ev.Score)
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	data, err := json.Marshal(ev)
	if err != nil {
		return false, fmt.Errorf("marshal event: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		uk := userKey(ev.UserID, ev.ReleaseID)

		var prior *models.RatingEvent
		item, err := txn.Get(uk)
		switch {
		case errors.Is(err, badger.ErrKeyNotFound):
			// first rating from this user for this release
		case err != nil:
			return fmt.Errorf("get effective rating: %w", err)
		default:
			prior = &models.RatingEvent{}
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, prior)
			}); err != nil {
				return fmt.Errorf("decode effective rating: %w", err)
			}
		}

		// Identical retransmission: nothing to record.
		if prior != nil && prior.EventID == ev.EventID {
			return nil
		}

		if err := txn.Set(eventKey(ev), data); err != nil {
			return fmt.Errorf("append event: %w", err)
		}

		if prior == nil || !ev.Timestamp.Before(prior.Timestamp) {
			if err := txn.Set(uk, data); err != nil {
				return fmt.Errorf("update effective rating: %w", err)
			}
			superseded = prior != nil
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return superseded, nil
}

// EffectiveRatings returns the latest event per (user, release) pair with
// a timestamp at or before cutoff: the consistent point-in-time view a
// recomputation pass folds over. The result is reproducible for a fixed
// cutoff regardless of concurrent writes after it.
func (s *Store) EffectiveRatings(ctx context.Context, cutoff time.Time) ([]models.RatingEvent, error) {
	var out []models.RatingEvent

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(eventKeyPrefix)
		var (
			candidate models.RatingEvent
			pairKey   []byte
			havePair  bool
		)

		flush := func() {
			if havePair {
				out = append(out, candidate)
				havePair = false
			}
		}

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			item := it.Item()

			// event:<release>:<user>:<ts> — the pair is everything before
			// the final segment.
			key := item.KeyCopy(nil)
			sep := bytes.LastIndexByte(key, ':')
			if sep < 0 {
				continue
			}
			pair := key[:sep]

			if !bytes.Equal(pair, pairKey) {
				flush()
				pairKey = append(pairKey[:0], pair...)
			}

			var ev models.RatingEvent
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &ev)
			}); err != nil {
				return fmt.Errorf("decode event %s: %w", key, err)
			}
			if ev.Timestamp.After(cutoff) {
				continue
			}
			// Keys within a pair ascend by timestamp, so the last event at
			// or before the cutoff wins.
			candidate = ev
			havePair = true
		}
		flush()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// UserRatings returns a user's currently-effective ratings, newest first.
func (s *Store) UserRatings(ctx context.Context, userID int64) ([]models.RatingEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out []models.RatingEvent
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := fmt.Appendf(nil, "%s%020d:", userKeyPrefix, userID)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var ev models.RatingEvent
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &ev)
			}); err != nil {
				return fmt.Errorf("decode effective rating: %w", err)
			}
			out = append(out, ev)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out, nil
}
