// Waxcharts - Bayesian Music Release Charts
// Copyright 2026 Waxcharts contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/waxcharts/waxcharts

package ratingstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/waxcharts/waxcharts/internal/database"
	"github.com/waxcharts/waxcharts/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.OpenInMemory()
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return New(db)
}

func event(id string, release, user int64, score float64, ts time.Time) models.RatingEvent {
	return models.RatingEvent{
		EventID:   id,
		ReleaseID: release,
		UserID:    user,
		Score:     score,
		Timestamp: ts,
	}
}

func TestAppendAndEffectiveRatings(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	if _, err := store.Append(ctx, event("e1", 1, 10, 4.0, base)); err != nil {
		t.Fatalf("append: %v", err)
	}
	if _, err := store.Append(ctx, event("e2", 1, 11, 3.0, base.Add(time.Minute))); err != nil {
		t.Fatalf("append: %v", err)
	}

	effective, err := store.EffectiveRatings(ctx, base.Add(time.Hour))
	if err != nil {
		t.Fatalf("effective ratings: %v", err)
	}
	if len(effective) != 2 {
		t.Fatalf("got %d effective ratings, want 2", len(effective))
	}
}

func TestAppendSupersedesByTimestamp(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	if _, err := store.Append(ctx, event("e1", 1, 10, 2.0, base)); err != nil {
		t.Fatalf("append: %v", err)
	}
	superseded, err := store.Append(ctx, event("e2", 1, 10, 4.5, base.Add(time.Hour)))
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if !superseded {
		t.Error("later event from same user should supersede")
	}

	effective, err := store.EffectiveRatings(ctx, base.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("effective ratings: %v", err)
	}
	if len(effective) != 1 {
		t.Fatalf("got %d effective ratings, want 1", len(effective))
	}
	if effective[0].Score != 4.5 || effective[0].EventID != "e2" {
		t.Errorf("effective rating = %+v, want the later event", effective[0])
	}
}

func TestAppendOutOfOrderArrival(t *testing.T) {
	// The event with the later timestamp wins regardless of arrival order.
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	if _, err := store.Append(ctx, event("late", 1, 10, 5.0, base.Add(time.Hour))); err != nil {
		t.Fatalf("append: %v", err)
	}
	superseded, err := store.Append(ctx, event("early", 1, 10, 1.0, base))
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if superseded {
		t.Error("an older event must not supersede a newer effective rating")
	}

	effective, err := store.EffectiveRatings(ctx, base.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("effective ratings: %v", err)
	}
	if len(effective) != 1 || effective[0].EventID != "late" {
		t.Errorf("effective = %+v, want the event with the later timestamp", effective)
	}
}

func TestAppendIdenticalRetransmitIsNoop(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	ev := event("e1", 1, 10, 4.0, time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC))

	if _, err := store.Append(ctx, ev); err != nil {
		t.Fatalf("append: %v", err)
	}
	superseded, err := store.Append(ctx, ev)
	if err != nil {
		t.Fatalf("retransmit: %v", err)
	}
	if superseded {
		t.Error("retransmitting the same event must not count as supersession")
	}

	effective, err := store.EffectiveRatings(ctx, ev.Timestamp.Add(time.Hour))
	if err != nil {
		t.Fatalf("effective ratings: %v", err)
	}
	if len(effective) != 1 {
		t.Fatalf("got %d effective ratings after retransmit, want 1", len(effective))
	}
}

func TestEffectiveRatingsCutoff(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	if _, err := store.Append(ctx, event("e1", 1, 10, 2.0, base)); err != nil {
		t.Fatalf("append: %v", err)
	}
	if _, err := store.Append(ctx, event("e2", 1, 10, 5.0, base.Add(time.Hour))); err != nil {
		t.Fatalf("append: %v", err)
	}

	// At a cutoff between the two events, the earlier one is the effective
	// rating: the view is reproducible for a fixed cutoff.
	effective, err := store.EffectiveRatings(ctx, base.Add(30*time.Minute))
	if err != nil {
		t.Fatalf("effective ratings: %v", err)
	}
	if len(effective) != 1 || effective[0].EventID != "e1" {
		t.Errorf("effective at mid cutoff = %+v, want e1", effective)
	}
}

func TestAppendRejectsInvalid(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	bad := []models.RatingEvent{
		event("e1", 0, 10, 4.0, now),   // no release
		event("e2", 1, 0, 4.0, now),    // no user
		event("e3", 1, 10, 4.3, now),   // off-step score
		event("e4", 1, 10, 6.0, now),   // out of range
		event("e5", 1, 10, 4.0, time.Time{}), // no timestamp
	}
	for _, ev := range bad {
		if _, err := store.Append(ctx, ev); !errors.Is(err, ErrInvalidEvent) {
			t.Errorf("event %s: err = %v, want ErrInvalidEvent", ev.EventID, err)
		}
	}
}

func TestUserRatingsNewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	if _, err := store.Append(ctx, event("e1", 1, 10, 4.0, base)); err != nil {
		t.Fatalf("append: %v", err)
	}
	if _, err := store.Append(ctx, event("e2", 2, 10, 3.0, base.Add(time.Hour))); err != nil {
		t.Fatalf("append: %v", err)
	}
	if _, err := store.Append(ctx, event("e3", 3, 99, 5.0, base)); err != nil {
		t.Fatalf("append: %v", err)
	}

	ratings, err := store.UserRatings(ctx, 10)
	if err != nil {
		t.Fatalf("user ratings: %v", err)
	}
	if len(ratings) != 2 {
		t.Fatalf("got %d ratings for user 10, want 2", len(ratings))
	}
	if ratings[0].ReleaseID != 2 || ratings[1].ReleaseID != 1 {
		t.Errorf("order = %d,%d, want newest first (2,1)", ratings[0].ReleaseID, ratings[1].ReleaseID)
	}
}
