// Waxcharts - Bayesian Music Release Charts
// Copyright 2026 Waxcharts contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/waxcharts/waxcharts

package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/waxcharts/waxcharts/internal/catalog"
	"github.com/waxcharts/waxcharts/internal/chart"
	"github.com/waxcharts/waxcharts/internal/config"
	"github.com/waxcharts/waxcharts/internal/database"
	"github.com/waxcharts/waxcharts/internal/models"
	"github.com/waxcharts/waxcharts/internal/ratingstore"
)

type fakePublisher struct {
	published []models.RatingEvent
	err       error
}

func (f *fakePublisher) PublishRating(_ context.Context, ev models.RatingEvent) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, ev)
	return nil
}

type fakeRebuild struct {
	triggered int
}

func (f *fakeRebuild) Trigger() bool {
	f.triggered++
	return true
}

type testEnv struct {
	router    http.Handler
	holder    *chart.Holder
	catalog   *catalog.Store
	ratings   *ratingstore.Store
	publisher *fakePublisher
	rebuild   *fakeRebuild
}

type envelope struct {
	Status string           `json:"status"`
	Data   json.RawMessage  `json:"data"`
	Error  *models.APIError `json:"error"`
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := database.OpenInMemory()
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	cfg := &config.Config{
		Chart: config.ChartConfig{
			BayesianMinRatings: 50,
			EsotericThreshold:  50,
			RebuildInterval:    time.Hour,
			StaleAfter:         2 * time.Hour,
			DefaultLimit:       100,
			MaxLimit:           500,
		},
	}

	holder := chart.NewHolder(nil)
	charts := chart.NewService(holder, cfg.Chart)
	ratings := ratingstore.New(db)
	cat := catalog.New(db)
	publisher := &fakePublisher{}
	rebuild := &fakeRebuild{}

	h := NewHandler(charts, publisher, rebuild, ratings, cat, cfg)
	return &testEnv{
		router:    NewRouter(h, config.APIConfig{}),
		holder:    holder,
		catalog:   cat,
		ratings:   ratings,
		publisher: publisher,
		rebuild:   rebuild,
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) (*httptest.ResponseRecorder, *envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	env := &envelope{}
	if rec.Body.Len() > 0 && rec.Header().Get("Content-Type") == "application/json" {
		if err := json.Unmarshal(rec.Body.Bytes(), env); err != nil {
			t.Fatalf("decode envelope: %v (body %s)", err, rec.Body.String())
		}
	}
	return rec, env
}

func (e *testEnv) publishSnapshot(t *testing.T, releases ...models.ScoredRelease) {
	t.Helper()
	if err := e.holder.Publish(&chart.Snapshot{
		Generation: 1,
		ComputedAt: time.Now(),
		Releases:   releases,
	}); err != nil {
		t.Fatalf("publish snapshot: %v", err)
	}
}

func TestChartsTop(t *testing.T) {
	env := newTestEnv(t)
	env.publishSnapshot(t,
		models.ScoredRelease{ReleaseID: 1, Title: "A", ReleaseType: models.ReleaseTypeAlbum, BayesianScore: 4.0, TotalRatings: 100},
		models.ScoredRelease{ReleaseID: 2, Title: "B", ReleaseType: models.ReleaseTypeAlbum, BayesianScore: 3.5, TotalRatings: 80},
		models.ScoredRelease{ReleaseID: 3, Title: "C", ReleaseType: models.ReleaseTypeEP, BayesianScore: 4.5, TotalRatings: 60},
	)

	rec, env2 := env.do(t, http.MethodGet, "/api/v1/charts/top?release_type=ALBUM", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if env2.Status != "success" {
		t.Fatalf("envelope status = %q", env2.Status)
	}

	var resp models.TopChartResponse
	if err := json.Unmarshal(env2.Data, &resp); err != nil {
		t.Fatalf("decode chart: %v", err)
	}
	if len(resp.Entries) != 2 {
		t.Fatalf("got %d entries, want 2 albums", len(resp.Entries))
	}
	if resp.Entries[0].ReleaseID != 1 || resp.Entries[0].Rank != 1 {
		t.Errorf("first entry = %+v", resp.Entries[0])
	}
	if resp.ChartType != "All-Time Top Albums" {
		t.Errorf("chart type = %q", resp.ChartType)
	}
	if resp.LastUpdated.IsZero() {
		t.Error("last_updated missing")
	}
}

func TestChartsTopUnknownReleaseType(t *testing.T) {
	env := newTestEnv(t)
	env.publishSnapshot(t)

	rec, env2 := env.do(t, http.MethodGet, "/api/v1/charts/top?release_type=CASSETTE", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if env2.Error == nil || env2.Error.Code != "VALIDATION_ERROR" {
		t.Errorf("error = %+v, want VALIDATION_ERROR", env2.Error)
	}
}

func TestChartsTopMalformedParams(t *testing.T) {
	env := newTestEnv(t)
	for _, path := range []string{
		"/api/v1/charts/top?genre_id=abc",
		"/api/v1/charts/top?year=nope",
		"/api/v1/charts/top?include_esoteric=maybe",
		"/api/v1/charts/top?limit=-5",
	} {
		rec, _ := env.do(t, http.MethodGet, path, nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", path, rec.Code)
		}
	}
}

func TestChartsTopEmptyIsSuccess(t *testing.T) {
	env := newTestEnv(t)
	env.publishSnapshot(t)

	rec, env2 := env.do(t, http.MethodGet, "/api/v1/charts/top?year=1850", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 for empty chart", rec.Code)
	}
	var resp models.TopChartResponse
	if err := json.Unmarshal(env2.Data, &resp); err != nil {
		t.Fatalf("decode chart: %v", err)
	}
	if len(resp.Entries) != 0 {
		t.Errorf("got %d entries, want 0", len(resp.Entries))
	}
}

func TestChartsRebuild(t *testing.T) {
	env := newTestEnv(t)
	rec, _ := env.do(t, http.MethodPost, "/api/v1/charts/rebuild", nil)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", rec.Code)
	}
	if env.rebuild.triggered != 1 {
		t.Errorf("trigger count = %d, want 1", env.rebuild.triggered)
	}
}

func TestSubmitRating(t *testing.T) {
	env := newTestEnv(t)
	if err := env.catalog.Upsert(context.Background(), models.Release{
		ReleaseID: 1, Title: "A", Status: models.ReleaseStatusActive,
	}); err != nil {
		t.Fatalf("seed release: %v", err)
	}

	rec, env2 := env.do(t, http.MethodPost, "/api/v1/ratings", map[string]interface{}{
		"user_id": 10, "release_id": 1, "score": 4.5,
	})
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if env2.Status != "success" {
		t.Errorf("envelope status = %q", env2.Status)
	}
	if len(env.publisher.published) != 1 {
		t.Fatalf("published %d events, want 1", len(env.publisher.published))
	}
	ev := env.publisher.published[0]
	if ev.EventID == "" {
		t.Error("event id not generated")
	}
	if ev.Timestamp.IsZero() {
		t.Error("server timestamp not assigned")
	}
	if ev.UserID != 10 || ev.ReleaseID != 1 || ev.Score != 4.5 {
		t.Errorf("event = %+v", ev)
	}
}

func TestSubmitRatingValidation(t *testing.T) {
	env := newTestEnv(t)
	cases := []map[string]interface{}{
		{"user_id": 10, "release_id": 1, "score": 4.3},  // off step
		{"user_id": 10, "release_id": 1, "score": 0.0},  // below range
		{"user_id": 10, "release_id": 1, "score": 5.5},  // above range
		{"release_id": 1, "score": 4.0},                 // no user
		{"user_id": 10, "score": 4.0},                   // no release
	}
	for i, body := range cases {
		rec, env2 := env.do(t, http.MethodPost, "/api/v1/ratings", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("case %d: status = %d, want 400", i, rec.Code)
			continue
		}
		if env2.Error == nil || env2.Error.Code != "VALIDATION_ERROR" {
			t.Errorf("case %d: error = %+v", i, env2.Error)
		}
	}
	if len(env.publisher.published) != 0 {
		t.Errorf("invalid submissions published %d events", len(env.publisher.published))
	}
}

func TestSubmitRatingUnknownRelease(t *testing.T) {
	env := newTestEnv(t)
	rec, env2 := env.do(t, http.MethodPost, "/api/v1/ratings", map[string]interface{}{
		"user_id": 10, "release_id": 404, "score": 4.0,
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if env2.Error == nil || env2.Error.Code != "NOT_FOUND" {
		t.Errorf("error = %+v, want NOT_FOUND", env2.Error)
	}
}

func TestSubmitRatingInactiveRelease(t *testing.T) {
	env := newTestEnv(t)
	if err := env.catalog.Upsert(context.Background(), models.Release{
		ReleaseID: 1, Title: "A", Status: models.ReleaseStatusPending,
	}); err != nil {
		t.Fatalf("seed release: %v", err)
	}

	rec, env2 := env.do(t, http.MethodPost, "/api/v1/ratings", map[string]interface{}{
		"user_id": 10, "release_id": 1, "score": 4.0,
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	if env2.Error == nil || env2.Error.Code != "RELEASE_INACTIVE" {
		t.Errorf("error = %+v", env2.Error)
	}
}

func TestReleaseUpsertAndGet(t *testing.T) {
	env := newTestEnv(t)

	rec, _ := env.do(t, http.MethodPost, "/api/v1/releases", map[string]interface{}{
		"release_id":   7,
		"artist_id":    70,
		"artist_name":  "Autechre",
		"title":        "Tri Repetae",
		"release_type": "ALBUM",
		"release_year": 1995,
		"status":       "ACTIVE",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("upsert status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec, env2 := env.do(t, http.MethodGet, "/api/v1/releases/7", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	var rel models.Release
	if err := json.Unmarshal(env2.Data, &rel); err != nil {
		t.Fatalf("decode release: %v", err)
	}
	if rel.Title != "Tri Repetae" || rel.ReleaseType != models.ReleaseTypeAlbum {
		t.Errorf("release = %+v", rel)
	}
}

func TestReleaseUpsertRejectsUnknownType(t *testing.T) {
	env := newTestEnv(t)
	rec, _ := env.do(t, http.MethodPost, "/api/v1/releases", map[string]interface{}{
		"release_id":   7,
		"artist_id":    70,
		"artist_name":  "x",
		"title":        "y",
		"release_type": "CASSETTE",
		"release_year": 1995,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestGetReleaseNotFound(t *testing.T) {
	env := newTestEnv(t)
	rec, _ := env.do(t, http.MethodGet, "/api/v1/releases/404", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	rec, env2 := env.do(t, http.MethodGet, "/api/v1/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if env2.Status != "success" {
		t.Errorf("envelope status = %q", env2.Status)
	}

	rec, _ = env.do(t, http.MethodGet, "/api/v1/health/live", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("live status = %d", rec.Code)
	}
	rec, _ = env.do(t, http.MethodGet, "/api/v1/health/ready", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("ready status = %d", rec.Code)
	}
}

func TestRequestIDHeader(t *testing.T) {
	env := newTestEnv(t)

	rec, _ := env.do(t, http.MethodGet, "/api/v1/health", nil)
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("response missing X-Request-ID")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.Header.Set("X-Request-ID", "fixed-id")
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)
	if got := rr.Header().Get("X-Request-ID"); got != "fixed-id" {
		t.Errorf("inbound request id not honored, got %q", got)
	}
}
