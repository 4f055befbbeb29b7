// Waxcharts - Bayesian Music Release Charts
// Copyright 2026 Waxcharts contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/waxcharts/waxcharts

// Package ingest is the asynchronous rating ingestion pipeline: the API
// publishes accepted submissions to an in-process watermill Pub/Sub, and a
// router handler appends them to the rating store. Ingestion therefore
// never blocks the request path on store writes, and the handler's retry
// middleware absorbs transient store failures.
package ingest

import (
	"context"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"golang.org/x/time/rate"

	"github.com/waxcharts/waxcharts/internal/config"
	"github.com/waxcharts/waxcharts/internal/logging"
	"github.com/waxcharts/waxcharts/internal/metrics"
	"github.com/waxcharts/waxcharts/internal/models"
	"github.com/waxcharts/waxcharts/internal/ratingstore"
)

// RebuildTrigger pokes the snapshot rebuilder after ratings land.
type RebuildTrigger interface {
	Trigger() bool
}

// Pipeline owns the Pub/Sub, the router, and the store appender handler.
type Pipeline struct {
	pubsub  *gochannel.GoChannel
	router  *message.Router
	store   *ratingstore.Store
	rebuild RebuildTrigger

	// rebuildLimiter coalesces dirty notifications: a burst of ratings
	// triggers at most one rebuild per configured interval.
	rebuildLimiter *rate.Limiter
}

// NewPipeline wires the ingestion pipeline. rebuild may be nil (or
// auto-rebuild disabled in config) to decouple ingestion from snapshot
// recomputation, e.g. in tests.
func NewPipeline(cfg config.IngestConfig, store *ratingstore.Store, rebuild RebuildTrigger) (*Pipeline, error) {
	wmLogger := newWatermillLogger()

	pubsub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: cfg.BufferSize,
	}, wmLogger)

	router, err := message.NewRouter(message.RouterConfig{}, wmLogger)
	if err != nil {
		return nil, err
	}
	router.AddMiddleware(
		middleware.Recoverer,
		middleware.Retry{
			MaxRetries:      cfg.RetryCount,
			InitialInterval: 100 * time.Millisecond,
			Logger:          wmLogger,
		}.Middleware,
	)

	p := &Pipeline{
		pubsub: pubsub,
		router: router,
		store:  store,
	}
	if cfg.AutoRebuild && rebuild != nil {
		p.rebuild = rebuild
		p.rebuildLimiter = rate.NewLimiter(rate.Every(cfg.AutoRebuildMinInterval), 1)
	}

	router.AddNoPublisherHandler(
		"rating-store-appender",
		TopicRatingSubmitted,
		pubsub,
		p.handleRatingSubmitted,
	)

	return p, nil
}

// PublishRating hands an accepted submission to the pipeline.
func (p *Pipeline) PublishRating(ctx context.Context, ev models.RatingEvent) error {
	msg, err := marshalRatingEvent(ev)
	if err != nil {
		metrics.IngestErrors.WithLabelValues("publish").Inc()
		return err
	}
	msg.SetContext(ctx)

	if err := p.pubsub.Publish(TopicRatingSubmitted, msg); err != nil {
		metrics.IngestErrors.WithLabelValues("publish").Inc()
		return err
	}
	return nil
}

// handleRatingSubmitted appends one event to the rating store. Returning
// an error makes the retry middleware redeliver; Append is idempotent so
// redelivery is safe.
func (p *Pipeline) handleRatingSubmitted(msg *message.Message) error {
	ev, err := unmarshalRatingEvent(msg)
	if err != nil {
		// A payload that cannot decode will never decode; drop it rather
		// than poisoning the retry loop.
		metrics.IngestErrors.WithLabelValues("decode").Inc()
		logging.Error().Err(err).Str("message_id", msg.UUID).Msg("dropping undecodable rating event")
		return nil
	}

	superseded, err := p.store.Append(msg.Context(), ev)
	if err != nil {
		metrics.IngestErrors.WithLabelValues("append").Inc()
		return err
	}

	metrics.RatingsIngested.Inc()
	if superseded {
		metrics.RatingsSuperseded.Inc()
	}
	logging.Debug().
		Str("event_id", ev.EventID).
		Int64("release_id", ev.ReleaseID).
		Int64("user_id", ev.UserID).
		Bool("superseded", superseded).
		Msg("rating appended")

	if p.rebuild != nil && p.rebuildLimiter.Allow() {
		p.rebuild.Trigger()
	}
	return nil
}

// Serve runs the router until ctx is canceled; implements suture.Service.
func (p *Pipeline) Serve(ctx context.Context) error {
	return p.router.Run(ctx)
}

// Running returns a channel closed once the router consumes messages.
// Tests use it to avoid publishing into the void.
func (p *Pipeline) Running() <-chan struct{} {
	return p.router.Running()
}

// Close tears the Pub/Sub down.
func (p *Pipeline) Close() error {
	return p.pubsub.Close()
}

// String names the service in supervisor logs.
func (p *Pipeline) String() string {
	return "ingest-pipeline"
}
