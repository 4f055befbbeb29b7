// Waxcharts - Bayesian Music Release Charts
// Copyright 2026 Waxcharts contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/waxcharts/waxcharts

package ingest

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"

	"github.com/waxcharts/waxcharts/internal/models"
)

// TopicRatingSubmitted carries accepted rating submissions from the API
// to the store appender.
const TopicRatingSubmitted = "rating.submitted"

// marshalRatingEvent encodes a rating event as a watermill message. The
// message UUID is the event ID, so redelivery and retransmission stay
// idempotent end to end.
func marshalRatingEvent(ev models.RatingEvent) (*message.Message, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("marshal rating event: %w", err)
	}
	return message.NewMessage(ev.EventID, payload), nil
}

// unmarshalRatingEvent decodes a rating event from a watermill message.
func unmarshalRatingEvent(msg *message.Message) (models.RatingEvent, error) {
	var ev models.RatingEvent
	if err := json.Unmarshal(msg.Payload, &ev); err != nil {
		return ev, fmt.Errorf("unmarshal rating event %s: %w", msg.UUID, err)
	}
	return ev, nil
}
