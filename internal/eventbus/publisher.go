// Safewatch - Tourist Safety Tracking and Risk Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safewatch

package eventbus

import (
	"context"
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"

	"github.com/tomtom215/safewatch/internal/logging"
	"github.com/tomtom215/safewatch/internal/metrics"
)

// Metadata keys set on every published message.
const (
	MetadataTopic     = "topic"
	MetadataTouristID = "tourist_id"
)

// Publisher wraps a watermill publisher with event encoding, correlation
// propagation and metrics.
type Publisher struct {
	pub message.Publisher
}

// NewPublisher wraps pub.
func NewPublisher(pub message.Publisher) *Publisher {
	return &Publisher{pub: pub}
}

// Publish encodes event and publishes it on event.Topic. The message UUID
// is the event ID, and the correlation ID from ctx travels in metadata.
func (p *Publisher) Publish(ctx context.Context, event *Event) error {
	if event == nil {
		return errors.New("event is nil")
	}
	if err := event.Validate(); err != nil {
		return err
	}

	payload, err := event.Marshal()
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := message.NewMessage(event.ID, payload)
	msg.Metadata.Set(MetadataTopic, event.Topic)
	msg.Metadata.Set(MetadataTouristID, fmt.Sprintf("%d", event.TouristID))
	if id := logging.CorrelationIDFromContext(ctx); id != "" {
		middleware.SetCorrelationID(id, msg)
	}

	if err := p.pub.Publish(event.Topic, msg); err != nil {
		return fmt.Errorf("publish %s: %w", event.Topic, err)
	}

	metrics.RecordEventPublished(event.Topic)
	return nil
}
