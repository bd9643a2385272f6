// Safewatch - Tourist Safety Tracking and Risk Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safewatch

package eventbus

import (
	"context"
	"errors"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"

	"github.com/tomtom215/safewatch/internal/detection"
	"github.com/tomtom215/safewatch/internal/logging"
	"github.com/tomtom215/safewatch/internal/metrics"
)

// Evaluator re-scores one tourist. *detection.Engine implements it.
type Evaluator interface {
	EvaluateSubject(ctx context.Context, subjectID int64) (*detection.Evaluation, error)
}

// EvaluationHandler consumes activity events and re-evaluates the tourist
// they belong to.
type EvaluationHandler struct {
	evaluator Evaluator
}

// NewEvaluationHandler creates a handler backed by evaluator.
func NewEvaluationHandler(evaluator Evaluator) *EvaluationHandler {
	return &EvaluationHandler{evaluator: evaluator}
}

// Handle implements message.NoPublishHandlerFunc. Permanent failures are
// acknowledged; transient ones are returned so the Retry middleware can
// try again.
func (h *EvaluationHandler) Handle(msg *message.Message) error {
	topic := msg.Metadata.Get(MetadataTopic)

	event, err := DecodeEvent(msg.Payload)
	if err != nil {
		metrics.RecordEventHandled(topic, err)
		logging.Warn().Err(err).Str("message_uuid", msg.UUID).Msg("dropping invalid event")
		return nil
	}

	ctx := msg.Context()
	if id := middleware.MessageCorrelationID(msg); id != "" {
		ctx = logging.ContextWithCorrelationID(ctx, id)
	}

	_, err = h.evaluator.EvaluateSubject(ctx, event.TouristID)
	metrics.RecordEventHandled(event.Topic, err)
	if err == nil {
		return nil
	}
	if isPermanent(err) {
		logging.Ctx(ctx).Warn().Err(err).
			Str("topic", event.Topic).
			Int64("tourist_id", event.TouristID).
			Msg("event cannot be evaluated")
		return nil
	}
	return err
}

func isPermanent(err error) bool {
	return errors.Is(err, detection.ErrInvalidSubject) || errors.Is(err, ErrInvalidEvent)
}
