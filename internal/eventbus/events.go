// Safewatch - Tourist Safety Tracking and Risk Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safewatch

package eventbus

import (
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// Topic names.
const (
	TopicLocationRecorded = "location.recorded"
	TopicSOSRaised        = "sos.raised"
)

// Topics lists every topic the evaluation handler consumes.
var Topics = []string{TopicLocationRecorded, TopicSOSRaised}

// ErrInvalidEvent marks an event that can never be processed.
var ErrInvalidEvent = errors.New("invalid event")

// Event is the payload shared by both topics. AlertID is set only for
// sos.raised.
type Event struct {
	ID         string    `json:"event_id"`
	Topic      string    `json:"topic"`
	TouristID  int64     `json:"tourist_id"`
	AlertID    int64     `json:"alert_id,omitempty"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewLocationRecorded builds a location.recorded event.
func NewLocationRecorded(touristID int64, lat, lon float64, recordedAt time.Time) *Event {
	return &Event{
		ID:         uuid.NewString(),
		Topic:      TopicLocationRecorded,
		TouristID:  touristID,
		Latitude:   lat,
		Longitude:  lon,
		OccurredAt: recordedAt.UTC(),
	}
}

// NewSOSRaised builds a sos.raised event.
func NewSOSRaised(alertID, touristID int64, lat, lon float64, raisedAt time.Time) *Event {
	return &Event{
		ID:         uuid.NewString(),
		Topic:      TopicSOSRaised,
		TouristID:  touristID,
		AlertID:    alertID,
		Latitude:   lat,
		Longitude:  lon,
		OccurredAt: raisedAt.UTC(),
	}
}

// Validate checks the fields every consumer depends on.
func (e *Event) Validate() error {
	switch {
	case e.Topic != TopicLocationRecorded && e.Topic != TopicSOSRaised:
		return fmt.Errorf("%w: unknown topic %q", ErrInvalidEvent, e.Topic)
	case e.TouristID <= 0:
		return fmt.Errorf("%w: tourist_id must be positive", ErrInvalidEvent)
	case e.Topic == TopicSOSRaised && e.AlertID <= 0:
		return fmt.Errorf("%w: alert_id must be positive", ErrInvalidEvent)
	}
	return nil
}

// Marshal encodes the event as JSON.
func (e *Event) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

// DecodeEvent parses and validates a payload.
func DecodeEvent(payload []byte) (*Event, error) {
	var e Event
	if err := json.Unmarshal(payload, &e); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return &e, nil
}
