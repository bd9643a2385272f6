// Safewatch - Tourist Safety Tracking and Risk Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safewatch

package services

import (
	"context"
	"fmt"
)

// EventRouter is the consumer side of the event bus.
type EventRouter interface {
	Run(ctx context.Context) error
	Backend() string
}

// EventBusService supervises the event router. Each Serve builds a fresh
// router, so a crashed router is rebuilt on restart. The bus itself is
// closed by the owner once the tree has stopped.
type EventBusService struct {
	bus  EventRouter
	name string
}

// NewEventBusService wraps bus.
func NewEventBusService(bus EventRouter) *EventBusService {
	return &EventBusService{
		bus:  bus,
		name: "event-bus",
	}
}

// Serve implements suture.Service.
func (s *EventBusService) Serve(ctx context.Context) error {
	if err := s.bus.Run(ctx); err != nil && ctx.Err() == nil {
		return fmt.Errorf("%s event bus: %w", s.bus.Backend(), err)
	}
	return ctx.Err()
}

func (s *EventBusService) String() string {
	return s.name
}
