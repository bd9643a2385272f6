// Safewatch - Tourist Safety Tracking and Risk Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safewatch

package services

import (
	"context"
)

// ContextRunner is a component with a blocking, context-bound run loop.
// Satisfied by *websocket.Hub and *detection.Scheduler.
type ContextRunner interface {
	RunWithContext(ctx context.Context) error
}

// RunnerService adapts a ContextRunner to suture.Service.
type RunnerService struct {
	runner ContextRunner
	name   string
}

// NewWebSocketHubService supervises the broadcast hub.
func NewWebSocketHubService(hub ContextRunner) *RunnerService {
	return &RunnerService{runner: hub, name: "websocket-hub"}
}

// NewSchedulerService supervises the periodic risk evaluation.
func NewSchedulerService(scheduler ContextRunner) *RunnerService {
	return &RunnerService{runner: scheduler, name: "risk-scheduler"}
}

// Serve implements suture.Service.
func (s *RunnerService) Serve(ctx context.Context) error {
	return s.runner.RunWithContext(ctx)
}

func (s *RunnerService) String() string {
	return s.name
}
