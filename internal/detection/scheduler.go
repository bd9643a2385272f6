// Safewatch - Tourist Safety Tracking and Risk Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safewatch

package detection

import (
	"context"
	"time"

	"github.com/tomtom215/safewatch/internal/logging"
)

// BatchEvaluator is the part of Engine used by the scheduler.
type BatchEvaluator interface {
	EvaluateAll(ctx context.Context) (*BatchResult, error)
}

// Scheduler runs batch evaluations on a fixed interval.
type Scheduler struct {
	evaluator  BatchEvaluator
	interval   time.Duration
	runAtStart bool
}

// NewScheduler creates a scheduler. When runAtStart is true the first batch
// runs immediately instead of after one interval.
func NewScheduler(evaluator BatchEvaluator, interval time.Duration, runAtStart bool) *Scheduler {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Scheduler{evaluator: evaluator, interval: interval, runAtStart: runAtStart}
}

// Interval returns the configured interval.
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

// RunWithContext blocks, running a batch every interval until ctx is done.
// It returns ctx.Err().
func (s *Scheduler) RunWithContext(ctx context.Context) error {
	logger := logging.WithComponent("risk-scheduler")
	logger.Info().Dur("interval", s.interval).Msg("risk scheduler started")

	if s.runAtStart {
		s.runOnce(ctx)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info().Str("reason", ctx.Err().Error()).Msg("risk scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	runCtx := logging.ContextWithNewCorrelationID(ctx)
	if _, err := s.evaluator.EvaluateAll(runCtx); err != nil && ctx.Err() == nil {
		logging.Ctx(runCtx).Error().Err(err).Msg("scheduled risk evaluation failed")
	}
}
