// Safewatch - Tourist Safety Tracking and Risk Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safewatch

package detection

import (
	"context"
	"time"
)

// LocationSource supplies the history the engine evaluates.
type LocationSource interface {
	// FetchRecentLocations returns at most maxCount fixes recorded within
	// window of now, newest first.
	FetchRecentLocations(ctx context.Context, subjectID int64, window time.Duration, maxCount int) (LocationSeries, error)

	// FetchAlertCount returns the number of SOS alerts raised within window.
	FetchAlertCount(ctx context.Context, subjectID int64, window time.Duration) (int, error)

	// ActiveSubjects returns every subject with at least one fix within window.
	ActiveSubjects(ctx context.Context, window time.Duration) ([]int64, error)
}

// AssessmentSink receives scored assessments. It is append-only: each call
// records a new history entry and never replaces an earlier one.
type AssessmentSink interface {
	AppendRiskAssessment(ctx context.Context, subjectID int64, assessment RiskAssessment, evaluatedAt time.Time) error
}

// Store is the full persistence surface the engine needs.
type Store interface {
	LocationSource
	AssessmentSink
}

// Broadcaster pushes messages to live dashboard clients.
type Broadcaster interface {
	BroadcastJSON(messageType string, data interface{})
}
