// Safewatch - Tourist Safety Tracking and Risk Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safewatch

package detection

// Input is what every detector sees for one evaluation.
type Input struct {
	Series     LocationSeries
	AlertCount int
}

// Detector evaluates a single anomaly rule.
// Implementations must be pure and safe for concurrent use.
type Detector interface {
	// Anomaly returns the anomaly this detector reports.
	Anomaly() Anomaly

	// Detect reports whether the anomaly is present in the input.
	// Series is assumed to be ordered newest first.
	Detect(in Input) bool
}

// DefaultDetectors returns the five standard detectors configured from t,
// in evaluation order.
func DefaultDetectors(t Thresholds) []Detector {
	return []Detector{
		NewFrequentAlertsDetector(t),
		NewSuddenStopDetector(t),
		NewUnusualSpeedDetector(t),
		NewStationaryDetector(t),
		NewRouteDeviationDetector(t),
	}
}
