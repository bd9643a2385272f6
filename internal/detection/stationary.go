// Safewatch - Tourist Safety Tracking and Risk Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safewatch

package detection

import (
	"time"

	"github.com/tomtom215/safewatch/internal/geo"
)

// StationaryDetector flags a subject who has barely moved for a long time.
//
// It compares the newest point with the point at index points-1 only; the
// fixes in between are ignored.
type StationaryDetector struct {
	points       int
	radiusMeters float64
	minDuration  time.Duration
}

// NewStationaryDetector creates a stationary-too-long detector.
func NewStationaryDetector(t Thresholds) *StationaryDetector {
	return &StationaryDetector{
		points:       t.StationaryPoints,
		radiusMeters: t.StationaryRadiusMeters,
		minDuration:  t.StationaryMinDuration,
	}
}

// Anomaly implements Detector.
func (d *StationaryDetector) Anomaly() Anomaly {
	return AnomalyStationaryTooLong
}

// Detect implements Detector.
func (d *StationaryDetector) Detect(in Input) bool {
	s := in.Series
	if len(s) < d.points {
		return false
	}

	newest := s[0]
	oldest := s[d.points-1]

	distance := geo.DistanceMeters(newest.Coordinate(), oldest.Coordinate())
	elapsed := newest.Timestamp.Sub(oldest.Timestamp)

	return distance < d.radiusMeters && elapsed > d.minDuration
}
