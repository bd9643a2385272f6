// Safewatch - Tourist Safety Tracking and Risk Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safewatch

package detection

import "github.com/tomtom215/safewatch/internal/geo"

// RouteDeviationDetector flags a subject whose newest fixes are far from the
// centroid of the whole series.
//
// This is a heuristic: there is no planned route, so the mean position of the
// recent history stands in for the expected area. It is blind to steady
// travel in one direction once the centroid follows along.
type RouteDeviationDetector struct {
	minPoints    int
	recentPoints int
	maxMeters    float64
}

// NewRouteDeviationDetector creates a route deviation detector.
func NewRouteDeviationDetector(t Thresholds) *RouteDeviationDetector {
	return &RouteDeviationDetector{
		minPoints:    t.RouteDeviationMinPoints,
		recentPoints: t.RouteDeviationRecentPoints,
		maxMeters:    t.RouteDeviationMeters,
	}
}

// Anomaly implements Detector.
func (d *RouteDeviationDetector) Anomaly() Anomaly {
	return AnomalyRouteDeviation
}

// Detect implements Detector.
func (d *RouteDeviationDetector) Detect(in Input) bool {
	s := in.Series
	if len(s) < d.minPoints {
		return false
	}

	center := geo.Centroid(s.Coordinates())

	recent := d.recentPoints
	if recent > len(s) {
		recent = len(s)
	}
	for _, p := range s[:recent] {
		if geo.DistanceMeters(p.Coordinate(), center) > d.maxMeters {
			return true
		}
	}
	return false
}
