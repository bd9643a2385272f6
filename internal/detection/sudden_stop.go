// Safewatch - Tourist Safety Tracking and Risk Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safewatch

package detection

// SuddenStopDetector flags a subject who was moving and then nearly stopped.
//
// With the three newest points p0 (newest), p1 and p2:
//
//	v1 = speed(p2 -> p1)
//	v2 = speed(p1 -> p0)
//
// the anomaly holds when v1 exceeds MinSpeedKmh and v2 is below
// v1 * ResidualRatio.
type SuddenStopDetector struct {
	minPoints     int
	minSpeedKmh   float64
	residualRatio float64
}

// NewSuddenStopDetector creates a sudden stop detector.
func NewSuddenStopDetector(t Thresholds) *SuddenStopDetector {
	return &SuddenStopDetector{
		minPoints:     t.SuddenStopMinPoints,
		minSpeedKmh:   t.SuddenStopMinSpeedKmh,
		residualRatio: t.SuddenStopResidualRatio,
	}
}

// Anomaly implements Detector.
func (d *SuddenStopDetector) Anomaly() Anomaly {
	return AnomalySuddenStop
}

// Detect implements Detector.
func (d *SuddenStopDetector) Detect(in Input) bool {
	s := in.Series
	if len(s) < d.minPoints {
		return false
	}

	previous := speedKmh(s[2], s[1])
	latest := speedKmh(s[1], s[0])

	return previous > d.minSpeedKmh && latest < previous*d.residualRatio
}
