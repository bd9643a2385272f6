// Safewatch - Tourist Safety Tracking and Risk Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safewatch

package detection

// UnusualSpeedDetector flags any leg of the series faster than a ground
// traveller can plausibly move. Zero-duration legs have speed 0 and never trip.
type UnusualSpeedDetector struct {
	maxSpeedKmh float64
}

// NewUnusualSpeedDetector creates an unusual speed detector.
func NewUnusualSpeedDetector(t Thresholds) *UnusualSpeedDetector {
	return &UnusualSpeedDetector{maxSpeedKmh: t.UnusualSpeedKmh}
}

// Anomaly implements Detector.
func (d *UnusualSpeedDetector) Anomaly() Anomaly {
	return AnomalyUnusualSpeed
}

// Detect implements Detector.
func (d *UnusualSpeedDetector) Detect(in Input) bool {
	s := in.Series
	for i := 0; i+1 < len(s); i++ {
		if speedKmh(s[i+1], s[i]) > d.maxSpeedKmh {
			return true
		}
	}
	return false
}
