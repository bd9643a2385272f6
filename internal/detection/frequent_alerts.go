// Safewatch - Tourist Safety Tracking and Risk Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safewatch

package detection

// FrequentAlertsDetector flags repeated SOS alerts within the alert window.
// The count is supplied by the caller; the detector does not look at the series.
type FrequentAlertsDetector struct {
	minAlerts int
}

// NewFrequentAlertsDetector creates a frequent alerts detector.
func NewFrequentAlertsDetector(t Thresholds) *FrequentAlertsDetector {
	return &FrequentAlertsDetector{minAlerts: t.FrequentAlertCount}
}

// Anomaly implements Detector.
func (d *FrequentAlertsDetector) Anomaly() Anomaly {
	return AnomalyFrequentAlerts
}

// Detect implements Detector.
func (d *FrequentAlertsDetector) Detect(in Input) bool {
	return in.AlertCount >= d.minAlerts
}
