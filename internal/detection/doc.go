// Safewatch - Tourist Safety Tracking and Risk Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safewatch

// Package detection implements the tourist safety risk engine.
//
// Detection Architecture:
//
//	LocationSeries + AlertCount -> Analyzer -> MovementAnalysis -> Scorer -> RiskAssessment
//	                                 |                                          |
//	                                 v                                          v
//	                         five Detectors                       Engine persists + broadcasts
//
// The Analyzer and Scorer are pure: they hold no mutable state, perform no
// I/O and are safe for concurrent use. The Engine is the driver around them.
// It fetches history from a LocationSource, appends each assessment to an
// AssessmentSink and pushes a risk_update message through a Broadcaster.
//
// Supported Detectors:
//   - Sudden Stop: speed over the previous leg above 10 km/h, then a drop of
//     at least 90% on the latest leg
//   - Unusual Speed: any consecutive pair faster than 150 km/h
//   - Stationary Too Long: the newest and fifth-newest fix are within 100 m
//     but more than two hours apart
//   - Frequent Alerts: two or more SOS alerts in the trailing six hours
//   - Route Deviation: one of the three newest fixes is more than 5 km from
//     the centroid of the whole series
//
// Route deviation is an approximation. There is no planned-route model; the
// centroid of recent fixes stands in for "the expected area".
//
// All thresholds, weights, level bands and windows live in Policy.
// DefaultPolicy returns the reference values.
package detection
