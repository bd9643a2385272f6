// Safewatch - Tourist Safety Tracking and Risk Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safewatch

// Package metrics defines the Prometheus collectors exported on /metrics.
//
// Collectors are registered with promauto at package init, so importing the
// package is enough to expose them. Callers record through the Record* and
// Track* helpers rather than touching collectors directly, except where a
// vector needs a label set up front (circuit breaker gauges).
//
// Families:
//
//   - api_*: request counts, latency and in-flight requests
//   - duckdb_*: query latency and errors
//   - risk_*: evaluations by level, anomalies by type, batch runs
//   - websocket_*: connected clients and message counts
//   - circuit_breaker_*: state, transitions and request outcomes
//   - events_*: event bus publish and handle counts
package metrics
