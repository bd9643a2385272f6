// Safewatch - Tourist Safety Tracking and Risk Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safewatch

/*
Package middleware provides HTTP middleware shared by the API router.

  - RequestID: accepts or generates X-Request-ID and X-Correlation-ID and
    stores both in the context for logging.Ctx
  - PrometheusMetrics: request counts, latency and in-flight gauge, labelled
    by chi route pattern so IDs in paths do not explode label cardinality
  - AccessLog: one zerolog line per request; slow requests log at warn

All three wrap http.Handler and compose with chi's Use. The response
writer wrapper passes Hijack and Flush through, so WebSocket upgrades work
behind it.

Order in the router:

	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog(time.Second))
	r.Use(middleware.PrometheusMetrics)
*/
package middleware
