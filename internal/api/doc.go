// Safewatch - Tourist Safety Tracking and Risk Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safewatch

/*
Package api provides the HTTP REST API for Safewatch.

The API serves two clients: the tourist app, which registers a device,
reports GPS fixes and raises SOS alerts, and the police dashboard, which
lists tourists, alerts and risk history, triggers risk analysis and
follows live updates over a WebSocket.

Key Components:

  - Router: chi route tree and middleware stack (SetupChi)
  - ChiMiddleware: CORS and per-IP rate limiting (go-chi/cors, go-chi/httprate)
  - Handler: request handlers for every endpoint
  - Response formatting: a single JSON envelope for success and error

Routes:

Public:

	GET  /api/v1/health, /api/v1/health/live, /api/v1/health/ready
	POST /api/v1/tourists/register
	POST /api/v1/auth/tourist/login
	POST /api/v1/auth/police/login
	GET  /metrics
	GET  /swagger/*

Authenticated (auth.Middleware, then authz.Middleware):

	POST  /api/v1/auth/logout
	POST  /api/v1/location/update
	GET   /api/v1/location/history
	POST  /api/v1/sos/alert
	GET   /api/v1/police/tourists
	GET   /api/v1/police/tourists/{id}/risk-history
	GET   /api/v1/police/alerts
	PATCH /api/v1/police/alerts/{id}
	POST  /api/v1/ai/analyze
	POST  /api/v1/ai/analyze-all
	GET   /api/v1/ws

The route policy decides which role may call what. Handlers additionally
restrict a tourist to their own tourist_id.

Response Format:

	{
	  "status": "success",
	  "data": { ... },
	  "metadata": {"timestamp": "2026-01-02T15:04:05Z", "query_time_ms": 3}
	}

	{
	  "status": "error",
	  "data": null,
	  "metadata": {"timestamp": "2026-01-02T15:04:05Z"},
	  "error": {"code": "VALIDATION_ERROR", "message": "latitude must be at least -90"}
	}

Location and SOS writes are stored, broadcast to WebSocket clients and
published to the event bus so the risk engine re-evaluates the tourist
asynchronously. A failed publish is logged and does not fail the request;
the scheduled batch evaluation covers the subject on its next run.
*/
package api
