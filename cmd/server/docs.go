// Safewatch - Tourist Safety Tracking and Risk Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safewatch

// Package main provides the Safewatch HTTP server
//
// @title Safewatch API
// @version 1.0
// @description Tourist safety tracking: location reporting, SOS alerts, and movement risk analysis for police dispatch.
// @description
// @description ## Authentication
// @description
// @description Tourists obtain a token from `/tourists/register` or `/auth/tourist/login`;
// @description officers from `/auth/police/login`. Send it as `Authorization: Bearer <token>`.
// @description The WebSocket feed also accepts `?token=`.
// @description
// @description ## Rate Limiting
// @description
// @description Default: 100 requests per minute per IP; credential endpoints get a tenth of that.
// @description
// @description ## Error Responses
// @description
// @description ```json
// @description {
// @description   "status": "error",
// @description   "data": null,
// @description   "error": {"code": "ERROR_CODE", "message": "Human-readable message"},
// @description   "metadata": {"timestamp": "2026-03-01T12:34:56Z"}
// @description }
// @description ```
//
// @contact.name GitHub Repository
// @contact.url https://github.com/tomtom215/safewatch/issues
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @BasePath /api/v1
// @schemes http https
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT as "Bearer <token>".
//
// @tag.name Health
// @tag.description Liveness and readiness probes
//
// @tag.name Tourists
// @tag.description Tourist registration
//
// @tag.name Auth
// @tag.description Login and logout
//
// @tag.name Locations
// @tag.description Location reports and history
//
// @tag.name SOS
// @tag.description Emergency alerts raised by tourists
//
// @tag.name Police
// @tag.description Dashboard data and alert handling for officers
//
// @tag.name Analysis
// @tag.description On-demand risk evaluation
//
// @tag.name Live
// @tag.description WebSocket feed of locations, SOS alerts and risk changes
package main
