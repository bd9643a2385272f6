// Safewatch - Tourist Safety Tracking and Risk Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safewatch

// Package logging provides zerolog-based structured logging for Safewatch.
//
// A single global logger is configured once at startup by Init and used
// everywhere through the level helpers:
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//	logging.Info().Int64("tourist_id", id).Msg("location recorded")
//
// # Context
//
// HTTP middleware stores a request ID and a correlation ID on the request
// context. Ctx returns a logger carrying both:
//
//	logging.Ctx(ctx).Warn().Err(err).Msg("risk evaluation failed")
//
// Background jobs create their own correlation ID with
// ContextWithNewCorrelationID so a batch run can be followed end to end.
//
// # Adapters
//
// Two libraries need their own logger interfaces:
//
//   - suture (through sutureslog) takes a *slog.Logger: use NewSlogLogger
//   - watermill takes a watermill.LoggerAdapter: use NewWatermillLogger
//
// Both write through the global zerolog logger, so every line in the process
// has the same format and field names.
//
// # Audit
//
// AuthLogger records login, logout and rejected-token events with
// personally identifying values masked.
//
// # Conventions
//
// Messages are lower case and short; data goes in fields, not in the message.
// Always finish an event with Msg or Send, otherwise nothing is written.
package logging
