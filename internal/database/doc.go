// Safewatch - Tourist Safety Tracking and Risk Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safewatch

// Package database is the DuckDB-backed store for tourists, location fixes,
// SOS alerts and risk history.
//
// The handle is constructed explicitly with New and closed by its owner; there
// is no package-level connection. New creates the schema idempotently and
// checkpoints the WAL so a restart never replays DDL.
//
// Tables:
//
//	tourists          registered devices, optional credentials
//	locations         GPS fixes, one row per update
//	sos_alerts        alerts with status active|resolved
//	risk_assessments  append-only risk history
//
// All timestamps are stored as UTC TIMESTAMP values supplied by the caller.
// Window queries compute their lower bound in Go from the store clock.
//
// *DB implements detection.Store, so the risk engine reads history and
// appends assessments through it directly.
package database
