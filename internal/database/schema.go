// Safewatch - Tourist Safety Tracking and Risk Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safewatch

package database

// schemaQueries returns the idempotent DDL for the store.
//
// Timestamps have no DEFAULT CURRENT_TIMESTAMP: that default is a
// TIMESTAMPTZ expression and needs the ICU extension during WAL replay.
// Every insert supplies its own timestamps instead.
func schemaQueries() []string {
	return []string{
		`CREATE SEQUENCE IF NOT EXISTS tourists_id_seq START 1`,
		`CREATE SEQUENCE IF NOT EXISTS locations_id_seq START 1`,
		`CREATE SEQUENCE IF NOT EXISTS sos_alerts_id_seq START 1`,
		`CREATE SEQUENCE IF NOT EXISTS risk_assessments_id_seq START 1`,

		`CREATE TABLE IF NOT EXISTS tourists (
			id BIGINT PRIMARY KEY DEFAULT nextval('tourists_id_seq'),
			device_id TEXT NOT NULL UNIQUE,
			name TEXT,
			email TEXT,
			phone TEXT,
			password_hash TEXT,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS locations (
			id BIGINT PRIMARY KEY DEFAULT nextval('locations_id_seq'),
			tourist_id BIGINT NOT NULL,
			latitude DOUBLE NOT NULL,
			longitude DOUBLE NOT NULL,
			accuracy DOUBLE,
			recorded_at TIMESTAMP NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS sos_alerts (
			id BIGINT PRIMARY KEY DEFAULT nextval('sos_alerts_id_seq'),
			tourist_id BIGINT NOT NULL,
			latitude DOUBLE NOT NULL,
			longitude DOUBLE NOT NULL,
			message TEXT,
			status TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'resolved')),
			raised_at TIMESTAMP NOT NULL,
			resolved_at TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS risk_assessments (
			id BIGINT PRIMARY KEY DEFAULT nextval('risk_assessments_id_seq'),
			tourist_id BIGINT NOT NULL,
			risk_level TEXT NOT NULL CHECK (risk_level IN ('low', 'medium', 'high', 'critical')),
			risk_score INTEGER NOT NULL,
			anomalies TEXT NOT NULL DEFAULT '',
			anomaly_type TEXT,
			details TEXT NOT NULL,
			evaluated_at TIMESTAMP NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_tourists_email ON tourists(email)`,
		`CREATE INDEX IF NOT EXISTS idx_locations_tourist_time ON locations(tourist_id, recorded_at)`,
		`CREATE INDEX IF NOT EXISTS idx_locations_recorded_at ON locations(recorded_at)`,
		`CREATE INDEX IF NOT EXISTS idx_sos_alerts_tourist_time ON sos_alerts(tourist_id, raised_at)`,
		`CREATE INDEX IF NOT EXISTS idx_risk_assessments_tourist_time ON risk_assessments(tourist_id, evaluated_at)`,
	}
}
