// Safewatch - Tourist Safety Tracking and Risk Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safewatch

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

const touristColumns = `id, device_id, name, email, phone, password_hash, created_at, updated_at`

// RegisterTourist inserts a tourist, or returns the existing row when the
// device is already registered. created reports whether a row was inserted.
func (db *DB) RegisterTourist(ctx context.Context, in NewTourist) (tourist *Tourist, created bool, err error) {
	defer observe("INSERT", "tourists", time.Now(), &err)

	if strings.TrimSpace(in.DeviceID) == "" {
		return nil, false, errors.New("device id is required")
	}

	now := db.now()
	var id int64
	err = db.conn.QueryRowContext(ctx, `
		INSERT INTO tourists (device_id, name, email, phone, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (device_id) DO NOTHING
		RETURNING id`,
		in.DeviceID, nullString(in.Name), nullString(in.Email), nullString(in.Phone), nullString(in.PasswordHash), now, now,
	).Scan(&id)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		existing, getErr := db.GetTouristByDeviceID(ctx, in.DeviceID)
		if getErr != nil {
			return nil, false, fmt.Errorf("failed to load existing tourist: %w", getErr)
		}
		return existing, false, nil
	case err != nil:
		return nil, false, fmt.Errorf("failed to insert tourist: %w", err)
	}

	t, err := db.GetTourist(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return t, true, nil
}

// GetTourist returns a tourist by ID, or ErrNotFound.
func (db *DB) GetTourist(ctx context.Context, id int64) (*Tourist, error) {
	row := db.conn.QueryRowContext(ctx, `SELECT `+touristColumns+` FROM tourists WHERE id = ?`, id)
	return scanTourist(row)
}

// GetTouristByDeviceID returns a tourist by device ID, or ErrNotFound.
func (db *DB) GetTouristByDeviceID(ctx context.Context, deviceID string) (*Tourist, error) {
	row := db.conn.QueryRowContext(ctx, `SELECT `+touristColumns+` FROM tourists WHERE device_id = ?`, deviceID)
	return scanTourist(row)
}

// GetTouristByEmail returns the most recently registered tourist with
// credentials for email, or ErrNotFound.
func (db *DB) GetTouristByEmail(ctx context.Context, email string) (*Tourist, error) {
	row := db.conn.QueryRowContext(ctx, `
		SELECT `+touristColumns+`
		FROM tourists
		WHERE lower(email) = lower(?) AND password_hash IS NOT NULL
		ORDER BY created_at DESC, id DESC
		LIMIT 1`, email)
	return scanTourist(row)
}

// TouristExists reports whether id is a registered tourist.
func (db *DB) TouristExists(ctx context.Context, id int64) (bool, error) {
	var n int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM tourists WHERE id = ?`, id).Scan(&n); err != nil {
		return false, fmt.Errorf("failed to check tourist: %w", err)
	}
	return n > 0, nil
}

// ListTouristOverview returns every tourist with latest location, active SOS
// count and latest risk assessment. Rows with active alerts come first, then
// higher risk scores; tourists never assessed sort last within their group.
func (db *DB) ListTouristOverview(ctx context.Context) (out []TouristOverview, err error) {
	defer observe("SELECT", "tourists", time.Now(), &err)

	rows, err := db.conn.QueryContext(ctx, `
		WITH latest_location AS (
			SELECT id, tourist_id, latitude, longitude, accuracy, recorded_at, created_at,
			       ROW_NUMBER() OVER (PARTITION BY tourist_id ORDER BY recorded_at DESC, id DESC) AS rn
			FROM locations
		),
		latest_risk AS (
			SELECT id, tourist_id, risk_level, risk_score, anomalies, anomaly_type, details, evaluated_at,
			       ROW_NUMBER() OVER (PARTITION BY tourist_id ORDER BY evaluated_at DESC, id DESC) AS rn
			FROM risk_assessments
		),
		active_alerts AS (
			SELECT tourist_id, COUNT(*) AS active_count
			FROM sos_alerts
			WHERE status = 'active'
			GROUP BY tourist_id
		)
		SELECT t.id, t.device_id, t.name, t.email, t.phone, t.created_at, t.updated_at,
		       l.id, l.latitude, l.longitude, l.accuracy, l.recorded_at, l.created_at,
		       COALESCE(a.active_count, 0) AS active_sos_count,
		       r.id, r.risk_level, r.risk_score, r.anomalies, r.anomaly_type, r.details, r.evaluated_at
		FROM tourists t
		LEFT JOIN latest_location l ON l.tourist_id = t.id AND l.rn = 1
		LEFT JOIN latest_risk r ON r.tourist_id = t.id AND r.rn = 1
		LEFT JOIN active_alerts a ON a.tourist_id = t.id
		ORDER BY active_sos_count DESC, r.risk_score DESC NULLS LAST, t.id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query tourist overview: %w", err)
	}
	defer closeWithLog(rows, "rows")

	out = []TouristOverview{}
	for rows.Next() {
		var (
			o                       TouristOverview
			name, email, phone      sql.NullString
			locID                   sql.NullInt64
			lat, lon, acc           sql.NullFloat64
			locRecorded, locCreated sql.NullTime
			activeCount             int64
			riskID                  sql.NullInt64
			riskLevel, anomalies    sql.NullString
			anomalyType, details    sql.NullString
			riskScore               sql.NullInt64
			evaluatedAt             sql.NullTime
		)
		if err = rows.Scan(
			&o.ID, &o.DeviceID, &name, &email, &phone, &o.CreatedAt, &o.UpdatedAt,
			&locID, &lat, &lon, &acc, &locRecorded, &locCreated,
			&activeCount,
			&riskID, &riskLevel, &riskScore, &anomalies, &anomalyType, &details, &evaluatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan tourist overview: %w", err)
		}

		o.Name, o.Email, o.Phone = name.String, email.String, phone.String
		o.ActiveSOSCount = int(activeCount)

		if locID.Valid {
			o.LastLocation = &Location{
				ID:         locID.Int64,
				TouristID:  o.ID,
				Latitude:   lat.Float64,
				Longitude:  lon.Float64,
				Accuracy:   floatPtr(acc),
				RecordedAt: locRecorded.Time,
				CreatedAt:  locCreated.Time,
			}
		}
		if riskID.Valid {
			o.LatestRisk = &RiskRecord{
				ID:          riskID.Int64,
				TouristID:   o.ID,
				Level:       parseLevel(riskLevel.String),
				Score:       int(riskScore.Int64),
				Anomalies:   splitAnomalies(anomalies.String),
				AnomalyType: anomalyType.String,
				Details:     details.String,
				EvaluatedAt: evaluatedAt.Time,
			}
		}
		out = append(out, o)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tourist overview: %w", err)
	}
	return out, nil
}

func scanTourist(row *sql.Row) (*Tourist, error) {
	var (
		t                         Tourist
		name, email, phone, phash sql.NullString
	)
	err := row.Scan(&t.ID, &t.DeviceID, &name, &email, &phone, &phash, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan tourist: %w", err)
	}
	t.Name, t.Email, t.Phone, t.PasswordHash = name.String, email.String, phone.String, phash.String
	return &t, nil
}

// nullString maps "" to NULL.
func nullString(s string) sql.NullString {
	s = strings.TrimSpace(s)
	return sql.NullString{String: s, Valid: s != ""}
}

func floatPtr(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}
