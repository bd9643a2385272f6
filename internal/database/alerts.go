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
	"time"
)

// NewSOSAlert holds the input for raising an alert.
type NewSOSAlert struct {
	TouristID int64
	Latitude  float64
	Longitude float64
	Message   string
}

const alertColumns = `id, tourist_id, latitude, longitude, message, status, raised_at, resolved_at`

// CreateSOSAlert stores an active alert raised now.
func (db *DB) CreateSOSAlert(ctx context.Context, in NewSOSAlert) (alert *SOSAlert, err error) {
	defer observe("INSERT", "sos_alerts", time.Now(), &err)

	raised := db.now()
	var id int64
	err = db.conn.QueryRowContext(ctx, `
		INSERT INTO sos_alerts (tourist_id, latitude, longitude, message, status, raised_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id`,
		in.TouristID, in.Latitude, in.Longitude, nullString(in.Message), AlertStatusActive, raised,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to insert sos alert: %w", err)
	}

	return &SOSAlert{
		ID:        id,
		TouristID: in.TouristID,
		Latitude:  in.Latitude,
		Longitude: in.Longitude,
		Message:   in.Message,
		Status:    AlertStatusActive,
		RaisedAt:  raised,
	}, nil
}

// GetSOSAlert returns an alert by ID, or ErrNotFound.
func (db *DB) GetSOSAlert(ctx context.Context, id int64) (*SOSAlert, error) {
	row := db.conn.QueryRowContext(ctx, `SELECT `+alertColumns+` FROM sos_alerts WHERE id = ?`, id)

	var (
		a        SOSAlert
		msg      sql.NullString
		resolved sql.NullTime
	)
	err := row.Scan(&a.ID, &a.TouristID, &a.Latitude, &a.Longitude, &msg, &a.Status, &a.RaisedAt, &resolved)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan sos alert: %w", err)
	}
	a.Message = msg.String
	if resolved.Valid {
		t := resolved.Time
		a.ResolvedAt = &t
	}
	return &a, nil
}

// ListActiveAlerts returns active alerts joined with tourist contact data,
// newest first.
func (db *DB) ListActiveAlerts(ctx context.Context) (out []AlertWithTourist, err error) {
	defer observe("SELECT", "sos_alerts", time.Now(), &err)

	rows, err := db.conn.QueryContext(ctx, `
		SELECT s.id, s.tourist_id, s.latitude, s.longitude, s.message, s.status, s.raised_at, s.resolved_at,
		       t.device_id, t.name, t.email, t.phone
		FROM sos_alerts s
		JOIN tourists t ON t.id = s.tourist_id
		WHERE s.status = 'active'
		ORDER BY s.raised_at DESC, s.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query active alerts: %w", err)
	}
	defer closeWithLog(rows, "rows")

	out = []AlertWithTourist{}
	for rows.Next() {
		var (
			a                  AlertWithTourist
			msg                sql.NullString
			resolved           sql.NullTime
			name, email, phone sql.NullString
		)
		if err = rows.Scan(&a.ID, &a.TouristID, &a.Latitude, &a.Longitude, &msg, &a.Status, &a.RaisedAt, &resolved,
			&a.DeviceID, &name, &email, &phone); err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}
		a.Message = msg.String
		if resolved.Valid {
			t := resolved.Time
			a.ResolvedAt = &t
		}
		a.Name, a.Email, a.Phone = name.String, email.String, phone.String
		out = append(out, a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate alerts: %w", err)
	}
	return out, nil
}

// ResolveAlert marks an active alert resolved. It returns ErrNotFound for an
// unknown ID and ErrAlreadyResolved when the alert is not active.
func (db *DB) ResolveAlert(ctx context.Context, id int64) (alert *SOSAlert, err error) {
	defer observe("UPDATE", "sos_alerts", time.Now(), &err)

	current, err := db.GetSOSAlert(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status != AlertStatusActive {
		return current, ErrAlreadyResolved
	}

	resolvedAt := db.now()
	res, err := db.conn.ExecContext(ctx, `
		UPDATE sos_alerts SET status = ?, resolved_at = ?
		WHERE id = ? AND status = 'active'`,
		AlertStatusResolved, resolvedAt, id)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve alert: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return current, ErrAlreadyResolved
	}

	current.Status = AlertStatusResolved
	current.ResolvedAt = &resolvedAt
	return current, nil
}

// FetchAlertCount implements detection.LocationSource. Both active and
// resolved alerts count: a resolved alert was still raised.
func (db *DB) FetchAlertCount(ctx context.Context, subjectID int64, window time.Duration) (n int, err error) {
	defer observe("SELECT", "sos_alerts", time.Now(), &err)

	err = db.conn.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM sos_alerts
		WHERE tourist_id = ? AND raised_at > ?`,
		subjectID, db.now().Add(-window)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count alerts: %w", err)
	}
	return n, nil
}
