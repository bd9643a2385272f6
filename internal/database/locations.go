// Safewatch - Tourist Safety Tracking and Risk Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safewatch

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tomtom215/safewatch/internal/detection"
)

// NewLocation holds a location update.
type NewLocation struct {
	TouristID  int64
	Latitude   float64
	Longitude  float64
	Accuracy   *float64
	RecordedAt time.Time
}

// InsertLocation stores a fix and returns the stored row.
func (db *DB) InsertLocation(ctx context.Context, in NewLocation) (loc *Location, err error) {
	defer observe("INSERT", "locations", time.Now(), &err)

	recorded := in.RecordedAt.UTC()
	created := db.now()
	if in.RecordedAt.IsZero() {
		recorded = created
	}

	var id int64
	err = db.conn.QueryRowContext(ctx, `
		INSERT INTO locations (tourist_id, latitude, longitude, accuracy, recorded_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id`,
		in.TouristID, in.Latitude, in.Longitude, in.Accuracy, recorded, created,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to insert location: %w", err)
	}

	return &Location{
		ID:         id,
		TouristID:  in.TouristID,
		Latitude:   in.Latitude,
		Longitude:  in.Longitude,
		Accuracy:   in.Accuracy,
		RecordedAt: recorded,
		CreatedAt:  created,
	}, nil
}

// LocationHistory returns up to limit fixes recorded strictly after now-window,
// newest first.
func (db *DB) LocationHistory(ctx context.Context, touristID int64, window time.Duration, limit int) (out []Location, err error) {
	defer observe("SELECT", "locations", time.Now(), &err)

	if limit <= 0 {
		limit = 50
	}
	since := db.now().Add(-window)

	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, tourist_id, latitude, longitude, accuracy, recorded_at, created_at
		FROM locations
		WHERE tourist_id = ? AND recorded_at > ?
		ORDER BY recorded_at DESC, id DESC
		LIMIT ?`, touristID, since, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query locations: %w", err)
	}
	defer closeWithLog(rows, "rows")

	out = []Location{}
	for rows.Next() {
		var (
			l   Location
			acc sql.NullFloat64
		)
		if err = rows.Scan(&l.ID, &l.TouristID, &l.Latitude, &l.Longitude, &acc, &l.RecordedAt, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan location: %w", err)
		}
		l.Accuracy = floatPtr(acc)
		out = append(out, l)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate locations: %w", err)
	}
	return out, nil
}

// FetchRecentLocations implements detection.LocationSource.
func (db *DB) FetchRecentLocations(ctx context.Context, subjectID int64, window time.Duration, maxCount int) (detection.LocationSeries, error) {
	locs, err := db.LocationHistory(ctx, subjectID, window, maxCount)
	if err != nil {
		return nil, err
	}
	series := make(detection.LocationSeries, len(locs))
	for i, l := range locs {
		series[i] = l.Point()
	}
	return series, nil
}

// ActiveSubjects implements detection.LocationSource.
func (db *DB) ActiveSubjects(ctx context.Context, window time.Duration) (ids []int64, err error) {
	defer observe("SELECT", "locations", time.Now(), &err)

	rows, err := db.conn.QueryContext(ctx, `
		SELECT DISTINCT tourist_id
		FROM locations
		WHERE recorded_at > ?
		ORDER BY tourist_id`, db.now().Add(-window))
	if err != nil {
		return nil, fmt.Errorf("failed to query active tourists: %w", err)
	}
	defer closeWithLog(rows, "rows")

	ids = []int64{}
	for rows.Next() {
		var id int64
		if err = rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan tourist id: %w", err)
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate active tourists: %w", err)
	}
	return ids, nil
}
