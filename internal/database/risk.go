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

	"github.com/tomtom215/safewatch/internal/detection"
)

// AppendRiskAssessment implements detection.AssessmentSink. Every call
// inserts a new history row; nothing is ever updated.
func (db *DB) AppendRiskAssessment(ctx context.Context, subjectID int64, a detection.RiskAssessment, evaluatedAt time.Time) (err error) {
	defer observe("INSERT", "risk_assessments", time.Now(), &err)

	_, err = db.conn.ExecContext(ctx, `
		INSERT INTO risk_assessments (tourist_id, risk_level, risk_score, anomalies, anomaly_type, details, evaluated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		subjectID, string(a.Level), a.Score, joinAnomalies(a.Anomalies), nullString(a.AnomalyType), a.Details, evaluatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to append risk assessment: %w", err)
	}
	return nil
}

const riskColumns = `id, tourist_id, risk_level, risk_score, anomalies, anomaly_type, details, evaluated_at`

// LatestRiskAssessment returns the most recent assessment for a tourist, or
// ErrNotFound when none exists.
func (db *DB) LatestRiskAssessment(ctx context.Context, touristID int64) (*RiskRecord, error) {
	row := db.conn.QueryRowContext(ctx, `
		SELECT `+riskColumns+`
		FROM risk_assessments
		WHERE tourist_id = ?
		ORDER BY evaluated_at DESC, id DESC
		LIMIT 1`, touristID)

	r, err := scanRisk(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return r, err
}

// RiskHistory returns up to limit assessments for a tourist, newest first.
func (db *DB) RiskHistory(ctx context.Context, touristID int64, limit int) (out []RiskRecord, err error) {
	defer observe("SELECT", "risk_assessments", time.Now(), &err)

	if limit <= 0 {
		limit = 50
	}
	rows, err := db.conn.QueryContext(ctx, `
		SELECT `+riskColumns+`
		FROM risk_assessments
		WHERE tourist_id = ?
		ORDER BY evaluated_at DESC, id DESC
		LIMIT ?`, touristID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query risk history: %w", err)
	}
	defer closeWithLog(rows, "rows")

	out = []RiskRecord{}
	for rows.Next() {
		r, scanErr := scanRisk(rows.Scan)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, *r)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate risk history: %w", err)
	}
	return out, nil
}

func scanRisk(scan func(dest ...any) error) (*RiskRecord, error) {
	var (
		r           RiskRecord
		level       string
		anomalies   string
		anomalyType sql.NullString
	)
	if err := scan(&r.ID, &r.TouristID, &level, &r.Score, &anomalies, &anomalyType, &r.Details, &r.EvaluatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan risk assessment: %w", err)
	}
	r.Level = parseLevel(level)
	r.Anomalies = splitAnomalies(anomalies)
	r.AnomalyType = anomalyType.String
	return &r, nil
}

func joinAnomalies(list []detection.Anomaly) string {
	parts := make([]string, len(list))
	for i, a := range list {
		parts[i] = string(a)
	}
	return strings.Join(parts, ",")
}

func splitAnomalies(s string) []detection.Anomaly {
	out := []detection.Anomaly{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, detection.Anomaly(part))
		}
	}
	return out
}

func parseLevel(s string) detection.RiskLevel {
	if l, ok := detection.ParseRiskLevel(s); ok {
		return l
	}
	return detection.RiskLow
}
