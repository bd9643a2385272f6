// Safewatch - Tourist Safety Tracking and Risk Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safewatch

package database

import (
	"time"

	"github.com/tomtom215/safewatch/internal/detection"
)

// Alert statuses.
const (
	AlertStatusActive   = "active"
	AlertStatusResolved = "resolved"
)

// Tourist is a registered device.
type Tourist struct {
	ID           int64     `json:"id"`
	DeviceID     string    `json:"device_id"`
	Name         string    `json:"name,omitempty"`
	Email        string    `json:"email,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewTourist holds registration input.
type NewTourist struct {
	DeviceID     string
	Name         string
	Email        string
	Phone        string
	PasswordHash string
}

// Location is a stored GPS fix.
type Location struct {
	ID         int64     `json:"id"`
	TouristID  int64     `json:"tourist_id"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	Accuracy   *float64  `json:"accuracy,omitempty"`
	RecordedAt time.Time `json:"timestamp"`
	CreatedAt  time.Time `json:"created_at"`
}

// Point converts the row to the risk engine's representation.
func (l Location) Point() detection.LocationPoint {
	return detection.LocationPoint{
		Latitude:  l.Latitude,
		Longitude: l.Longitude,
		Accuracy:  l.Accuracy,
		Timestamp: l.RecordedAt,
	}
}

// SOSAlert is a raised alert.
type SOSAlert struct {
	ID         int64      `json:"id"`
	TouristID  int64      `json:"tourist_id"`
	Latitude   float64    `json:"latitude"`
	Longitude  float64    `json:"longitude"`
	Message    string     `json:"message,omitempty"`
	Status     string     `json:"status"`
	RaisedAt   time.Time  `json:"timestamp"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
}

// AlertWithTourist is an alert joined with the raising tourist's contact data.
type AlertWithTourist struct {
	SOSAlert
	DeviceID string `json:"device_id"`
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

// RiskRecord is one row of risk history.
type RiskRecord struct {
	ID          int64               `json:"id"`
	TouristID   int64               `json:"tourist_id"`
	Level       detection.RiskLevel `json:"risk_level"`
	Score       int                 `json:"risk_score"`
	Anomalies   []detection.Anomaly `json:"anomalies"`
	AnomalyType string              `json:"anomaly_type,omitempty"`
	Details     string              `json:"details"`
	EvaluatedAt time.Time           `json:"timestamp"`
}

// TouristOverview is one row of the police dashboard.
type TouristOverview struct {
	Tourist
	LastLocation   *Location   `json:"last_location,omitempty"`
	ActiveSOSCount int         `json:"active_sos_count"`
	LatestRisk     *RiskRecord `json:"latest_risk,omitempty"`
}
