// Safewatch - Tourist Safety Tracking and Risk Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safewatch

package detection

import (
	"strings"
	"time"

	"github.com/tomtom215/safewatch/internal/geo"
)

// LocationPoint is a single GPS fix reported by a subject's device.
type LocationPoint struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Accuracy  *float64  `json:"accuracy,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Coordinate returns the point's position.
func (p LocationPoint) Coordinate() geo.Coordinate {
	return geo.Coordinate{Latitude: p.Latitude, Longitude: p.Longitude}
}

// LocationSeries is a subject's recent fixes ordered newest first.
// Index 0 is the most recent point.
type LocationSeries []LocationPoint

// Coordinates returns the positions of every point in the series.
func (s LocationSeries) Coordinates() []geo.Coordinate {
	coords := make([]geo.Coordinate, len(s))
	for i, p := range s {
		coords[i] = p.Coordinate()
	}
	return coords
}

// speedKmh returns the speed between two fixes in km/h.
func speedKmh(earlier, later LocationPoint) float64 {
	return geo.SpeedKmh(earlier.Coordinate(), later.Coordinate(), later.Timestamp.Sub(earlier.Timestamp))
}

// Anomaly identifies one of the five movement or alert conditions.
type Anomaly string

const (
	// AnomalyFrequentAlerts flags repeated SOS alerts in the alert window.
	AnomalyFrequentAlerts Anomaly = "frequentAlerts"

	// AnomalySuddenStop flags an abrupt drop from travelling speed to near zero.
	AnomalySuddenStop Anomaly = "suddenStop"

	// AnomalyUnusualSpeed flags physically implausible movement.
	AnomalyUnusualSpeed Anomaly = "unusualSpeed"

	// AnomalyStationaryTooLong flags prolonged immobility.
	AnomalyStationaryTooLong Anomaly = "stationaryTooLong"

	// AnomalyRouteDeviation flags recent fixes far from the series centroid.
	AnomalyRouteDeviation Anomaly = "routeDeviation"
)

// EvaluationOrder is the fixed order in which anomalies are reported.
// Explanations follow this order, not weight order.
var EvaluationOrder = []Anomaly{
	AnomalyFrequentAlerts,
	AnomalySuddenStop,
	AnomalyUnusualSpeed,
	AnomalyStationaryTooLong,
	AnomalyRouteDeviation,
}

var anomalyLabels = map[Anomaly]string{
	AnomalyFrequentAlerts:    "Frequent SOS alerts",
	AnomalySuddenStop:        "Sudden stop detected",
	AnomalyUnusualSpeed:      "Unusual speed pattern",
	AnomalyStationaryTooLong: "Stationary too long",
	AnomalyRouteDeviation:    "Route deviation",
}

// Label returns the operator-facing description of the anomaly.
func (a Anomaly) Label() string {
	if label, ok := anomalyLabels[a]; ok {
		return label
	}
	return string(a)
}

// Valid reports whether a is one of the known anomalies.
func (a Anomaly) Valid() bool {
	_, ok := anomalyLabels[a]
	return ok
}

// MovementAnalysis holds the outcome of every detector for one evaluation.
type MovementAnalysis struct {
	SuddenStop        bool `json:"sudden_stop"`
	UnusualSpeed      bool `json:"unusual_speed"`
	RouteDeviation    bool `json:"route_deviation"`
	FrequentAlerts    bool `json:"frequent_alerts"`
	StationaryTooLong bool `json:"stationary_too_long"`

	// Sufficient is false when the series had fewer than two points. In that
	// case every flag is false because nothing was evaluated, which is not
	// the same as an evaluated, clean subject.
	Sufficient bool `json:"sufficient_data"`
}

// Flag returns the value of the flag for anomaly a.
func (m MovementAnalysis) Flag(a Anomaly) bool {
	switch a {
	case AnomalyFrequentAlerts:
		return m.FrequentAlerts
	case AnomalySuddenStop:
		return m.SuddenStop
	case AnomalyUnusualSpeed:
		return m.UnusualSpeed
	case AnomalyStationaryTooLong:
		return m.StationaryTooLong
	case AnomalyRouteDeviation:
		return m.RouteDeviation
	default:
		return false
	}
}

// WithFlag returns a copy of m with the flag for anomaly a set to v.
func (m MovementAnalysis) WithFlag(a Anomaly, v bool) MovementAnalysis {
	switch a {
	case AnomalyFrequentAlerts:
		m.FrequentAlerts = v
	case AnomalySuddenStop:
		m.SuddenStop = v
	case AnomalyUnusualSpeed:
		m.UnusualSpeed = v
	case AnomalyStationaryTooLong:
		m.StationaryTooLong = v
	case AnomalyRouteDeviation:
		m.RouteDeviation = v
	}
	return m
}

// RiskLevel is the ordinal risk category derived from a score.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// Rank orders levels from 0 (low) to 3 (critical). Unknown levels rank -1.
func (l RiskLevel) Rank() int {
	switch l {
	case RiskLow:
		return 0
	case RiskMedium:
		return 1
	case RiskHigh:
		return 2
	case RiskCritical:
		return 3
	default:
		return -1
	}
}

// ParseRiskLevel converts a stored level string into a RiskLevel.
func ParseRiskLevel(s string) (RiskLevel, bool) {
	l := RiskLevel(strings.ToLower(strings.TrimSpace(s)))
	return l, l.Rank() >= 0
}

// NoAnomaliesDetails is the explanation used when an evaluation found nothing.
const NoAnomaliesDetails = "No anomalies detected"

// RiskAssessment is the scored result of one evaluation.
type RiskAssessment struct {
	Level     RiskLevel `json:"risk_level"`
	Score     int       `json:"risk_score"`
	Anomalies []Anomaly `json:"anomalies"`

	// AnomalyType is the label of the first anomaly, empty when there are none.
	AnomalyType string `json:"anomaly_type,omitempty"`

	// Details is the comma-separated list of anomaly labels, or
	// NoAnomaliesDetails.
	Details string `json:"details"`
}

// explain builds AnomalyType and Details from an ordered anomaly list.
func explain(anomalies []Anomaly) (anomalyType, details string) {
	if len(anomalies) == 0 {
		return "", NoAnomaliesDetails
	}

	labels := make([]string, len(anomalies))
	for i, a := range anomalies {
		labels[i] = a.Label()
	}
	return labels[0], strings.Join(labels, ", ")
}
