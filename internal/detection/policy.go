// Safewatch - Tourist Safety Tracking and Risk Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safewatch

package detection

import (
	"errors"
	"fmt"
	"time"
)

// Bands are the inclusive lower score bounds of each level above low.
type Bands struct {
	Medium   int `json:"medium"`
	High     int `json:"high"`
	Critical int `json:"critical"`
}

// Thresholds configures the five detectors.
type Thresholds struct {
	// Sudden stop
	SuddenStopMinPoints     int     `json:"sudden_stop_min_points"`
	SuddenStopMinSpeedKmh   float64 `json:"sudden_stop_min_speed_kmh"`
	SuddenStopResidualRatio float64 `json:"sudden_stop_residual_ratio"`

	// Unusual speed
	UnusualSpeedKmh float64 `json:"unusual_speed_kmh"`

	// Stationary too long. StationaryPoints is both the minimum series length
	// and the depth of the comparison point (index StationaryPoints-1).
	StationaryPoints       int           `json:"stationary_points"`
	StationaryRadiusMeters float64       `json:"stationary_radius_meters"`
	StationaryMinDuration  time.Duration `json:"stationary_min_duration"`

	// Frequent alerts
	FrequentAlertCount int `json:"frequent_alert_count"`

	// Route deviation
	RouteDeviationMinPoints    int     `json:"route_deviation_min_points"`
	RouteDeviationRecentPoints int     `json:"route_deviation_recent_points"`
	RouteDeviationMeters       float64 `json:"route_deviation_meters"`
}

// Policy holds every tunable of the risk engine.
type Policy struct {
	Weights    map[Anomaly]int `json:"weights"`
	Bands      Bands           `json:"bands"`
	Thresholds Thresholds      `json:"thresholds"`

	// HistoryWindow and MaxPoints bound the LocationSeries fetched per subject.
	HistoryWindow time.Duration `json:"history_window"`
	MaxPoints     int           `json:"max_points"`

	// AlertWindow is the trailing window for counting SOS alerts.
	AlertWindow time.Duration `json:"alert_window"`
}

// DefaultPolicy returns the reference policy.
func DefaultPolicy() Policy {
	return Policy{
		Weights: map[Anomaly]int{
			AnomalyFrequentAlerts:    40,
			AnomalyStationaryTooLong: 30,
			AnomalySuddenStop:        25,
			AnomalyUnusualSpeed:      20,
			AnomalyRouteDeviation:    15,
		},
		Bands: Bands{
			Medium:   20,
			High:     40,
			Critical: 60,
		},
		Thresholds: Thresholds{
			SuddenStopMinPoints:        3,
			SuddenStopMinSpeedKmh:      10,
			SuddenStopResidualRatio:    0.1,
			UnusualSpeedKmh:            150,
			StationaryPoints:           5,
			StationaryRadiusMeters:     100,
			StationaryMinDuration:      120 * time.Minute,
			FrequentAlertCount:         2,
			RouteDeviationMinPoints:    10,
			RouteDeviationRecentPoints: 3,
			RouteDeviationMeters:       5000,
		},
		HistoryWindow: 24 * time.Hour,
		MaxPoints:     50,
		AlertWindow:   6 * time.Hour,
	}
}

// Clone returns a deep copy of p.
func (p Policy) Clone() Policy {
	weights := make(map[Anomaly]int, len(p.Weights))
	for k, v := range p.Weights {
		weights[k] = v
	}
	p.Weights = weights
	return p
}

// Validate checks that the policy is usable.
func (p Policy) Validate() error {
	var errs []error

	for _, a := range EvaluationOrder {
		w, ok := p.Weights[a]
		if !ok {
			errs = append(errs, fmt.Errorf("weight for %s is missing", a))
			continue
		}
		if w <= 0 {
			errs = append(errs, fmt.Errorf("weight for %s must be positive, got %d", a, w))
		}
	}
	for a := range p.Weights {
		if !a.Valid() {
			errs = append(errs, fmt.Errorf("unknown anomaly %q in weights", a))
		}
	}

	if p.Bands.Medium <= 0 || p.Bands.Medium >= p.Bands.High || p.Bands.High >= p.Bands.Critical {
		errs = append(errs, fmt.Errorf("bands must satisfy 0 < medium < high < critical, got %d/%d/%d",
			p.Bands.Medium, p.Bands.High, p.Bands.Critical))
	}

	if p.HistoryWindow <= 0 {
		errs = append(errs, errors.New("history window must be positive"))
	}
	if p.AlertWindow <= 0 {
		errs = append(errs, errors.New("alert window must be positive"))
	}
	if p.MaxPoints < 2 {
		errs = append(errs, fmt.Errorf("max points must be at least 2, got %d", p.MaxPoints))
	}

	if err := p.Thresholds.validate(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func (t Thresholds) validate() error {
	var errs []error

	if t.SuddenStopMinPoints < 3 {
		errs = append(errs, fmt.Errorf("sudden stop needs at least 3 points, got %d", t.SuddenStopMinPoints))
	}
	if t.SuddenStopMinSpeedKmh <= 0 {
		errs = append(errs, errors.New("sudden stop minimum speed must be positive"))
	}
	if t.SuddenStopResidualRatio <= 0 || t.SuddenStopResidualRatio >= 1 {
		errs = append(errs, fmt.Errorf("sudden stop residual ratio must be in (0, 1), got %g", t.SuddenStopResidualRatio))
	}
	if t.UnusualSpeedKmh <= 0 {
		errs = append(errs, errors.New("unusual speed threshold must be positive"))
	}
	if t.StationaryPoints < 2 {
		errs = append(errs, fmt.Errorf("stationary points must be at least 2, got %d", t.StationaryPoints))
	}
	if t.StationaryRadiusMeters <= 0 {
		errs = append(errs, errors.New("stationary radius must be positive"))
	}
	if t.StationaryMinDuration <= 0 {
		errs = append(errs, errors.New("stationary duration must be positive"))
	}
	if t.FrequentAlertCount < 1 {
		errs = append(errs, fmt.Errorf("frequent alert count must be at least 1, got %d", t.FrequentAlertCount))
	}
	if t.RouteDeviationMinPoints < 2 {
		errs = append(errs, fmt.Errorf("route deviation needs at least 2 points, got %d", t.RouteDeviationMinPoints))
	}
	if t.RouteDeviationRecentPoints < 1 || t.RouteDeviationRecentPoints > t.RouteDeviationMinPoints {
		errs = append(errs, fmt.Errorf("route deviation recent points must be in [1, %d], got %d",
			t.RouteDeviationMinPoints, t.RouteDeviationRecentPoints))
	}
	if t.RouteDeviationMeters <= 0 {
		errs = append(errs, errors.New("route deviation distance must be positive"))
	}

	return errors.Join(errs...)
}
