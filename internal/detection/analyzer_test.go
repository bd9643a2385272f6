// Safewatch - Tourist Safety Tracking and Risk Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safewatch

package detection

import (
	"reflect"
	"testing"
	"time"
)

func TestAnalyzeAndScore_Scenarios(t *testing.T) {
	t.Parallel()

	calmWalk := trackFromLegs(
		leg{speedKmh: 4, duration: 10 * time.Minute},
		leg{speedKmh: 5, duration: 10 * time.Minute},
	)
	lingering := newestFirst([]LocationPoint{
		pointAt(0, 0, 0),
		pointAt(30, 20, 45),
		pointAt(-25, 10, 90),
		pointAt(10, -35, 135),
		pointAt(20, 15, 180),
	})

	tests := []struct {
		name         string
		series       LocationSeries
		alertCount   int
		wantAnalysis MovementAnalysis
		wantScore    int
		wantLevel    RiskLevel
		wantDetails  string
	}{
		{
			name:         "single point is insufficient",
			series:       LocationSeries{pointAt(0, 0, 0)},
			wantAnalysis: MovementAnalysis{},
			wantScore:    0,
			wantLevel:    RiskLow,
			wantDetails:  NoAnomaliesDetails,
		},
		{
			name:         "100 km in 10 minutes",
			series:       trackFromLegs(leg{speedKmh: 600, duration: 10 * time.Minute}),
			wantAnalysis: MovementAnalysis{UnusualSpeed: true, Sufficient: true},
			wantScore:    20,
			wantLevel:    RiskMedium,
			wantDetails:  "Unusual speed pattern",
		},
		{
			name:         "five points near one spot over three hours",
			series:       lingering,
			wantAnalysis: MovementAnalysis{StationaryTooLong: true, Sufficient: true},
			wantScore:    30,
			wantLevel:    RiskMedium,
			wantDetails:  "Stationary too long",
		},
		{
			name:         "three alerts with calm movement",
			series:       calmWalk,
			alertCount:   3,
			wantAnalysis: MovementAnalysis{FrequentAlerts: true, Sufficient: true},
			wantScore:    40,
			wantLevel:    RiskHigh,
			wantDetails:  "Frequent SOS alerts",
		},
		{
			name: "speeds 80 80 3",
			series: trackFromLegs(
				leg{speedKmh: 80, duration: 10 * time.Minute},
				leg{speedKmh: 80, duration: 10 * time.Minute},
				leg{speedKmh: 3, duration: 10 * time.Minute},
			),
			wantAnalysis: MovementAnalysis{SuddenStop: true, Sufficient: true},
			wantScore:    25,
			wantLevel:    RiskMedium,
			wantDetails:  "Sudden stop detected",
		},
		{
			name:         "alerts and stationary combined",
			series:       lingering,
			alertCount:   2,
			wantAnalysis: MovementAnalysis{FrequentAlerts: true, StationaryTooLong: true, Sufficient: true},
			wantScore:    70,
			wantLevel:    RiskCritical,
			wantDetails:  "Frequent SOS alerts, Stationary too long",
		},
		{
			name:         "calm movement without alerts",
			series:       calmWalk,
			wantAnalysis: MovementAnalysis{Sufficient: true},
			wantScore:    0,
			wantLevel:    RiskLow,
			wantDetails:  NoAnomaliesDetails,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			analysis := Analyze(tt.series, tt.alertCount)
			if analysis != tt.wantAnalysis {
				t.Fatalf("Analyze() = %+v, want %+v", analysis, tt.wantAnalysis)
			}

			got := Score(analysis)
			if got.Score != tt.wantScore {
				t.Errorf("Score = %d, want %d", got.Score, tt.wantScore)
			}
			if got.Level != tt.wantLevel {
				t.Errorf("Level = %s, want %s", got.Level, tt.wantLevel)
			}
			if got.Details != tt.wantDetails {
				t.Errorf("Details = %q, want %q", got.Details, tt.wantDetails)
			}
		})
	}
}

func TestAnalyze_InsufficientDataIgnoresAlerts(t *testing.T) {
	t.Parallel()

	for _, series := range []LocationSeries{nil, {}, {pointAt(0, 0, 0)}} {
		got := Analyze(series, 10)
		if got != (MovementAnalysis{}) {
			t.Errorf("Analyze(%d points, 10 alerts) = %+v, want all false", len(series), got)
		}
		if got.Sufficient {
			t.Error("expected Sufficient=false")
		}
	}
}

func TestAnalyze_CombinedExplanationOrder(t *testing.T) {
	t.Parallel()

	series := newestFirst([]LocationPoint{
		pointAt(0, 0, 0), pointAt(10, 0, 45), pointAt(20, 0, 90), pointAt(10, 0, 135), pointAt(5, 0, 180),
	})
	got := Score(Analyze(series, 2))

	want := []Anomaly{AnomalyFrequentAlerts, AnomalyStationaryTooLong}
	if !reflect.DeepEqual(got.Anomalies, want) {
		t.Fatalf("Anomalies = %v, want %v", got.Anomalies, want)
	}
	if got.AnomalyType != "Frequent SOS alerts" {
		t.Errorf("AnomalyType = %q, want %q", got.AnomalyType, "Frequent SOS alerts")
	}
}

// constantDetector always reports a fixed anomaly.
type constantDetector struct {
	anomaly Anomaly
	result  bool
}

func (d constantDetector) Anomaly() Anomaly  { return d.anomaly }
func (d constantDetector) Detect(Input) bool { return d.result }

func TestNewAnalyzerWithDetectors(t *testing.T) {
	t.Parallel()

	a := NewAnalyzerWithDetectors(
		constantDetector{anomaly: AnomalyRouteDeviation, result: false},
		constantDetector{anomaly: AnomalyRouteDeviation, result: true},
		constantDetector{anomaly: AnomalySuddenStop, result: false},
	)

	got := a.Analyze(trackFromLegs(leg{speedKmh: 4, duration: time.Minute}), 0)
	want := MovementAnalysis{RouteDeviation: true, Sufficient: true}
	if got != want {
		t.Errorf("Analyze() = %+v, want %+v", got, want)
	}
}

func TestNewAnalyzer_UsesPolicyThresholds(t *testing.T) {
	t.Parallel()

	policy := DefaultPolicy()
	policy.Thresholds.UnusualSpeedKmh = 50

	series := trackFromLegs(leg{speedKmh: 80, duration: 30 * time.Minute})

	if Analyze(series, 0).UnusualSpeed {
		t.Fatal("80 km/h must not trip the default policy")
	}
	if !NewAnalyzer(policy).Analyze(series, 0).UnusualSpeed {
		t.Error("80 km/h must trip a 50 km/h policy")
	}
}
