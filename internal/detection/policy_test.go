// Safewatch - Tourist Safety Tracking and Risk Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safewatch

package detection

import (
	"strings"
	"testing"
	"time"
)

func TestDefaultPolicy(t *testing.T) {
	t.Parallel()

	p := DefaultPolicy()
	if err := p.Validate(); err != nil {
		t.Fatalf("default policy is invalid: %v", err)
	}

	if p.HistoryWindow != 24*time.Hour || p.MaxPoints != 50 || p.AlertWindow != 6*time.Hour {
		t.Errorf("windows = %v/%d/%v, want 24h/50/6h", p.HistoryWindow, p.MaxPoints, p.AlertWindow)
	}
	if p.Bands != (Bands{Medium: 20, High: 40, Critical: 60}) {
		t.Errorf("bands = %+v", p.Bands)
	}
}

func TestPolicy_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Policy)
		wantErr string
	}{
		{
			name:    "zero weight",
			mutate:  func(p *Policy) { p.Weights[AnomalySuddenStop] = 0 },
			wantErr: "weight for suddenStop must be positive",
		},
		{
			name:    "missing weight",
			mutate:  func(p *Policy) { delete(p.Weights, AnomalyRouteDeviation) },
			wantErr: "weight for routeDeviation is missing",
		},
		{
			name:    "unknown anomaly",
			mutate:  func(p *Policy) { p.Weights["teleport"] = 5 },
			wantErr: `unknown anomaly "teleport"`,
		},
		{
			name:    "bands not increasing",
			mutate:  func(p *Policy) { p.Bands.High = p.Bands.Critical },
			wantErr: "bands must satisfy",
		},
		{
			name:    "empty history window",
			mutate:  func(p *Policy) { p.HistoryWindow = 0 },
			wantErr: "history window must be positive",
		},
		{
			name:    "empty alert window",
			mutate:  func(p *Policy) { p.AlertWindow = -time.Hour },
			wantErr: "alert window must be positive",
		},
		{
			name:    "residual ratio out of range",
			mutate:  func(p *Policy) { p.Thresholds.SuddenStopResidualRatio = 1.5 },
			wantErr: "residual ratio",
		},
		{
			name:    "recent points exceed minimum",
			mutate:  func(p *Policy) { p.Thresholds.RouteDeviationRecentPoints = 20 },
			wantErr: "recent points",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := DefaultPolicy()
			tt.mutate(&p)
			err := p.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestPolicy_Clone(t *testing.T) {
	t.Parallel()

	p := DefaultPolicy()
	c := p.Clone()
	c.Weights[AnomalyFrequentAlerts] = 99

	if p.Weights[AnomalyFrequentAlerts] != 40 {
		t.Error("Clone shares the weights map")
	}
}
