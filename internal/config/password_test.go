// Safewatch - Tourist Safety Tracking and Risk Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safewatch

package config

import (
	"strings"
	"testing"
)

func TestOfficerPasswordPolicy(t *testing.T) {
	policy := OfficerPasswordPolicy()

	tests := []struct {
		name     string
		password string
		identity string
		wantErr  string
	}{
		{"strong", "Harbour-Lights-42!", "police", ""},
		{"too short", "Ab1!xyz", "police", "at least 12"},
		{"no uppercase", "harbour-lights-42!", "police", "uppercase"},
		{"no digit", "Harbour-Lights-XY!", "police", "digit"},
		{"no special", "HarbourLights42x", "police", "special"},
		{"repeats", "Haaaarbour-42!xy", "police", "repeat"},
		{"contains username", "Police-Station-42!", "police", "similar"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := policy.Check(tt.password, tt.identity)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Check() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Check() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestTouristPasswordPolicy(t *testing.T) {
	policy := TouristPasswordPolicy()

	if err := policy.Check("sunny beach 7", "ana@example.com"); err != nil {
		t.Errorf("reasonable tourist password rejected: %v", err)
	}
	if err := policy.Check("password1", ""); err == nil || !strings.Contains(err.Error(), "common") {
		t.Errorf("common password accepted, err = %v", err)
	}
	if err := policy.Check("ana12345", "ana.lopez@example.com"); err != nil {
		t.Errorf("short identity fragments should not trip similarity: %v", err)
	}
	if err := policy.Check("lopez2026x", "lopez@example.com"); err == nil {
		t.Error("password containing the email local part should be rejected")
	}
}

func TestCheck_ReportsAllFailures(t *testing.T) {
	err := OfficerPasswordPolicy().Check("abc", "")
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"at least 12", "uppercase", "digit", "special"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %q", err, want)
		}
	}
}
