// Safewatch - Tourist Safety Tracking and Risk Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safewatch

package authz

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"testing"
)

func newTestEnforcer(t *testing.T, cfg *EnforcerConfig) *Enforcer {
	t.Helper()
	e, err := NewEnforcer(cfg)
	if err != nil {
		t.Fatalf("NewEnforcer() error = %v", err)
	}
	t.Cleanup(e.Close)
	return e
}

func TestEnforcer_EmbeddedPolicy(t *testing.T) {
	e := newTestEnforcer(t, nil)
	if e.Source() != "embedded" {
		t.Errorf("Source() = %q", e.Source())
	}

	tests := []struct {
		role, path, method string
		want               bool
	}{
		{"tourist", "/api/v1/location/update", http.MethodPost, true},
		{"tourist", "/api/v1/location/update", http.MethodGet, false},
		{"tourist", "/api/v1/location/history", http.MethodGet, true},
		{"tourist", "/api/v1/sos/alert", http.MethodPost, true},
		{"tourist", "/api/v1/auth/logout", http.MethodPost, true},
		{"tourist", "/api/v1/police/alerts", http.MethodGet, false},
		{"tourist", "/api/v1/ai/analyze", http.MethodPost, false},
		{"tourist", "/api/v1/ws", http.MethodGet, false},

		{"police", "/api/v1/police/tourists", http.MethodGet, true},
		{"police", "/api/v1/police/tourists/12/risk-history", http.MethodGet, true},
		{"police", "/api/v1/police/alerts", http.MethodGet, true},
		{"police", "/api/v1/police/alerts/7", http.MethodPatch, true},
		{"police", "/api/v1/police/alerts/7", http.MethodDelete, false},
		{"police", "/api/v1/ai/analyze", http.MethodPost, true},
		{"police", "/api/v1/ai/analyze-all", http.MethodPost, true},
		{"police", "/api/v1/ws", http.MethodGet, true},
		{"police", "/api/v1/location/history", http.MethodGet, true},
		{"police", "/api/v1/location/update", http.MethodPost, false},
		{"police", "/api/v1/sos/alert", http.MethodPost, false},

		{"admin", "/api/v1/police/alerts", http.MethodGet, false},
		{"", "/api/v1/location/history", http.MethodGet, false},
	}
	for _, tt := range tests {
		got, err := e.Enforce(tt.role, tt.path, tt.method)
		if err != nil {
			t.Fatalf("Enforce(%q, %q, %q) error = %v", tt.role, tt.path, tt.method, err)
		}
		if got != tt.want {
			t.Errorf("Enforce(%q, %s %s) = %v, want %v", tt.role, tt.method, tt.path, got, tt.want)
		}
	}
}

func TestEnforcer_MethodRegexIsAnchored(t *testing.T) {
	e := newTestEnforcer(t, nil)
	// ^POST$ must not match a method that merely contains POST.
	if ok, _ := e.Enforce("tourist", "/api/v1/sos/alert", "XPOSTX"); ok { //nolint:errcheck // false on error
		t.Error("unanchored method match")
	}
}

func TestEnforcer_PolicyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.csv")
	policy := "p, auditor, /api/v1/police/alerts, ^GET$\n"
	if err := os.WriteFile(path, []byte(policy), 0o600); err != nil {
		t.Fatal(err)
	}

	e := newTestEnforcer(t, &EnforcerConfig{PolicyPath: path})
	if e.Source() != path {
		t.Errorf("Source() = %q, want %q", e.Source(), path)
	}
	if ok, err := e.Enforce("auditor", "/api/v1/police/alerts", http.MethodGet); err != nil || !ok {
		t.Errorf("file policy not applied: %v, %v", ok, err)
	}
	if ok, _ := e.Enforce("police", "/api/v1/police/alerts", http.MethodGet); ok { //nolint:errcheck // false on error
		t.Error("embedded policy should be replaced by the file")
	}
}

func TestEnforcer_MissingPolicyFileFallsBack(t *testing.T) {
	e := newTestEnforcer(t, &EnforcerConfig{PolicyPath: filepath.Join(t.TempDir(), "absent.csv")})
	if e.Source() != "embedded" {
		t.Errorf("Source() = %q, want embedded", e.Source())
	}
}

func TestLoadPolicyText_Errors(t *testing.T) {
	e := newTestEnforcer(t, &EnforcerConfig{})
	for _, bad := range []string{
		"p, tourist, /x",
		"g, a",
		"x, a, b, c",
	} {
		if err := loadPolicyText(e.enforcer, bad); err == nil {
			t.Errorf("loadPolicyText(%q) succeeded", bad)
		}
	}
}

func TestDecisionCache(t *testing.T) {
	e := newTestEnforcer(t, &EnforcerConfig{CacheEnabled: true})

	for i := 0; i < 3; i++ {
		if ok, err := e.Enforce("police", "/api/v1/ws", http.MethodGet); err != nil || !ok {
			t.Fatalf("Enforce() = %v, %v", ok, err)
		}
	}
	if n := e.cache.len(); n != 1 {
		t.Errorf("cache entries = %d, want 1", n)
	}

	c := newDecisionCache(0)
	defer c.stop()
	c.stop()
	for i := 0; i < maxCachedDecisions+5; i++ {
		c.set("tourist", fmt.Sprintf("/p/%d", i), http.MethodGet, true)
	}
	if c.len() > maxCachedDecisions {
		t.Errorf("cache grew to %d entries", c.len())
	}
}
